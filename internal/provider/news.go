package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Headline is one news title fed to the analyst for classification.
type Headline struct {
	Title       string
	Source      string
	PublishedAt time.Time
}

var defaultFeeds = []string{
	"https://www.coindesk.com/arc/outboundfeeds/rss/",
	"https://cointelegraph.com/rss",
}

// NewsProvider pulls crypto headlines from RSS feeds.
type NewsProvider struct {
	client *http.Client
	feeds  []string
	tracer trace.Tracer
}

func NewNewsProvider(tracer trace.Tracer, feeds []string) *NewsProvider {
	if len(feeds) == 0 {
		feeds = defaultFeeds
	}
	return &NewsProvider{
		client: &http.Client{Timeout: 20 * time.Second},
		feeds:  feeds,
		tracer: tracer,
	}
}

// FetchHeadlines gathers up to limit titles across all configured feeds. A
// failing feed is logged and skipped.
func (p *NewsProvider) FetchHeadlines(ctx context.Context, limit int) ([]Headline, error) {
	_, span := p.tracer.Start(ctx, "news.fetch-headlines")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}
	perFeed := limit / len(p.feeds)
	if perFeed < 1 {
		perFeed = 1
	}

	var out []Headline
	for _, feedURL := range p.feeds {
		items, err := p.fetchFeed(ctx, feedURL, perFeed)
		if err != nil {
			log.Printf("news feed failed %s: %v", feedURL, err)
			continue
		}
		out = append(out, items...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no headlines from any feed")
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (p *NewsProvider) fetchFeed(ctx context.Context, feedURL string, maxItems int) ([]Headline, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rss fetch error %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rss struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title   string `xml:"title"`
				PubDate string `xml:"pubDate"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, fmt.Errorf("decode rss payload: %w", err)
	}

	source := strings.TrimSpace(rss.Channel.Title)
	items := make([]Headline, 0, maxItems)
	for _, row := range rss.Channel.Items {
		if len(items) >= maxItems {
			break
		}
		title := strings.TrimSpace(row.Title)
		if title == "" {
			continue
		}
		publishedAt := parseRSSDate(row.PubDate)
		if publishedAt.IsZero() {
			publishedAt = time.Now().UTC()
		}
		items = append(items, Headline{Title: title, Source: source, PublishedAt: publishedAt})
	}
	return items, nil
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
