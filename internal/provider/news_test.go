package provider

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <item><title>Bitcoin ETF inflows hit record</title><pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate></item>
    <item><title>Exchange outage triggers liquidations</title></item>
    <item><title></title></item>
  </channel>
</rss>`

func TestNewsProviderFetchHeadlines(t *testing.T) {
	p := NewNewsProvider(trace.NewNoopTracerProvider().Tracer("test"), []string{"https://example.com/rss"})
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(sampleRSS), nil
	})}

	headlines, err := p.FetchHeadlines(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}
	if len(headlines) != 2 {
		t.Fatalf("got %d headlines, want 2 (empty title dropped)", len(headlines))
	}
	if headlines[0].Title != "Bitcoin ETF inflows hit record" {
		t.Errorf("first headline = %q", headlines[0].Title)
	}
	if headlines[0].Source != "Example Feed" {
		t.Errorf("source = %q, want Example Feed", headlines[0].Source)
	}
	if headlines[0].PublishedAt.IsZero() {
		t.Error("pubDate should parse")
	}
	if headlines[1].PublishedAt.IsZero() {
		t.Error("missing pubDate should default to now")
	}
}

func TestNewsProviderAllFeedsFail(t *testing.T) {
	p := NewNewsProvider(trace.NewNoopTracerProvider().Tracer("test"), nil)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusBadGateway, Body: http.NoBody}, nil
	})}

	if _, err := p.FetchHeadlines(context.Background(), 10); err == nil {
		t.Fatal("expected error when every feed fails")
	}
}
