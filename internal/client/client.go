// Package client fetches the published analysis snapshot over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// SnapshotClient downloads and decodes one Snapshot document.
type SnapshotClient struct {
	client *http.Client
	url    string
	tracer trace.Tracer
	now    func() time.Time
}

func NewSnapshotClient(rawURL string, tracer trace.Tracer) *SnapshotClient {
	return &SnapshotClient{
		client: &http.Client{Timeout: 15 * time.Second},
		url:    rawURL,
		tracer: tracer,
		now:    time.Now,
	}
}

// Fetch downloads the snapshot. A forced fetch appends a cache-busting
// timestamp param and asks the API path for a fresh analysis; a passive
// fetch omits both so an intermediate cache may serve it.
func (c *SnapshotClient) Fetch(ctx context.Context, force bool) (*domain.Snapshot, error) {
	_, span := c.tracer.Start(ctx, "snapshot-client.fetch")
	defer span.End()

	target, err := c.buildURL(force)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("snapshot endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var snap domain.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

func (c *SnapshotClient) buildURL(force bool) (string, error) {
	parsed, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("parse snapshot url: %w", err)
	}
	if force {
		q := parsed.Query()
		q.Set("force_refresh", "true")
		q.Set("t", fmt.Sprintf("%d", c.now().Unix()))
		parsed.RawQuery = q.Encode()
	}
	return parsed.String(), nil
}
