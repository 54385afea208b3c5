package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestFetchDecodesSnapshot(t *testing.T) {
	c := NewSnapshotClient("https://example.com/latest_analysis.json", trace.NewNoopTracerProvider().Tracer("test"))
	c.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.RawQuery != "" {
			t.Fatalf("passive fetch must not carry query params, got %q", req.URL.RawQuery)
		}
		body := `{"timestamp":"2026-02-01T08:00:00","coins":[{"symbol":"BTC","price":97000,"score":72}],"news_analysis":[]}`
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
			Header:     make(http.Header),
		}, nil
	})}

	snap, err := c.Fetch(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Coins) != 1 || snap.Coins[0].Symbol != "BTC" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestFetchForcedAddsCacheBuster(t *testing.T) {
	c := NewSnapshotClient("https://example.com/api/analyze_all", trace.NewNoopTracerProvider().Tracer("test"))
	c.now = func() time.Time { return time.Unix(1770000000, 0) }
	c.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		if q.Get("force_refresh") != "true" {
			t.Fatalf("expected force_refresh param, got %q", req.URL.RawQuery)
		}
		if q.Get("t") != "1770000000" {
			t.Fatalf("expected cache buster t=1770000000, got %q", q.Get("t"))
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"timestamp":"2026-02-01T08:00:00"}`)),
			Header:     make(http.Header),
		}, nil
	})}

	if _, err := c.Fetch(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	c := NewSnapshotClient("https://example.com/latest_analysis.json", trace.NewNoopTracerProvider().Tracer("test"))
	c.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(bytes.NewBufferString("upstream down")),
			Header:     make(http.Header),
		}, nil
	})}

	if _, err := c.Fetch(context.Background(), false); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestFetchBadJSON(t *testing.T) {
	c := NewSnapshotClient("https://example.com/latest_analysis.json", trace.NewNoopTracerProvider().Tracer("test"))
	c.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString("<html>not json</html>")),
			Header:     make(http.Header),
		}, nil
	})}

	if _, err := c.Fetch(context.Background(), false); err == nil {
		t.Fatal("expected decode error")
	}
}
