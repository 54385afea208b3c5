package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func candlesBody(n int) string {
	var rows []string
	// Newest first, closes rising toward the present.
	for i := 0; i < n; i++ {
		close := 100 + float64(n-i)
		rows = append(rows, fmt.Sprintf(`["%d","0","0","0","%.1f","0"]`, 1700000000+i, close))
	}
	return `{"code":"0","msg":"","data":[` + strings.Join(rows, ",") + `]}`
}

func TestOKXProviderFetchMarketData(t *testing.T) {
	p := NewOKXProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.rest.SetTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		switch {
		case strings.Contains(req.URL.Path, "market/ticker"):
			if got := req.URL.Query().Get("instId"); got != "BTC-USDT" {
				t.Errorf("ticker instId = %q, want BTC-USDT", got)
			}
			return jsonResponse(`{"code":"0","msg":"","data":[{"last":"102000","open24h":"100000"}]}`), nil
		case strings.Contains(req.URL.Path, "market/candles"):
			return jsonResponse(candlesBody(30)), nil
		case strings.Contains(req.URL.Path, "funding-rate"):
			if got := req.URL.Query().Get("instId"); got != "BTC-USDT-SWAP" {
				t.Errorf("funding instId = %q, want BTC-USDT-SWAP", got)
			}
			return jsonResponse(`{"code":"0","msg":"","data":[{"fundingRate":"0.000125"}]}`), nil
		case strings.Contains(req.URL.Path, "open-interest"):
			return jsonResponse(`{"code":"0","msg":"","data":[{"oi":"123456.7"}]}`), nil
		}
		t.Fatalf("unexpected path %s", req.URL.Path)
		return nil, nil
	}))

	data, err := p.FetchMarketData(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("FetchMarketData: %v", err)
	}
	if data.Price != 102000 {
		t.Errorf("Price = %v, want 102000", data.Price)
	}
	if data.Change24h != 2 {
		t.Errorf("Change24h = %v, want 2", data.Change24h)
	}
	if data.RSI4H <= 50 || data.RSI4H > 100 {
		t.Errorf("RSI4H = %v, want >50 for a rising series", data.RSI4H)
	}
	if math.Abs(data.FundingRate-0.0125) > 1e-9 {
		t.Errorf("FundingRate = %v, want 0.0125", data.FundingRate)
	}
	if data.OpenInterest != 123456.7 {
		t.Errorf("OpenInterest = %v, want 123456.7", data.OpenInterest)
	}
}

func TestOKXProviderFailsSoftPerReading(t *testing.T) {
	p := NewOKXProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.rest.SetTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Path, "market/ticker") {
			return jsonResponse(`{"code":"0","msg":"","data":[{"last":"3500","open24h":"3500"}]}`), nil
		}
		// Every non-ticker endpoint rejects the request.
		return jsonResponse(`{"code":"51001","msg":"Instrument ID does not exist","data":[]}`), nil
	}))

	data, err := p.FetchMarketData(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("FetchMarketData: %v", err)
	}
	if data.Price != 3500 {
		t.Errorf("Price = %v, want 3500", data.Price)
	}
	if data.RSI4H != 50 {
		t.Errorf("RSI4H = %v, want neutral 50 when candles fail", data.RSI4H)
	}
	if data.FundingRate != 0 || data.OpenInterest != 0 {
		t.Errorf("funding/OI = %v/%v, want zero defaults", data.FundingRate, data.OpenInterest)
	}
}

func TestOKXProviderRejectsUnknownSymbol(t *testing.T) {
	p := NewOKXProvider(trace.NewNoopTracerProvider().Tracer("test"))
	if _, err := p.FetchMarketData(context.Background(), "SHIB"); err == nil {
		t.Fatal("expected error for unsupported symbol")
	}
}
