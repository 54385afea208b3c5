package provider

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/domain"
	"github.com/yuqiaowu/news-analyse/internal/ta"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const okxBaseURL = "https://www.okx.com"

// MarketData is the per-asset reading the snapshot builder consumes.
type MarketData struct {
	Price        float64
	Change24h    float64
	RSI4H        float64
	FundingRate  float64
	OpenInterest float64
}

// OKXProvider fetches spot and swap market data from the OKX public API.
type OKXProvider struct {
	rest    *resty.Client
	baseURL string
	tracer  trace.Tracer
	limiter *rate.Limiter
}

func NewOKXProvider(tracer trace.Tracer) *OKXProvider {
	rest := resty.New().
		SetTransport(&http.Transport{Proxy: http.ProxyFromEnvironment}).
		SetRetryCount(3).
		SetTimeout(30 * time.Second)
	return &OKXProvider{
		rest:    rest,
		baseURL: okxBaseURL,
		tracer:  tracer,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

type okxEnvelope struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

func (e okxEnvelope) envelope() okxEnvelope { return e }

// FetchMarketData gathers ticker, 4H RSI, funding rate and open interest for
// one symbol. Each sub-fetch fails soft: a missing reading keeps its neutral
// default (RSI 50, everything else zero) instead of sinking the symbol.
func (p *OKXProvider) FetchMarketData(ctx context.Context, symbol string) (*MarketData, error) {
	_, span := p.tracer.Start(ctx, "okx.fetch-market-data")
	defer span.End()

	instID, ok := domain.OKXInstID[symbol]
	if !ok {
		return nil, fmt.Errorf("unsupported symbol: %s", symbol)
	}
	swapInstID := instID + "-SWAP"

	data := &MarketData{RSI4H: 50}

	if price, change, err := p.fetchTicker(ctx, instID); err != nil {
		log.Printf("okx ticker failed for %s: %v", symbol, err)
	} else {
		data.Price = price
		data.Change24h = change
	}

	if closes, err := p.fetchCloses4H(ctx, instID, 100); err != nil {
		log.Printf("okx candles failed for %s: %v", symbol, err)
	} else {
		data.RSI4H = ta.LatestRSI(closes, 14)
	}

	if funding, err := p.fetchFundingRate(ctx, swapInstID); err != nil {
		log.Printf("okx funding failed for %s: %v", symbol, err)
	} else {
		data.FundingRate = funding
	}

	if oi, err := p.fetchOpenInterest(ctx, swapInstID); err != nil {
		log.Printf("okx open interest failed for %s: %v", symbol, err)
	} else {
		data.OpenInterest = oi
	}

	return data, nil
}

func (p *OKXProvider) fetchTicker(ctx context.Context, instID string) (price, change float64, err error) {
	var out struct {
		okxEnvelope
		Data []struct {
			Last    string `json:"last"`
			Open24h string `json:"open24h"`
		} `json:"data"`
	}
	if err := p.get(ctx, "/api/v5/market/ticker", map[string]string{"instId": instID}, &out); err != nil {
		return 0, 0, err
	}
	if len(out.Data) == 0 {
		return 0, 0, fmt.Errorf("ticker response has no rows")
	}
	last, err := strconv.ParseFloat(out.Data[0].Last, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse last price: %w", err)
	}
	open24h, err := strconv.ParseFloat(out.Data[0].Open24h, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse open24h: %w", err)
	}
	if open24h != 0 {
		change = (last - open24h) / open24h * 100
	}
	return last, change, nil
}

// fetchCloses4H returns 4H close prices, oldest first. OKX serves candles
// newest first as arrays of strings.
func (p *OKXProvider) fetchCloses4H(ctx context.Context, instID string, limit int) ([]float64, error) {
	var out struct {
		okxEnvelope
		Data [][]string `json:"data"`
	}
	params := map[string]string{
		"instId": instID,
		"bar":    "4H",
		"limit":  strconv.Itoa(limit),
	}
	if err := p.get(ctx, "/api/v5/market/candles", params, &out); err != nil {
		return nil, err
	}
	closes := make([]float64, 0, len(out.Data))
	for i := len(out.Data) - 1; i >= 0; i-- {
		row := out.Data[i]
		if len(row) < 5 {
			continue
		}
		c, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			continue
		}
		closes = append(closes, c)
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("candles response has no rows")
	}
	return closes, nil
}

// fetchFundingRate returns the current funding rate as a percentage.
func (p *OKXProvider) fetchFundingRate(ctx context.Context, swapInstID string) (float64, error) {
	var out struct {
		okxEnvelope
		Data []struct {
			FundingRate string `json:"fundingRate"`
		} `json:"data"`
	}
	if err := p.get(ctx, "/api/v5/public/funding-rate", map[string]string{"instId": swapInstID}, &out); err != nil {
		return 0, err
	}
	if len(out.Data) == 0 {
		return 0, fmt.Errorf("funding response has no rows")
	}
	raw, err := strconv.ParseFloat(out.Data[0].FundingRate, 64)
	if err != nil {
		return 0, fmt.Errorf("parse funding rate: %w", err)
	}
	return raw * 100, nil
}

func (p *OKXProvider) fetchOpenInterest(ctx context.Context, swapInstID string) (float64, error) {
	var out struct {
		okxEnvelope
		Data []struct {
			OI string `json:"oi"`
		} `json:"data"`
	}
	if err := p.get(ctx, "/api/v5/public/open-interest", map[string]string{"instId": swapInstID}, &out); err != nil {
		return 0, err
	}
	if len(out.Data) == 0 {
		return 0, fmt.Errorf("open interest response has no rows")
	}
	oi, err := strconv.ParseFloat(out.Data[0].OI, 64)
	if err != nil {
		return 0, fmt.Errorf("parse open interest: %w", err)
	}
	return oi, nil
}

func (p *OKXProvider) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := p.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		Get(p.baseURL + path)
	if err != nil {
		return fmt.Errorf("okx request %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("okx API error %d: %s", resp.StatusCode(), resp.String())
	}
	if env, ok := out.(interface{ envelope() okxEnvelope }); ok {
		if code := env.envelope().Code; code != "" && code != "0" {
			return fmt.Errorf("okx API code %s: %s", code, env.envelope().Msg)
		}
	}
	return nil
}
