package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/domain"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// MacroProvider fetches the macro context quotes: fed funds futures (ZQ=F),
// USD/JPY, and the liquidity trio DXY / US10Y / VIX. Trend tokens are
// derived here so the snapshot carries the vocabulary the dashboard's
// classifier matches on.
type MacroProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *rate.Limiter
}

func NewMacroProvider(tracer trace.Tracer) *MacroProvider {
	return &MacroProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: yahooBaseURL,
		tracer:  tracer,
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// quote is a 5-day window for one ticker: latest price plus the change over
// the window.
type quote struct {
	Price     float64
	ChangePct float64
}

// FetchFedFutures derives the implied fed funds rate (100 minus the ZQ=F
// futures price) and a hawkish/dovish trend from its 5-day drift in bps.
func (p *MacroProvider) FetchFedFutures(ctx context.Context) (*domain.FedFutures, error) {
	_, span := p.tracer.Start(ctx, "macro.fetch-fed-futures")
	defer span.End()

	q, err := p.fetchQuote(ctx, "ZQ=F")
	if err != nil {
		return nil, fmt.Errorf("fetch fed futures: %w", err)
	}

	implied := 100 - q.Price
	// ChangePct is on the futures price; a falling price is a rising
	// implied rate. 0.01 futures points = 1 bp.
	bps := -(q.ChangePct / 100 * q.Price) * 100

	trend := "Neutral"
	switch {
	case bps >= 5:
		trend = "Hawkish Rising"
	case bps <= -5:
		trend = "Dovish Falling"
	}

	zone := "Neutral"
	switch {
	case implied >= 4.5:
		zone = "Restrictive"
	case implied <= 3.5:
		zone = "Easing"
	}

	return &domain.FedFutures{
		ImpliedRate: &implied,
		Change5DBps: &bps,
		Zone:        zone,
		Trend:       trend,
	}, nil
}

// FetchJapanMacro reads USD/JPY. A falling pair is a strengthening yen,
// which threatens carry trades.
func (p *MacroProvider) FetchJapanMacro(ctx context.Context) (*domain.JapanMacro, error) {
	_, span := p.tracer.Start(ctx, "macro.fetch-japan")
	defer span.End()

	q, err := p.fetchQuote(ctx, "USDJPY=X")
	if err != nil {
		return nil, fmt.Errorf("fetch usd/jpy: %w", err)
	}

	trend := "Neutral"
	switch {
	case q.ChangePct <= -0.5:
		trend = "Stronger Yen"
	case q.ChangePct >= 0.5:
		trend = "Weaker Yen"
	}

	zone := "Normal"
	switch {
	case q.Price >= 155:
		zone = "Intervention Watch"
	case q.Price <= 140:
		zone = "Carry Unwind"
	}

	price := q.Price
	change := q.ChangePct
	return &domain.JapanMacro{
		Price:       &price,
		Change5DPct: &change,
		Zone:        zone,
		Trend:       trend,
	}, nil
}

// FetchLiquidityMonitor reads DXY, US10Y and VIX. Level checks run before
// direction checks so extreme readings keep their grade even while drifting.
func (p *MacroProvider) FetchLiquidityMonitor(ctx context.Context) (*domain.LiquidityMonitor, error) {
	_, span := p.tracer.Start(ctx, "macro.fetch-liquidity")
	defer span.End()

	monitor := &domain.LiquidityMonitor{}
	var firstErr error

	if q, err := p.fetchQuote(ctx, "DX-Y.NYB"); err != nil {
		firstErr = err
	} else {
		monitor.DXY = liquidityPoint(q, dxyTrend(q))
	}

	if q, err := p.fetchQuote(ctx, "^TNX"); err != nil && firstErr == nil {
		firstErr = err
	} else if err == nil {
		// ^TNX quotes the 10Y yield scaled by 10.
		q.Price = q.Price / 10
		monitor.US10Y = liquidityPoint(q, us10yTrend(q))
	}

	if q, err := p.fetchQuote(ctx, "^VIX"); err != nil && firstErr == nil {
		firstErr = err
	} else if err == nil {
		monitor.VIX = liquidityPoint(q, vixTrend(q))
	}

	if monitor.DXY == nil && monitor.US10Y == nil && monitor.VIX == nil {
		return nil, fmt.Errorf("fetch liquidity monitor: %w", firstErr)
	}
	return monitor, nil
}

func liquidityPoint(q quote, trend string) *domain.LiquidityPoint {
	price := q.Price
	change := q.ChangePct
	return &domain.LiquidityPoint{Price: &price, Change5DPct: &change, Trend: trend}
}

func dxyTrend(q quote) string {
	switch {
	case q.Price >= 107:
		return "Critical High"
	case q.ChangePct >= 0.5:
		return "Rising"
	case q.ChangePct <= -0.5:
		return "Falling"
	case q.Price >= 105:
		return "High"
	case q.Price <= 100:
		return "Low"
	default:
		return "Neutral"
	}
}

func us10yTrend(q quote) string {
	switch {
	case q.Price >= 4.8:
		return "Critical High"
	case q.ChangePct >= 1:
		return "Rising"
	case q.ChangePct <= -1:
		return "Falling"
	case q.Price >= 4.5:
		return "High"
	case q.Price <= 3.5:
		return "Low"
	default:
		return "Neutral"
	}
}

func vixTrend(q quote) string {
	switch {
	case q.Price >= 40:
		return "Panic"
	case q.Price >= 30:
		return "Critical High"
	case q.Price >= 25:
		return "High"
	case q.ChangePct <= -5:
		return "Subsiding"
	case q.ChangePct >= 5:
		return "Rising"
	case q.Price <= 15:
		return "Low"
	default:
		return "Neutral"
	}
}

// fetchQuote reads the 5-day daily chart for one ticker and reduces it to
// latest price + 5-day change.
func (p *MacroProvider) fetchQuote(ctx context.Context, symbol string) (quote, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return quote{}, err
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=5d&interval=1d", p.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return quote{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; news-analyse/1.0)")

	resp, err := p.client.Do(req)
	if err != nil {
		return quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return quote{}, fmt.Errorf("quote API error %d for %s: %s", resp.StatusCode, symbol, string(body))
	}

	var payload struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
				} `json:"meta"`
				Indicators struct {
					Quote []struct {
						Close []*float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error *struct {
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return quote{}, fmt.Errorf("decode quote for %s: %w", symbol, err)
	}
	if payload.Chart.Error != nil {
		return quote{}, fmt.Errorf("quote API rejected %s: %s", symbol, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return quote{}, fmt.Errorf("quote response has no rows for %s", symbol)
	}

	result := payload.Chart.Result[0]
	q := quote{Price: result.Meta.RegularMarketPrice}

	var closes []float64
	if len(result.Indicators.Quote) > 0 {
		for _, c := range result.Indicators.Quote[0].Close {
			if c != nil {
				closes = append(closes, *c)
			}
		}
	}
	if len(closes) >= 2 && closes[0] != 0 {
		latest := q.Price
		if latest == 0 {
			latest = closes[len(closes)-1]
			q.Price = latest
		}
		q.ChangePct = (latest - closes[0]) / closes[0] * 100
	}
	return q, nil
}
