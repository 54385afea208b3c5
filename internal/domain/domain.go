package domain

import (
	"strings"
	"time"
)

// Language selects which localized fields and labels a render pass uses.
type Language string

const (
	LangCN Language = "CN"
	LangEN Language = "EN"
)

func (l Language) IsValid() bool {
	return l == LangCN || l == LangEN
}

// Toggle flips between the two supported languages.
func (l Language) Toggle() Language {
	if l == LangCN {
		return LangEN
	}
	return LangCN
}

var SupportedSymbols = []string{"BTC", "ETH", "SOL", "BNB", "DOGE"}

// OKXInstID maps a bare symbol to its OKX spot instrument ID.
var OKXInstID = map[string]string{
	"BTC":  "BTC-USDT",
	"ETH":  "ETH-USDT",
	"SOL":  "SOL-USDT",
	"BNB":  "BNB-USDT",
	"DOGE": "DOGE-USDT",
}

// News classification codes emitted by the analyst.
const (
	ClassImpulse      = "IMPULSE"
	ClassPricedIn     = "PRICED IN"
	ClassDistribution = "DISTRIBUTION"
	ClassDivergence   = "DIVERGENCE"
	ClassNeutral      = "NEUTRAL"
)

// NormalizeClassification maps free-form classification text onto the fixed
// code set. Unknown or empty values fall back to NEUTRAL.
func NormalizeClassification(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case ClassImpulse:
		return ClassImpulse
	case ClassPricedIn, "PRICED-IN", "PRICED_IN":
		return ClassPricedIn
	case ClassDistribution:
		return ClassDistribution
	case ClassDivergence:
		return ClassDivergence
	default:
		return ClassNeutral
	}
}

// Snapshot is one fetched point-in-time market analysis. Macro sections are
// optional; a section carrying Error=true is suppressed by the renderer
// rather than failing the whole snapshot.
type Snapshot struct {
	Timestamp        string            `json:"timestamp"`
	GlobalSummary    string            `json:"global_summary,omitempty"`
	GlobalSummaryCN  string            `json:"global_summary_cn,omitempty"`
	GlobalSummaryEN  string            `json:"global_summary_en,omitempty"`
	FedFutures       *FedFutures       `json:"fed_futures,omitempty"`
	JapanMacro       *JapanMacro       `json:"japan_macro,omitempty"`
	LiquidityMonitor *LiquidityMonitor `json:"liquidity_monitor,omitempty"`
	NewsAnalysis     []NewsItem        `json:"news_analysis"`
	Coins            []CoinEntry       `json:"coins"`
}

// Summary returns the localized markdown summary, falling back to the
// language-agnostic legacy field when the localized one is absent.
func (s *Snapshot) Summary(lang Language) string {
	var localized string
	if lang == LangEN {
		localized = s.GlobalSummaryEN
	} else {
		localized = s.GlobalSummaryCN
	}
	if localized != "" {
		return localized
	}
	return s.GlobalSummary
}

// Time parses the snapshot timestamp. Timestamps without an explicit zone
// suffix are produced by a naive writer and are interpreted as UTC.
func (s *Snapshot) Time() (time.Time, error) {
	return ParseTimestamp(s.Timestamp)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts the ISO-ish formats the producer has historically
// written. Missing zone suffix implies UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			if ts.Location() == time.Local {
				ts = ts.UTC()
			}
			return ts.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FedFutures is the rate-futures macro section (fed funds futures implied rate).
type FedFutures struct {
	Error        bool     `json:"error,omitempty"`
	ImpliedRate  *float64 `json:"implied_rate,omitempty"`
	Change5DBps  *float64 `json:"change_5d_bps,omitempty"`
	Zone         string   `json:"zone,omitempty"`
	Trend        string   `json:"trend,omitempty"`
	NextMeeting  string   `json:"next_meeting,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// JapanMacro is the FX macro section (USD/JPY carry-trade context).
type JapanMacro struct {
	Error        bool     `json:"error,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Change5DPct  *float64 `json:"change_5d_pct,omitempty"`
	Zone         string   `json:"zone,omitempty"`
	Trend        string   `json:"trend,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// LiquidityMonitor carries the three inverse risk indicators.
type LiquidityMonitor struct {
	Error        bool            `json:"error,omitempty"`
	DXY          *LiquidityPoint `json:"dxy,omitempty"`
	US10Y        *LiquidityPoint `json:"us10y,omitempty"`
	VIX          *LiquidityPoint `json:"vix,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

type LiquidityPoint struct {
	Price       *float64 `json:"price"`
	Change5DPct *float64 `json:"change_5d_pct"`
	Trend       string   `json:"trend"`
}

// NewsItem is a classified news narrative with bilingual text. The bare
// title/reason fields are legacy fallbacks for pre-bilingual snapshots.
type NewsItem struct {
	Classification string `json:"classification,omitempty"`
	NewsSentiment  string `json:"news_sentiment,omitempty"`
	RawTitle       string `json:"title,omitempty"`
	TitleCN        string `json:"title_cn,omitempty"`
	TitleEN        string `json:"title_en,omitempty"`
	RawReason      string `json:"reason,omitempty"`
	ReasonCN       string `json:"reason_cn,omitempty"`
	ReasonEN       string `json:"reason_en,omitempty"`
}

func (n *NewsItem) Title(lang Language) string {
	return pickLocalized(lang, n.TitleCN, n.TitleEN, n.RawTitle)
}

func (n *NewsItem) Reason(lang Language) string {
	return pickLocalized(lang, n.ReasonCN, n.ReasonEN, n.RawReason)
}

// Sentiment returns the normalized news sentiment, defaulting to Neutral.
func (n *NewsItem) Sentiment() string {
	switch strings.ToLower(strings.TrimSpace(n.NewsSentiment)) {
	case "bullish", "bull", "positive":
		return "Bullish"
	case "bearish", "bear", "negative":
		return "Bearish"
	default:
		return "Neutral"
	}
}

// CoinEntry is one asset card in input order.
type CoinEntry struct {
	Symbol       string  `json:"symbol"`
	Price        float64 `json:"price"`
	Change24h    float64 `json:"change_24h"`
	RSI4H        float64 `json:"rsi_4h"`
	FundingRate  float64 `json:"funding_rate"`
	OpenInterest float64 `json:"open_interest"`
	Sentiment    string  `json:"sentiment"`
	Score        float64 `json:"score"`
	RawComment   string  `json:"comment,omitempty"`
	CommentCN    string  `json:"comment_cn,omitempty"`
	CommentEN    string  `json:"comment_en,omitempty"`
}

func (c *CoinEntry) Comment(lang Language) string {
	return pickLocalized(lang, c.CommentCN, c.CommentEN, c.RawComment)
}

func pickLocalized(lang Language, cn, en, fallback string) string {
	localized := cn
	if lang == LangEN {
		localized = en
	}
	if localized != "" {
		return localized
	}
	return fallback
}
