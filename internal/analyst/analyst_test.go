package analyst

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yuqiaowu/news-analyse/internal/domain"
	"github.com/yuqiaowu/news-analyse/internal/provider"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

type stubLLMClient struct {
	response *openai.ChatCompletion
	err      error
	calls    int
}

func (s *stubLLMClient) CreateChatCompletion(
	_ context.Context,
	_ openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	s.calls++
	return s.response, s.err
}

func completionWith(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func testInput() Input {
	return Input{
		Coins: []CoinInput{
			{Symbol: "BTC", Data: provider.MarketData{Price: 97000, Change24h: 2.1, RSI4H: 61.2, FundingRate: 0.0123, OpenInterest: 123456}},
			{Symbol: "ETH", Data: provider.MarketData{Price: 3500, Change24h: -3.4, RSI4H: 38.0}},
		},
		Headlines: []provider.Headline{
			{Title: "Bitcoin ETF inflows hit record", Source: "Example Feed"},
			{Title: "Exchange hack triggers liquidations"},
		},
	}
}

func TestAnalyzeParsesLLMOutput(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("```json\n" + `{
		"global_summary_cn": "# 市场概览",
		"global_summary_en": "# Market Overview",
		"news_analysis": [
			{"classification": "priced-in", "news_sentiment": "bullish",
			 "title_cn": "ETF创纪录", "title_en": "ETF record",
			 "reason_cn": "已反映", "reason_en": "already reflected"}
		],
		"coins": {
			"BTC": {"sentiment": "positive", "score": 120, "comment_cn": "强势", "comment_en": "strong"}
		}
	}` + "\n```")}

	svc := NewAnalystService(trace.NewNoopTracerProvider().Tracer("test"), llm, "gpt-4o-mini")
	analysis, err := svc.Analyze(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if analysis.GlobalSummaryEN != "# Market Overview" {
		t.Errorf("GlobalSummaryEN = %q", analysis.GlobalSummaryEN)
	}
	if len(analysis.News) != 1 {
		t.Fatalf("got %d news items, want 1", len(analysis.News))
	}
	if analysis.News[0].Classification != domain.ClassPricedIn {
		t.Errorf("classification = %q, want normalized PRICED IN", analysis.News[0].Classification)
	}

	btc := analysis.Coins["BTC"]
	if btc.Score != 100 {
		t.Errorf("BTC score = %v, want clamped to 100", btc.Score)
	}
	if btc.Sentiment != "Bullish" {
		t.Errorf("BTC sentiment = %q, want normalized Bullish", btc.Sentiment)
	}
	// The model skipped ETH; a heuristic review must backfill it.
	eth, ok := analysis.Coins["ETH"]
	if !ok {
		t.Fatal("ETH review missing")
	}
	if eth.Sentiment != "Bearish" {
		t.Errorf("ETH sentiment = %q, want heuristic Bearish for weak RSI and drop", eth.Sentiment)
	}
}

func TestBuildContext(t *testing.T) {
	prompt := BuildContext(testInput())
	for _, want := range []string{"BTC", "rsi_4h=61.2", "[Example Feed] Bitcoin ETF inflows hit record"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAnalyzeFallsBackToHeuristic(t *testing.T) {
	llm := &stubLLMClient{err: errors.New("api down")}
	svc := NewAnalystService(trace.NewNoopTracerProvider().Tracer("test"), llm, "gpt-4o-mini")

	analysis, err := svc.Analyze(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Analyze should fail soft, got: %v", err)
	}
	if analysis.GlobalSummaryEN == "" || analysis.GlobalSummaryCN == "" {
		t.Error("heuristic analysis must carry both summaries")
	}
	if len(analysis.News) != 2 {
		t.Fatalf("got %d news items, want one per headline", len(analysis.News))
	}
	if analysis.News[0].Sentiment() != "Bullish" {
		t.Errorf("record-inflow headline sentiment = %q, want Bullish", analysis.News[0].Sentiment())
	}
	if analysis.News[1].Sentiment() != "Bearish" {
		t.Errorf("hack headline sentiment = %q, want Bearish", analysis.News[1].Sentiment())
	}
	if len(analysis.Coins) != 2 {
		t.Fatalf("got %d coin reviews, want 2", len(analysis.Coins))
	}
	if analysis.Coins["BTC"].Score <= analysis.Coins["ETH"].Score {
		t.Error("stronger market reading should score higher")
	}
}

func TestAnalyzeNilLLMUsesHeuristic(t *testing.T) {
	svc := NewAnalystService(trace.NewNoopTracerProvider().Tracer("test"), nil, "")
	analysis, err := svc.Analyze(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(analysis.Coins) != 2 {
		t.Errorf("got %d coin reviews, want 2", len(analysis.Coins))
	}
}
