package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/yuqiaowu/news-analyse/internal/domain"
	"github.com/yuqiaowu/news-analyse/internal/provider"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// CoinReview is the analyst's verdict on one asset.
type CoinReview struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	CommentCN string  `json:"comment_cn"`
	CommentEN string  `json:"comment_en"`
}

// Analysis is the bilingual output of one analysis pass.
type Analysis struct {
	GlobalSummaryCN string                `json:"global_summary_cn"`
	GlobalSummaryEN string                `json:"global_summary_en"`
	News            []domain.NewsItem     `json:"news_analysis"`
	Coins           map[string]CoinReview `json:"coins"`
}

// CoinInput is the market reading for one asset, in input order.
type CoinInput struct {
	Symbol string
	Data   provider.MarketData
}

// Input is everything the analyst sees for one pass.
type Input struct {
	Coins     []CoinInput
	Fed       *domain.FedFutures
	Japan     *domain.JapanMacro
	Liquidity *domain.LiquidityMonitor
	Headlines []provider.Headline
}

type AnalystService struct {
	tracer trace.Tracer
	llm    LLMClient
	model  string
}

func NewAnalystService(tracer trace.Tracer, llm LLMClient, model string) *AnalystService {
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	return &AnalystService{tracer: tracer, llm: llm, model: model}
}

// Analyze runs one bilingual analysis pass over the gathered market context.
// When the LLM is unconfigured or fails, a keyword heuristic produces a
// degraded but complete analysis so the snapshot never goes out empty.
func (s *AnalystService) Analyze(ctx context.Context, input Input) (*Analysis, error) {
	ctx, span := s.tracer.Start(ctx, "analyst.analyze")
	defer span.End()
	span.SetAttributes(
		attribute.Int("coins", len(input.Coins)),
		attribute.Int("headlines", len(input.Headlines)),
	)

	if s.llm != nil {
		analysis, err := s.analyzeLLM(ctx, input)
		if err == nil {
			return analysis, nil
		}
		span.RecordError(err)
		log.Printf("llm analysis failed, falling back to heuristic: %v", err)
	}
	return s.analyzeHeuristic(input), nil
}

func (s *AnalystService) analyzeLLM(ctx context.Context, input Input) (*Analysis, error) {
	ctx, span := s.tracer.Start(ctx, "analyst.llm-call")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", s.model))

	completion, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(BuildContext(input)),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty analyst completion")
	}

	raw := trimCodeFence(completion.Choices[0].Message.Content)

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("parse analyst json: %w", err)
	}
	normalize(&analysis, input)
	return &analysis, nil
}

// normalize clamps scores, fixes classification codes, and backfills a
// review for any coin the model skipped.
func normalize(a *Analysis, input Input) {
	for i := range a.News {
		a.News[i].Classification = domain.NormalizeClassification(a.News[i].Classification)
	}
	if a.Coins == nil {
		a.Coins = make(map[string]CoinReview, len(input.Coins))
	}
	for _, coin := range input.Coins {
		review, ok := a.Coins[coin.Symbol]
		if !ok {
			review = heuristicReview(coin.Data)
		}
		review.Score = clamp(review.Score, 0, 100)
		review.Sentiment = normalizeSentiment(review.Sentiment)
		a.Coins[coin.Symbol] = review
	}
}

func (s *AnalystService) analyzeHeuristic(input Input) *Analysis {
	analysis := &Analysis{
		GlobalSummaryCN: "自动分析暂不可用,以下为基于指标的简要概览。",
		GlobalSummaryEN: "Automated analysis is unavailable; below is a brief indicator-based overview.",
		Coins:           make(map[string]CoinReview, len(input.Coins)),
	}

	for _, h := range input.Headlines {
		sentiment := headlineSentiment(h.Title)
		analysis.News = append(analysis.News, domain.NewsItem{
			Classification: domain.ClassNeutral,
			NewsSentiment:  sentiment,
			RawTitle:       h.Title,
			RawReason:      "keyword heuristic",
		})
	}

	for _, coin := range input.Coins {
		analysis.Coins[coin.Symbol] = heuristicReview(coin.Data)
	}
	return analysis
}

// heuristicReview scores a coin from RSI and 24h change alone.
func heuristicReview(data provider.MarketData) CoinReview {
	score := 50.0
	score += (data.RSI4H - 50) * 0.6
	score += data.Change24h * 2
	score = clamp(score, 0, 100)

	sentiment := "Neutral"
	if score >= 60 {
		sentiment = "Bullish"
	} else if score <= 40 {
		sentiment = "Bearish"
	}
	return CoinReview{
		Sentiment: sentiment,
		Score:     score,
		CommentCN: fmt.Sprintf("4小时RSI %.1f,24小时涨跌 %+.2f%%。", data.RSI4H, data.Change24h),
		CommentEN: fmt.Sprintf("4H RSI %.1f with a %+.2f%% 24h move.", data.RSI4H, data.Change24h),
	}
}

func headlineSentiment(title string) string {
	text := strings.ToLower(title)
	bullish := []string{"surge", "rally", "record", "inflow", "approve", "adoption", "breakout"}
	bearish := []string{"crash", "hack", "lawsuit", "ban", "outage", "liquidation", "dump", "selloff"}
	for _, token := range bearish {
		if strings.Contains(text, token) {
			return "Bearish"
		}
	}
	for _, token := range bullish {
		if strings.Contains(text, token) {
			return "Bullish"
		}
	}
	return "Neutral"
}

func normalizeSentiment(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "bullish", "bull", "positive":
		return "Bullish"
	case "bearish", "bear", "negative":
		return "Bearish"
	default:
		return "Neutral"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func trimCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		v = strings.TrimSpace(v)
		if strings.HasPrefix(strings.ToLower(v), "json") {
			v = strings.TrimSpace(v[4:])
		}
		v = strings.TrimSuffix(v, "```")
		v = strings.TrimSpace(v)
	}
	return v
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
