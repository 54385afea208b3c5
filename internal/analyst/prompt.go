package analyst

import (
	"fmt"
	"strings"

	"github.com/yuqiaowu/news-analyse/internal/domain"
)

const systemPrompt = `You are a crypto market analyst writing for a bilingual (Chinese/English) dashboard.

Work in two layers:
1. Classify each headline against the market data: IMPULSE (fresh catalyst not yet in price), PRICED IN (already reflected), DISTRIBUTION (strength being sold into), DIVERGENCE (narrative and price disagree), or NEUTRAL.
2. Synthesize a global markdown summary and a per-coin verdict from the classified news plus the macro and market context.

Return ONLY a JSON object, no markdown fences, with this exact shape:
{
  "global_summary_cn": "markdown, Chinese",
  "global_summary_en": "markdown, English",
  "news_analysis": [
    {"classification": "IMPULSE|PRICED IN|DISTRIBUTION|DIVERGENCE|NEUTRAL",
     "news_sentiment": "Bullish|Neutral|Bearish",
     "title_cn": "...", "title_en": "...",
     "reason_cn": "...", "reason_en": "..."}
  ],
  "coins": {
    "SYMBOL": {"sentiment": "Bullish|Neutral|Bearish", "score": 0-100,
               "comment_cn": "...", "comment_en": "..."}
  }
}`

// BuildContext renders the gathered market state as the user prompt.
func BuildContext(input Input) string {
	var sb strings.Builder

	sb.WriteString("## Market data\n")
	for _, coin := range input.Coins {
		sb.WriteString(fmt.Sprintf(
			"%s: price=%.4f change_24h=%+.2f%% rsi_4h=%.1f funding=%.4f%% open_interest=%.1f\n",
			coin.Symbol, coin.Data.Price, coin.Data.Change24h, coin.Data.RSI4H,
			coin.Data.FundingRate, coin.Data.OpenInterest,
		))
	}

	sb.WriteString("\n## Macro\n")
	if fed := input.Fed; fed != nil && !fed.Error {
		if fed.ImpliedRate != nil && fed.Change5DBps != nil {
			sb.WriteString(fmt.Sprintf("Fed funds futures: implied=%.2f%% change_5d=%+.1fbps trend=%s zone=%s\n",
				*fed.ImpliedRate, *fed.Change5DBps, fed.Trend, fed.Zone))
		}
	}
	if jp := input.Japan; jp != nil && !jp.Error && jp.Price != nil {
		sb.WriteString(fmt.Sprintf("USD/JPY: %.2f trend=%s zone=%s\n", *jp.Price, jp.Trend, jp.Zone))
	}
	if liq := input.Liquidity; liq != nil && !liq.Error {
		writeLiquidityLine(&sb, "DXY", liq.DXY)
		writeLiquidityLine(&sb, "US10Y", liq.US10Y)
		writeLiquidityLine(&sb, "VIX", liq.VIX)
	}

	sb.WriteString("\n## Headlines\n")
	for _, h := range input.Headlines {
		if h.Source != "" {
			sb.WriteString(fmt.Sprintf("- [%s] %s\n", h.Source, h.Title))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", h.Title))
		}
	}
	return sb.String()
}

func writeLiquidityLine(sb *strings.Builder, name string, point *domain.LiquidityPoint) {
	if point == nil || point.Price == nil {
		return
	}
	sb.WriteString(fmt.Sprintf("%s: %.2f trend=%s\n", name, *point.Price, point.Trend))
}
