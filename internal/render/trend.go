package render

import (
	"strings"

	"github.com/yuqiaowu/news-analyse/internal/domain"
)

// Impact is the derived directionality of an indicator trend for risk assets.
type Impact string

const (
	ImpactBullish Impact = "BULLISH"
	ImpactBearish Impact = "BEARISH"
	ImpactNone    Impact = ""
)

// Color is the fixed three-way style palette, independent of language.
type Color string

const (
	ColorRed     Color = "red"
	ColorGreen   Color = "green"
	ColorNeutral Color = "neutral"
)

// Metric identifies which rule family interprets a trend token.
type Metric string

const (
	MetricFed   Metric = "fed"
	MetricYen   Metric = "yen"
	MetricDXY   Metric = "dxy"
	MetricUS10Y Metric = "us10y"
	MetricVIX   Metric = "vix"
)

// TrendView is the classifier output: localized phrase, impact, color.
type TrendView struct {
	Text   string
	Impact Impact
	Color  Color
}

// trendRule is one (substring, result) pair. Rules are evaluated in slice
// order, first match wins; reordering changes behavior ("Critical High" must
// run before plain "High").
type trendRule struct {
	substr string
	cn     string
	en     string
	impact Impact
}

var fedRules = []trendRule{
	{"hawkish", "鹰派 · 利空", "Hawkish · Bearish", ImpactBearish},
	{"dovish", "鸽派 · 利好", "Dovish · Bullish", ImpactBullish},
	{"rising", "加息预期升温 · 利空", "Hike odds rising · Bearish", ImpactBearish},
	{"falling", "降息预期升温 · 利好", "Cut odds rising · Bullish", ImpactBullish},
	{"neutral", "中性", "Neutral", ImpactNone},
}

var yenRules = []trendRule{
	{"stronger", "日元走强 · 套息平仓风险", "Yen stronger · Carry unwind risk", ImpactBearish},
	{"weaker", "日元走弱 · 利好风险资产", "Yen weaker · Risk-on", ImpactBullish},
	{"neutral", "中性", "Neutral", ImpactNone},
}

// Liquidity metrics share the inverse rule: rising/stronger/high/panic is
// bearish for risk assets, falling/weaker/low/subsiding is bullish. Wording
// differs per metric.
var dxyRules = []trendRule{
	{"critical high", "美元极端走强 · 强利空", "Dollar critically high · Strongly bearish", ImpactBearish},
	{"rising", "美元走强 · 利空", "Dollar rising · Bearish", ImpactBearish},
	{"stronger", "美元走强 · 利空", "Dollar stronger · Bearish", ImpactBearish},
	{"high", "美元高位 · 利空", "Dollar high · Bearish", ImpactBearish},
	{"falling", "美元走弱 · 利好", "Dollar falling · Bullish", ImpactBullish},
	{"weaker", "美元走弱 · 利好", "Dollar weaker · Bullish", ImpactBullish},
	{"low", "美元低位 · 利好", "Dollar low · Bullish", ImpactBullish},
	{"neutral", "中性", "Neutral", ImpactNone},
}

var us10yRules = []trendRule{
	{"critical high", "收益率极端高位 · 强利空", "Yield critically high · Strongly bearish", ImpactBearish},
	{"rising", "收益率上行 · 流动性收紧", "Yield rising · Liquidity tightening", ImpactBearish},
	{"stronger", "收益率上行 · 流动性收紧", "Yield stronger · Liquidity tightening", ImpactBearish},
	{"high", "收益率高位 · 利空", "Yield high · Bearish", ImpactBearish},
	{"falling", "收益率下行 · 流动性宽松", "Yield falling · Liquidity easing", ImpactBullish},
	{"weaker", "收益率下行 · 流动性宽松", "Yield weaker · Liquidity easing", ImpactBullish},
	{"low", "收益率低位 · 利好", "Yield low · Bullish", ImpactBullish},
	{"neutral", "中性", "Neutral", ImpactNone},
}

var vixRules = []trendRule{
	{"critical high", "恐慌极端高位 · 强利空", "Fear critically high · Strongly bearish", ImpactBearish},
	{"panic", "市场恐慌 · 利空", "Panic · Bearish", ImpactBearish},
	{"rising", "波动率上升 · 利空", "Volatility rising · Bearish", ImpactBearish},
	{"high", "波动率高位 · 利空", "Volatility high · Bearish", ImpactBearish},
	{"subsiding", "恐慌消退 · 利好", "Fear subsiding · Bullish", ImpactBullish},
	{"falling", "波动率回落 · 利好", "Volatility falling · Bullish", ImpactBullish},
	{"low", "波动率低位 · 利好", "Volatility low · Bullish", ImpactBullish},
	{"neutral", "中性", "Neutral", ImpactNone},
}

var rulesByMetric = map[Metric][]trendRule{
	MetricFed:   fedRules,
	MetricYen:   yenRules,
	MetricDXY:   dxyRules,
	MetricUS10Y: us10yRules,
	MetricVIX:   vixRules,
}

// ClassifyTrend maps a raw trend token to its localized phrase, impact, and
// color. Matching is case-insensitive substring, first match wins. Missing
// trend yields the localized Neutral; an unrecognized token passes through
// as literal text with neutral styling.
func ClassifyTrend(metric Metric, trend string, lang domain.Language) TrendView {
	trimmed := strings.TrimSpace(trend)
	if trimmed == "" {
		return TrendView{Text: neutralText(lang), Impact: ImpactNone, Color: ColorNeutral}
	}

	lowered := strings.ToLower(trimmed)
	for _, rule := range rulesByMetric[metric] {
		if strings.Contains(lowered, rule.substr) {
			text := rule.cn
			if lang == domain.LangEN {
				text = rule.en
			}
			return TrendView{Text: text, Impact: rule.impact, Color: ImpactColor(rule.impact)}
		}
	}

	// Permissive default: never reject an unknown vocabulary.
	return TrendView{Text: trimmed, Impact: ImpactNone, Color: ColorNeutral}
}

// ImpactColor maps impact onto the fixed palette.
func ImpactColor(impact Impact) Color {
	switch impact {
	case ImpactBearish:
		return ColorRed
	case ImpactBullish:
		return ColorGreen
	default:
		return ColorNeutral
	}
}

func neutralText(lang domain.Language) string {
	if lang == domain.LangEN {
		return "Neutral"
	}
	return "中性"
}
