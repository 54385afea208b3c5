// Package i18n holds the fixed bilingual label dictionary for the dashboard.
// Only two language tags exist; asking for anything else is a configuration
// bug, not a runtime condition to paper over.
package i18n

import (
	"fmt"

	"github.com/yuqiaowu/news-analyse/internal/domain"
)

// Labels is the complete set of UI strings for one language.
type Labels struct {
	AppTitle       string
	SummaryTitle   string
	FedTitle       string
	JapanTitle     string
	LiquidityTitle string
	NewsTitle      string
	CoinsTitle     string

	ImpliedRate  string
	Change5D     string
	Zone         string
	Trend        string
	Price        string
	Change24h    string
	RSI          string
	Funding      string
	OpenInterest string
	Score        string

	Bullish string
	Bearish string
	Neutral string

	Loading     string
	FetchError  string
	NextRefresh string
	Refreshing  string
	StaleData   string
	ToggleHint  string
	RefreshHint string
	QuitHint    string
	UpdatedAt   string
}

var labelsCN = Labels{
	AppTitle:       "加密市场叙事仪表盘",
	SummaryTitle:   "全局总结",
	FedTitle:       "联储利率期货",
	JapanTitle:     "日元宏观 (USD/JPY)",
	LiquidityTitle: "全球流动性监控",
	NewsTitle:      "新闻叙事分析",
	CoinsTitle:     "币种情绪",

	ImpliedRate:  "隐含利率",
	Change5D:     "5日变化",
	Zone:         "区间",
	Trend:        "趋势",
	Price:        "价格",
	Change24h:    "24h涨跌",
	RSI:          "RSI(4H)",
	Funding:      "资金费率",
	OpenInterest: "持仓量",
	Score:        "评分",

	Bullish: "看涨",
	Bearish: "看跌",
	Neutral: "中性",

	Loading:     "加载中...",
	FetchError:  "数据加载失败",
	NextRefresh: "距下次刷新",
	Refreshing:  "刷新中...",
	StaleData:   "数据已过期",
	ToggleHint:  "l 切换语言",
	RefreshHint: "r 强制刷新",
	QuitHint:    "q 退出",
	UpdatedAt:   "更新时间",
}

var labelsEN = Labels{
	AppTitle:       "Crypto Market Narrative Dashboard",
	SummaryTitle:   "Global Summary",
	FedTitle:       "Fed Rate Futures",
	JapanTitle:     "Japan Macro (USD/JPY)",
	LiquidityTitle: "Global Liquidity Monitor",
	NewsTitle:      "News Narrative Analysis",
	CoinsTitle:     "Coin Sentiment",

	ImpliedRate:  "Implied Rate",
	Change5D:     "5D Change",
	Zone:         "Zone",
	Trend:        "Trend",
	Price:        "Price",
	Change24h:    "24h Change",
	RSI:          "RSI(4H)",
	Funding:      "Funding",
	OpenInterest: "Open Interest",
	Score:        "Score",

	Bullish: "Bullish",
	Bearish: "Bearish",
	Neutral: "Neutral",

	Loading:     "Loading...",
	FetchError:  "Failed to load data",
	NextRefresh: "Next refresh in",
	Refreshing:  "Refreshing...",
	StaleData:   "Data is stale",
	ToggleHint:  "l language",
	RefreshHint: "r refresh",
	QuitHint:    "q quit",
	UpdatedAt:   "Updated",
}

var classificationCN = map[string]string{
	domain.ClassImpulse:      "利好冲击",
	domain.ClassPricedIn:     "已被消化",
	domain.ClassDistribution: "出货派发",
	domain.ClassDivergence:   "背离信号",
	domain.ClassNeutral:      "中性",
}

var classificationEN = map[string]string{
	domain.ClassImpulse:      "Impulse",
	domain.ClassPricedIn:     "Priced In",
	domain.ClassDistribution: "Distribution",
	domain.ClassDivergence:   "Divergence",
	domain.ClassNeutral:      "Neutral",
}

// GetLabels returns the label set for the given language tag. Unknown tags
// are rejected: with only two valid tags a silent default would hide a
// wiring mistake.
func GetLabels(lang domain.Language) (Labels, error) {
	switch lang {
	case domain.LangCN:
		return labelsCN, nil
	case domain.LangEN:
		return labelsEN, nil
	default:
		return Labels{}, fmt.Errorf("unknown language tag: %q", lang)
	}
}

// ClassificationText maps a raw classification value to its localized badge
// text. The code is normalized first, so absent or unknown classifications
// render as the NEUTRAL entry.
func ClassificationText(raw string, lang domain.Language) string {
	code := domain.NormalizeClassification(raw)
	if lang == domain.LangEN {
		return classificationEN[code]
	}
	return classificationCN[code]
}

// SentimentText localizes a normalized Bullish/Bearish/Neutral label.
func SentimentText(sentiment string, lang domain.Language) string {
	labels := labelsCN
	if lang == domain.LangEN {
		labels = labelsEN
	}
	switch sentiment {
	case "Bullish":
		return labels.Bullish
	case "Bearish":
		return labels.Bearish
	default:
		return labels.Neutral
	}
}
