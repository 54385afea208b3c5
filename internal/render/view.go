package render

import (
	"strings"

	"github.com/yuqiaowu/news-analyse/internal/domain"
	"github.com/yuqiaowu/news-analyse/internal/i18n"
)

// View state emitted per section. An external layer (TUI, HTML) applies it;
// nothing here touches a screen.

type LabeledValue struct {
	Label string
	Value string
	Color Color
}

type SummaryView struct {
	Visible bool
	Title   string
	Body    string
}

// PanelView covers the fed-futures and japan-macro panels.
type PanelView struct {
	Visible bool
	Title   string
	Rows    []LabeledValue
	Trend   TrendView
}

type LiquidityRowView struct {
	Name   string
	Price  string
	Change string
	Trend  TrendView
}

type LiquidityView struct {
	Visible bool
	Title   string
	Rows    []LiquidityRowView
}

type NewsItemView struct {
	Badge          string
	BadgeColor     Color
	Sentiment      string
	SentimentColor Color
	Title          string
	Reason         string
}

type NewsView struct {
	Visible bool
	Title   string
	Items   []NewsItemView
}

type CoinCardView struct {
	Symbol         string
	Price          string
	Change         string
	ChangeColor    Color
	RSI            string
	Funding        string
	OpenInterest   string
	Sentiment      string
	SentimentClass string
	SentimentColor Color
	Score          string
	ScoreColor     Color
	BarWidth       int
	Comment        string
}

type CoinsView struct {
	Visible bool
	Title   string
	Cards   []CoinCardView
}

// ViewState is the full render output for one snapshot in one language.
type ViewState struct {
	Lang      domain.Language
	Labels    i18n.Labels
	UpdatedAt string
	Summary   SummaryView
	Fed       PanelView
	Japan     PanelView
	Liquidity LiquidityView
	News      NewsView
	Coins     CoinsView
}

// BuildView maps a snapshot through the lexicon and trend classifier into
// view state. Sections that are absent or error-flagged come back with
// Visible=false; everything else degrades rather than fails.
func BuildView(snap *domain.Snapshot, lang domain.Language, md MarkdownRenderer) (ViewState, error) {
	labels, err := i18n.GetLabels(lang)
	if err != nil {
		return ViewState{}, err
	}

	state := ViewState{Lang: lang, Labels: labels}
	if snap == nil {
		return state, nil
	}

	if ts, err := snap.Time(); err == nil {
		state.UpdatedAt = ts.Format("2006-01-02 15:04 UTC")
	}

	if summary := snap.Summary(lang); summary != "" {
		state.Summary = SummaryView{
			Visible: true,
			Title:   labels.SummaryTitle,
			Body:    RenderSummary(md, summary),
		}
	}

	state.Fed = buildFedView(snap.FedFutures, labels, lang)
	state.Japan = buildJapanView(snap.JapanMacro, labels, lang)
	state.Liquidity = buildLiquidityView(snap.LiquidityMonitor, labels, lang)
	state.News = buildNewsView(snap.NewsAnalysis, labels, lang)
	state.Coins = buildCoinsView(snap.Coins, labels, lang)
	return state, nil
}

func buildFedView(fed *domain.FedFutures, labels i18n.Labels, lang domain.Language) PanelView {
	if fed == nil || fed.Error {
		return PanelView{}
	}
	trend := ClassifyTrend(MetricFed, fed.Trend, lang)
	view := PanelView{Visible: true, Title: labels.FedTitle, Trend: trend}
	if fed.ImpliedRate != nil {
		view.Rows = append(view.Rows, LabeledValue{Label: labels.ImpliedRate, Value: FormatRate(*fed.ImpliedRate), Color: ColorNeutral})
	}
	if fed.Change5DBps != nil {
		view.Rows = append(view.Rows, LabeledValue{Label: labels.Change5D, Value: FormatBps(*fed.Change5DBps), Color: ChangeColor(*fed.Change5DBps)})
	}
	if fed.Zone != "" {
		view.Rows = append(view.Rows, LabeledValue{Label: labels.Zone, Value: fed.Zone, Color: ColorNeutral})
	}
	view.Rows = append(view.Rows, LabeledValue{Label: labels.Trend, Value: trend.Text, Color: trend.Color})
	return view
}

func buildJapanView(jp *domain.JapanMacro, labels i18n.Labels, lang domain.Language) PanelView {
	if jp == nil || jp.Error {
		return PanelView{}
	}
	trend := ClassifyTrend(MetricYen, jp.Trend, lang)
	view := PanelView{Visible: true, Title: labels.JapanTitle, Trend: trend}
	if jp.Price != nil {
		view.Rows = append(view.Rows, LabeledValue{Label: labels.Price, Value: FormatPrice(*jp.Price), Color: ColorNeutral})
	}
	if jp.Change5DPct != nil {
		view.Rows = append(view.Rows, LabeledValue{Label: labels.Change5D, Value: FormatPct(*jp.Change5DPct), Color: ChangeColor(*jp.Change5DPct)})
	}
	if jp.Zone != "" {
		view.Rows = append(view.Rows, LabeledValue{Label: labels.Zone, Value: jp.Zone, Color: ColorNeutral})
	}
	view.Rows = append(view.Rows, LabeledValue{Label: labels.Trend, Value: trend.Text, Color: trend.Color})
	return view
}

var liquidityOrder = []struct {
	name   string
	metric Metric
}{
	{"DXY", MetricDXY},
	{"US10Y", MetricUS10Y},
	{"VIX", MetricVIX},
}

func buildLiquidityView(liq *domain.LiquidityMonitor, labels i18n.Labels, lang domain.Language) LiquidityView {
	if liq == nil || liq.Error {
		return LiquidityView{}
	}
	view := LiquidityView{Visible: true, Title: labels.LiquidityTitle}
	points := map[string]*domain.LiquidityPoint{
		"DXY":   liq.DXY,
		"US10Y": liq.US10Y,
		"VIX":   liq.VIX,
	}
	for _, entry := range liquidityOrder {
		point := points[entry.name]
		if point == nil {
			continue
		}
		row := LiquidityRowView{Name: entry.name, Trend: ClassifyTrend(entry.metric, point.Trend, lang)}
		if point.Price != nil {
			row.Price = FormatPrice(*point.Price)
		} else {
			row.Price = "—"
		}
		if point.Change5DPct != nil {
			row.Change = FormatPct(*point.Change5DPct)
		} else {
			row.Change = "—"
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

func buildNewsView(items []domain.NewsItem, labels i18n.Labels, lang domain.Language) NewsView {
	if len(items) == 0 {
		return NewsView{}
	}
	view := NewsView{Visible: true, Title: labels.NewsTitle}
	for i := range items {
		item := &items[i]
		sentiment := item.Sentiment()
		view.Items = append(view.Items, NewsItemView{
			Badge:          i18n.ClassificationText(item.Classification, lang),
			BadgeColor:     classificationColor(item.Classification),
			Sentiment:      i18n.SentimentText(sentiment, lang),
			SentimentColor: SentimentColor(sentiment),
			Title:          item.Title(lang),
			Reason:         item.Reason(lang),
		})
	}
	return view
}

func buildCoinsView(coins []domain.CoinEntry, labels i18n.Labels, lang domain.Language) CoinsView {
	if len(coins) == 0 {
		return CoinsView{}
	}
	// Input order is preserved; no sorting or filtering.
	view := CoinsView{Visible: true, Title: labels.CoinsTitle}
	for i := range coins {
		coin := &coins[i]
		view.Cards = append(view.Cards, CoinCardView{
			Symbol:         coin.Symbol,
			Price:          FormatUSD(coin.Price),
			Change:         FormatPct(coin.Change24h),
			ChangeColor:    ChangeColor(coin.Change24h),
			RSI:            FormatRSI(coin.RSI4H),
			Funding:        FormatFunding(coin.FundingRate),
			OpenInterest:   FormatOpenInterest(coin.OpenInterest),
			Sentiment:      coin.Sentiment,
			SentimentClass: strings.ToLower(strings.TrimSpace(coin.Sentiment)),
			SentimentColor: SentimentColor(coin.Sentiment),
			Score:          FormatRSI(coin.Score),
			ScoreColor:     ScoreColor(coin.Score),
			BarWidth:       ScoreBarWidth(coin.Score),
			Comment:        coin.Comment(lang),
		})
	}
	return view
}

func classificationColor(raw string) Color {
	switch domain.NormalizeClassification(raw) {
	case domain.ClassImpulse:
		return ColorGreen
	case domain.ClassDistribution, domain.ClassDivergence:
		return ColorRed
	default:
		return ColorNeutral
	}
}
