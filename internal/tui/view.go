package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/render"
	"github.com/yuqiaowu/news-analyse/internal/schedule"

	"github.com/charmbracelet/lipgloss"
)

func (m *AppModel) View() string {
	labels := m.view.Labels

	var b strings.Builder
	b.WriteString(titleStyle.Render(labels.AppTitle))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.viewErr != nil {
		b.WriteString(errorStyle.Render(labels.FetchError + ": " + m.viewErr.Error()))
		b.WriteString("\n")
		return b.String()
	}
	if m.fetchErr != nil {
		b.WriteString(errorStyle.Render(labels.FetchError + ": " + m.fetchErr.Error()))
		b.WriteString("\n")
	}
	if m.snapshot == nil {
		if !m.fetching && m.fetchErr == nil {
			b.WriteString(labelStyle.Render(labels.Loading))
			b.WriteString("\n")
		}
		b.WriteString("\n" + m.footer())
		return b.String()
	}

	if m.view.Summary.Visible {
		b.WriteString(renderSummary(m.view.Summary))
	}
	if macro := m.renderMacroRow(); macro != "" {
		b.WriteString(macro)
		b.WriteString("\n")
	}
	if m.view.Liquidity.Visible {
		b.WriteString(renderLiquidity(m.view.Liquidity))
	}
	if m.view.News.Visible {
		b.WriteString(renderNews(m.view.News))
	}
	if m.view.Coins.Visible {
		b.WriteString(m.renderCoins(m.view.Coins))
	}

	b.WriteString("\n" + m.footer())
	return b.String()
}

// statusLine shows when the data was produced and what happens next.
func (m *AppModel) statusLine() string {
	labels := m.view.Labels

	var parts []string
	if m.view.UpdatedAt != "" {
		parts = append(parts, fmt.Sprintf("%s: %s", labels.UpdatedAt, m.view.UpdatedAt))
	}
	if m.fetching {
		parts = append(parts, m.spinner.View()+labels.Refreshing)
	} else if m.snapshot != nil {
		remaining := schedule.FromSnapshot(m.snapshot, m.now())
		if remaining <= 0 {
			parts = append(parts, staleStyle.Render(labels.StaleData))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", labels.NextRefresh, formatCountdown(remaining)))
		}
	}
	return headerStyle.Render(strings.Join(parts, "  |  "))
}

func renderSummary(summary render.SummaryView) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(summary.Title))
	b.WriteString("\n")
	b.WriteString(summary.Body)
	if !strings.HasSuffix(summary.Body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// renderMacroRow lays the fed and yen panels side by side when both exist.
func (m *AppModel) renderMacroRow() string {
	var panels []string
	if m.view.Fed.Visible {
		panels = append(panels, renderPanel(m.view.Fed))
	}
	if m.view.Japan.Visible {
		panels = append(panels, renderPanel(m.view.Japan))
	}
	if len(panels) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

func renderPanel(panel render.PanelView) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(panel.Title))
	for _, row := range panel.Rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(row.Label + ": "))
		b.WriteString(colorStyle(row.Color).Render(row.Value))
	}
	return panelStyle.Render(b.String())
}

func renderLiquidity(liq render.LiquidityView) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(liq.Title))
	b.WriteString("\n")
	for _, row := range liq.Rows {
		b.WriteString(fmt.Sprintf("  %-6s %10s  %10s  %s\n",
			row.Name, row.Price, row.Change,
			colorStyle(row.Trend.Color).Render(row.Trend.Text)))
	}
	b.WriteString("\n")
	return b.String()
}

func renderNews(news render.NewsView) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(news.Title))
	b.WriteString("\n")
	for _, item := range news.Items {
		badge := badgeStyle.Inherit(colorStyle(item.BadgeColor)).Render("[" + item.Badge + "]")
		sentiment := colorStyle(item.SentimentColor).Render(item.Sentiment)
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", badge, sentiment, item.Title))
		if item.Reason != "" {
			b.WriteString(labelStyle.Render("      " + item.Reason))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m *AppModel) renderCoins(coins render.CoinsView) string {
	labels := m.view.Labels

	var b strings.Builder
	b.WriteString(sectionStyle.Render(coins.Title))
	b.WriteString("\n")
	for _, card := range coins.Cards {
		b.WriteString(fmt.Sprintf("  %-5s %12s  %s  %s %s  %s %s  %s %s\n",
			titleStyle.Render(card.Symbol),
			card.Price,
			colorStyle(card.ChangeColor).Render(card.Change),
			labelStyle.Render(labels.RSI), card.RSI,
			labelStyle.Render(labels.Funding), card.Funding,
			labelStyle.Render(labels.OpenInterest), card.OpenInterest,
		))
		// BarWidth is a 0-100 percentage; the terminal bar is 20 cells.
		filled := card.BarWidth * barCells / 100
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barCells-filled)
		b.WriteString(fmt.Sprintf("        %s %s %s  %s\n",
			colorStyle(card.SentimentColor).Render(card.Sentiment),
			barStyle.Render(bar),
			colorStyle(card.ScoreColor).Render(card.Score),
			labelStyle.Render(card.Comment),
		))
	}
	return b.String()
}

func (m *AppModel) footer() string {
	labels := m.view.Labels
	return footerStyle.Render(strings.Join([]string{
		labels.ToggleHint, labels.RefreshHint, labels.QuitHint,
	}, "  ·  "))
}

const barCells = 20

func formatCountdown(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
