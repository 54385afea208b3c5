package render

import (
	"fmt"
	"strings"
)

// Numeric formatting is locale-fixed regardless of the active language.

// FormatUSD renders a dollar amount with 2 decimals and thousands separators.
func FormatUSD(v float64) string {
	return "$" + groupThousands(fmt.Sprintf("%.2f", v))
}

// FormatPct renders a signed percentage with 2 decimals.
func FormatPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatPrice renders a plain quote level with 2 decimals.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatRSI renders an RSI reading with 1 decimal.
func FormatRSI(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FormatFunding renders a funding rate percentage with 4 decimals.
func FormatFunding(v float64) string {
	return fmt.Sprintf("%.4f%%", v)
}

// FormatOpenInterest renders open interest in thousands with 1 decimal.
func FormatOpenInterest(v float64) string {
	return fmt.Sprintf("%.1fk", v/1000)
}

// FormatRate renders an implied rate percentage with 2 decimals.
func FormatRate(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatBps renders a basis-point change, signed, with 1 decimal.
func FormatBps(v float64) string {
	return fmt.Sprintf("%+.1f bps", v)
}

// ScoreColor bands a 0-100 sentiment score: >=60 bullish, <=40 bearish.
func ScoreColor(score float64) Color {
	switch {
	case score >= 60:
		return ColorGreen
	case score <= 40:
		return ColorRed
	default:
		return ColorNeutral
	}
}

// ScoreBarWidth clamps a score to 0-100 for use as a bar percentage.
func ScoreBarWidth(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

// ChangeColor colors a signed change: positive green, negative red.
func ChangeColor(v float64) Color {
	switch {
	case v > 0:
		return ColorGreen
	case v < 0:
		return ColorRed
	default:
		return ColorNeutral
	}
}

// SentimentColor colors a normalized Bullish/Bearish/Neutral label.
func SentimentColor(sentiment string) Color {
	switch sentiment {
	case "Bullish":
		return ColorGreen
	case "Bearish":
		return ColorRed
	default:
		return ColorNeutral
	}
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		frac = s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}
