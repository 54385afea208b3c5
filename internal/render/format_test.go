package render

import "testing"

func TestFormatUSD(t *testing.T) {
	if got := FormatUSD(97234.5); got != "$97,234.50" {
		t.Fatalf("unexpected USD format: %s", got)
	}
	if got := FormatUSD(0.1234); got != "$0.12" {
		t.Fatalf("unexpected small USD format: %s", got)
	}
	if got := FormatUSD(1234567.891); got != "$1,234,567.89" {
		t.Fatalf("unexpected large USD format: %s", got)
	}
}

func TestFormatPct(t *testing.T) {
	if got := FormatPct(2.345); got != "+2.35%" {
		t.Fatalf("unexpected pct: %s", got)
	}
	if got := FormatPct(-0.5); got != "-0.50%" {
		t.Fatalf("unexpected negative pct: %s", got)
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(153.2); got != "153.20" {
		t.Fatalf("unexpected price: %s", got)
	}
	if got := FormatPrice(4.5); got != "4.50" {
		t.Fatalf("unexpected price: %s", got)
	}
}

func TestFormatFunding(t *testing.T) {
	if got := FormatFunding(0.01234); got != "0.0123%" {
		t.Fatalf("unexpected funding: %s", got)
	}
}

func TestFormatOpenInterest(t *testing.T) {
	if got := FormatOpenInterest(123456); got != "123.5k" {
		t.Fatalf("unexpected OI: %s", got)
	}
}

func TestScoreColorBoundaries(t *testing.T) {
	if got := ScoreColor(60); got != ColorGreen {
		t.Fatalf("score 60 should be bullish, got %s", got)
	}
	if got := ScoreColor(40); got != ColorRed {
		t.Fatalf("score 40 should be bearish, got %s", got)
	}
	if got := ScoreColor(50); got != ColorNeutral {
		t.Fatalf("score 50 should be neutral, got %s", got)
	}
}

func TestScoreBarWidthClamped(t *testing.T) {
	if got := ScoreBarWidth(-5); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := ScoreBarWidth(150); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got := ScoreBarWidth(72.6); got != 72 {
		t.Fatalf("expected 72, got %d", got)
	}
}
