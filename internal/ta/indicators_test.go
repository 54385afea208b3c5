package ta

import (
	"math"
	"testing"
)

func TestRSISeriesBounds(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.0,
		45.9, 46.2, 45.6, 46.3, 46.3, 46.0}
	series := RSISeries(closes, 14)
	if series == nil {
		t.Fatal("expected series")
	}
	for i := 0; i < 14; i++ {
		if !math.IsNaN(series[i]) {
			t.Fatalf("entry %d should be NaN before first period", i)
		}
	}
	last := series[len(series)-1]
	if last < 0 || last > 100 {
		t.Fatalf("RSI out of bounds: %f", last)
	}
}

func TestRSIAllGainsIs100(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(i)
	}
	if got := LatestRSI(closes, 14); got != 100 {
		t.Fatalf("monotone gains should read 100, got %f", got)
	}
}

func TestLatestRSIInsufficientHistory(t *testing.T) {
	if got := LatestRSI([]float64{1, 2, 3}, 14); got != 50 {
		t.Fatalf("expected neutral 50 with short history, got %f", got)
	}
}

func TestEMASeriesConverges(t *testing.T) {
	values := []float64{10, 10, 10, 10, 10}
	out := EMASeries(values, 3)
	if out[len(out)-1] != 10 {
		t.Fatalf("EMA of constant series must equal the constant, got %f", out[len(out)-1])
	}
}
