package forecast

import (
	"math"
	"testing"
	"time"
)

// seasonalSeries builds n months of an upward-trending series with a yearly
// cycle, starting January 2015.
func seasonalSeries(n int) []Point {
	start := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		t := start.AddDate(0, i, 0)
		value := 1000 + 10*float64(i) + 200*math.Sin(2*math.Pi*float64(i)/12)
		pts[i] = Point{T: t, Value: value}
	}
	return pts
}

func TestFitHorizonAndBands(t *testing.T) {
	res, err := Fit(seasonalSeries(96), nil)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	future := res.Future()
	if len(future) != 12 {
		t.Fatalf("got %d future predictions, want 12", len(future))
	}

	// Future stamps are consecutive months after the cutoff.
	next := res.Cutoff.AddDate(0, 1, 0)
	for _, p := range future {
		if !p.T.Equal(next) {
			t.Errorf("future month %v, want %v", p.T, next)
		}
		next = next.AddDate(0, 1, 0)
	}

	for _, p := range res.Predictions {
		if p.Lower > p.Predicted || p.Predicted > p.Upper {
			t.Errorf("band out of order at %v: %v %v %v", p.T, p.Lower, p.Predicted, p.Upper)
		}
		if p.Predicted != p.Trend+p.Yearly {
			t.Errorf("decomposition does not sum at %v", p.T)
		}
	}
}

func TestFitTracksSignal(t *testing.T) {
	history := seasonalSeries(96)
	res, err := Fit(history, nil)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	// The series is noiseless and inside the model family, so the in-sample
	// fit should be tight relative to the seasonal amplitude.
	if res.Sigma > 20 {
		t.Errorf("sigma = %v, want a tight fit on a noiseless series", res.Sigma)
	}

	// The fitted trend should keep rising over the horizon.
	future := res.Future()
	if future[len(future)-1].Trend <= future[0].Trend {
		t.Errorf("trend not increasing: %v -> %v", future[0].Trend, future[len(future)-1].Trend)
	}
}

func TestFitDeterministic(t *testing.T) {
	history := seasonalSeries(48)
	a, err := Fit(history, nil)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	b, err := Fit(history, nil)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for i := range a.Predictions {
		if a.Predictions[i].Predicted != b.Predictions[i].Predicted {
			t.Fatalf("fit is not deterministic at %v", a.Predictions[i].T)
		}
	}
}

func TestFitShortHistory(t *testing.T) {
	if _, err := Fit(nil, nil); err == nil {
		t.Error("want error for empty history")
	}
	one := seasonalSeries(1)
	if _, err := Fit(one, nil); err == nil {
		t.Error("want error for single observation")
	}
}

func TestFitCustomHorizon(t *testing.T) {
	opts := DefaultOptions()
	opts.Horizon = 6
	res, err := Fit(seasonalSeries(48), opts)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got := len(res.Future()); got != 6 {
		t.Errorf("got %d future predictions, want 6", got)
	}
}
