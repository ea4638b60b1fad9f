package forest

import (
	"math"
	"math/rand"
	"testing"
)

// makeData builds rows where the target is dominated by feature 0, with two
// weaker features and one pure-noise feature.
func makeData(n int) ([][]float64, []float64, []string) {
	rng := rand.New(rand.NewSource(7))
	features := []string{"signal", "weak_a", "weak_b", "noise"}
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		row := []float64{
			rng.Float64() * 100,
			rng.Float64() * 10,
			rng.Float64() * 10,
			rng.Float64(),
		}
		x[i] = row
		y[i] = 50*row[0] + 5*row[1] + 3*row[2]
	}
	return x, y, features
}

func TestImportancesSumToOne(t *testing.T) {
	x, y, features := makeData(80)
	m, err := Train(x, y, features, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	var sum float64
	for _, v := range m.Importances() {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("importances sum to %v, want 1", sum)
	}
	for i, v := range m.Importances() {
		if v < 0 {
			t.Errorf("importance[%d] = %v, want non-negative", i, v)
		}
	}
}

func TestDominantFeatureRanksFirst(t *testing.T) {
	x, y, features := makeData(80)
	m, err := Train(x, y, features, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	ranking := m.Ranking()
	if ranking[0].Feature != "signal" {
		t.Errorf("top feature = %q (%.3f), want signal", ranking[0].Feature, ranking[0].Importance)
	}
	if m.Importance("signal") < 0.5 {
		t.Errorf("signal importance = %v, want dominant", m.Importance("signal"))
	}
}

func TestDeterministicForFixedSeed(t *testing.T) {
	x, y, features := makeData(60)

	a, err := Train(x, y, features, &Options{Trees: 50, Seed: 42})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	b, err := Train(x, y, features, &Options{Trees: 50, Seed: 42})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if a.R2() != b.R2() {
		t.Errorf("R2 not reproducible: %v vs %v", a.R2(), b.R2())
	}
	for i := range a.Importances() {
		if a.Importances()[i] != b.Importances()[i] {
			t.Fatalf("importances differ at %d", i)
		}
	}
}

func TestInSampleFitQuality(t *testing.T) {
	x, y, features := makeData(80)
	m, err := Train(x, y, features, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	// In-sample, a purity-grown bagged ensemble on a strong deterministic
	// signal explains nearly all variance.
	if m.R2() < 0.9 {
		t.Errorf("R2 = %v, want > 0.9 in-sample", m.R2())
	}
}

func TestPredictConstantTarget(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{7, 7, 7, 7}
	m, err := Train(x, y, []string{"only"}, &Options{Trees: 10, Seed: 1})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if got := m.Predict([]float64{2.5}); got != 7 {
		t.Errorf("Predict = %v, want 7", got)
	}
}

func TestTrainValidation(t *testing.T) {
	if _, err := Train(nil, nil, []string{"f"}, nil); err == nil {
		t.Error("want error for empty training set")
	}
	if _, err := Train([][]float64{{1}}, []float64{1, 2}, []string{"f"}, nil); err == nil {
		t.Error("want error for row/target mismatch")
	}
	if _, err := Train([][]float64{{1, 2}}, []float64{1}, []string{"f"}, nil); err == nil {
		t.Error("want error for row width mismatch")
	}
}
