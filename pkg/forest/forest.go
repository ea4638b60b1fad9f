// Package forest trains a bagged regression-tree ensemble (a random forest)
// and exposes per-feature importances and the in-sample coefficient of
// determination. The fit is seeded and fully deterministic, so a session's
// importance ranking is reproducible.
package forest

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Options tune a training run.
type Options struct {
	Trees int   // ensemble size
	Seed  int64 // bootstrap sampling seed
}

// DefaultOptions: 100 trees, fixed seed.
func DefaultOptions() *Options {
	return &Options{Trees: 100, Seed: 42}
}

// FeatureImportance pairs a feature name with its share of the ensemble's
// impurity reduction.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Model is a trained ensemble.
type Model struct {
	trees       []*node
	features    []string
	importances []float64
	r2          float64
}

// Train fits the ensemble on x (rows of feature values, columns aligned with
// features) against target y. Each tree sees a bootstrap resample and is
// grown to purity; importances are impurity decreases, normalized per tree
// and averaged so the returned vector sums to 1.
func Train(x [][]float64, y []float64, features []string, opts *Options) (*Model, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	n := len(x)
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("forest: %d rows against %d targets", n, len(y))
	}
	if len(features) == 0 {
		return nil, errors.New("forest: no features")
	}
	for i, row := range x {
		if len(row) != len(features) {
			return nil, fmt.Errorf("forest: row %d has %d values, want %d", i, len(row), len(features))
		}
	}
	if opts.Trees <= 0 {
		return nil, errors.New("forest: need at least one tree")
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	m := &Model{
		features:    features,
		importances: make([]float64, len(features)),
	}

	treeImp := make([]float64, len(features))
	for t := 0; t < opts.Trees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}

		for i := range treeImp {
			treeImp[i] = 0
		}
		m.trees = append(m.trees, buildTree(x, y, idx, treeImp))

		var total float64
		for _, v := range treeImp {
			total += v
		}
		if total > 0 {
			for i, v := range treeImp {
				m.importances[i] += v / total
			}
		}
	}

	var total float64
	for _, v := range m.importances {
		total += v
	}
	if total > 0 {
		for i := range m.importances {
			m.importances[i] /= total
		}
	}

	estimates := make([]float64, n)
	for i, row := range x {
		estimates[i] = m.Predict(row)
	}
	m.r2 = stat.RSquaredFrom(estimates, y, nil)

	return m, nil
}

// Predict averages the trees for one feature row.
func (m *Model) Predict(row []float64) float64 {
	var sum float64
	for _, t := range m.trees {
		sum += t.predict(row)
	}
	return sum / float64(len(m.trees))
}

// R2 is the in-sample coefficient of determination.
func (m *Model) R2() float64 {
	return m.r2
}

// Importances returns the importance vector aligned with the training
// feature order. The values sum to 1.
func (m *Model) Importances() []float64 {
	out := make([]float64, len(m.importances))
	copy(out, m.importances)
	return out
}

// Importance returns the importance of a single named feature.
func (m *Model) Importance(feature string) float64 {
	for i, f := range m.features {
		if f == feature {
			return m.importances[i]
		}
	}
	return 0
}

// Ranking returns features sorted by importance, descending. Ties break on
// feature name so the ordering is stable.
func (m *Model) Ranking() []FeatureImportance {
	out := make([]FeatureImportance, len(m.features))
	for i, f := range m.features {
		out[i] = FeatureImportance{Feature: f, Importance: m.importances[i]}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Importance != out[b].Importance {
			return out[a].Importance > out[b].Importance
		}
		return out[a].Feature < out[b].Feature
	})
	return out
}
