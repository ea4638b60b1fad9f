// Package advisory turns the factor table and the importance model into a
// per-province SWOT-style action view: each actionable factor is compared to
// the top-10-visitor benchmark and bucketed as a strength, weakness or
// opportunity.
package advisory

import (
	"fmt"
	"sort"

	"github.com/suchin-t/tourboard/pkg/dataset"
)

// Category buckets an actionable factor.
type Category string

const (
	Strength    Category = "strength"
	Weakness    Category = "weakness"
	Opportunity Category = "opportunity"
)

// BenchmarkTopN is how many highest-visitor provinces form the benchmark.
const BenchmarkTopN = 10

// UncontrollableFactors are fixed geography and transport facts: shown for
// context but never recommended as actions.
var UncontrollableFactors = []string{
	"ระยะห่างจากกรุงเทพ", "เดินทางโดยรถยนต์", "รถไฟ", "สนามบิน",
}

// SearchFactors measure outcomes (search interest), not levers: also
// excluded from the action view.
var SearchFactors = []string{
	"จำนวนการค้นหาบน Facebook", "จำนวนการค้นหาบน Tiktok", "จำนวนการค้นหาบน Instagram",
	dataset.DerivedInterest,
}

// Item is one classified actionable factor.
type Item struct {
	Feature    string   `json:"feature"`
	Current    float64  `json:"current"`
	Benchmark  float64  `json:"benchmark"`
	Gap        float64  `json:"gap"` // current - benchmark
	Importance float64  `json:"importance"`
	Negative   bool     `json:"negative"` // problem-type factor
	Category   Category `json:"category"`
}

// Row is a context comparison row for the non-actionable factor groups.
type Row struct {
	Feature   string  `json:"feature"`
	Current   float64 `json:"current"`
	Benchmark float64 `json:"benchmark"`
	Gap       float64 `json:"gap"`
}

// Report is the full advisory view for one province.
type Report struct {
	Province       string  `json:"province"`
	TotalVisitors  float64 `json:"total_visitors"`
	Strengths      []Item  `json:"strengths"`
	Weaknesses     []Item  `json:"weaknesses"`
	Opportunities  []Item  `json:"opportunities"`
	Search         []Row   `json:"search_interest"`
	Infrastructure []Row   `json:"infrastructure"`
}

// ActionableFeatures filters the model feature list down to the factors a
// tourism board can actually move.
func ActionableFeatures(features []string) []string {
	excluded := make(map[string]bool)
	for _, f := range UncontrollableFactors {
		excluded[f] = true
	}
	for _, f := range SearchFactors {
		excluded[f] = true
	}
	out := make([]string, 0, len(features))
	for _, f := range features {
		if !excluded[f] {
			out = append(out, f)
		}
	}
	return out
}

// Benchmark computes the per-feature mean over the BenchmarkTopN
// highest-visitor rows.
func Benchmark(rows []dataset.FactorRow, features []string) map[string]float64 {
	top := make([]dataset.FactorRow, len(rows))
	copy(top, rows)
	sort.SliceStable(top, func(a, b int) bool {
		return top[a].TotalVisitors > top[b].TotalVisitors
	})
	if len(top) > BenchmarkTopN {
		top = top[:BenchmarkTopN]
	}

	bench := make(map[string]float64, len(features))
	if len(top) == 0 {
		return bench
	}
	for _, f := range features {
		var sum float64
		for _, r := range top {
			sum += r.Values[f]
		}
		bench[f] = sum / float64(len(top))
	}
	return bench
}

// ImportanceFunc resolves a feature's model importance; unknown features
// score 0.
type ImportanceFunc func(feature string) float64

// Build classifies every actionable factor of the province row against the
// benchmark. The classification is exhaustive and mutually exclusive:
//   - problem-type factor above benchmark  -> weakness
//   - positive factor below benchmark      -> opportunity
//   - anything else                        -> strength
//
// Buckets are ordered by model importance, descending.
func Build(row dataset.FactorRow, rows []dataset.FactorRow, features []string, importance ImportanceFunc) (*Report, error) {
	if row.Values == nil {
		return nil, fmt.Errorf("advisory: empty factor row for %s", row.Province)
	}
	bench := Benchmark(rows, features)

	report := &Report{
		Province:      row.Province,
		TotalVisitors: row.TotalVisitors,
		Strengths:     []Item{},
		Weaknesses:    []Item{},
		Opportunities: []Item{},
	}

	actionable := ActionableFeatures(features)
	items := make([]Item, 0, len(actionable))
	for _, f := range actionable {
		current, target := row.Values[f], bench[f]
		item := Item{
			Feature:    f,
			Current:    current,
			Benchmark:  target,
			Gap:        current - target,
			Importance: importance(f),
			Negative:   dataset.IsProblemFactor(f),
		}
		switch {
		case item.Negative && current > target:
			item.Category = Weakness
		case !item.Negative && current < target:
			item.Category = Opportunity
		default:
			item.Category = Strength
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Importance > items[b].Importance
	})
	for _, item := range items {
		switch item.Category {
		case Weakness:
			report.Weaknesses = append(report.Weaknesses, item)
		case Opportunity:
			report.Opportunities = append(report.Opportunities, item)
		default:
			report.Strengths = append(report.Strengths, item)
		}
	}

	report.Search = contextRows(row, bench, SearchFactors)
	report.Infrastructure = contextRows(row, bench, UncontrollableFactors)
	return report, nil
}

func contextRows(row dataset.FactorRow, bench map[string]float64, features []string) []Row {
	out := make([]Row, 0, len(features))
	for _, f := range features {
		out = append(out, Row{
			Feature:   f,
			Current:   row.Values[f],
			Benchmark: bench[f],
			Gap:       row.Values[f] - bench[f],
		})
	}
	return out
}
