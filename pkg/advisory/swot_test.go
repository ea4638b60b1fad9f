package advisory

import (
	"fmt"
	"testing"

	"github.com/suchin-t/tourboard/pkg/dataset"
)

func factorRow(province string, visitors float64, values map[string]float64) dataset.FactorRow {
	return dataset.FactorRow{Province: province, TotalVisitors: visitors, Values: values}
}

var testFeatures = []string{
	"สวนสาธารณะ",      // positive, actionable
	"ปัญหามลพิษ",      // negative, actionable
	"สนามบิน",         // uncontrollable
	dataset.DerivedInterest, // search outcome
}

func testRows() []dataset.FactorRow {
	rows := make([]dataset.FactorRow, 0, 12)
	for i := 0; i < 12; i++ {
		rows = append(rows, factorRow(
			fmt.Sprintf("จังหวัด%02d", i),
			float64(1000*(i+1)),
			map[string]float64{
				"สวนสาธารณะ":             float64(10 + i),
				"ปัญหามลพิษ":             float64(i % 3),
				"สนามบิน":                1,
				dataset.DerivedInterest: float64(100 * i),
			},
		))
	}
	return rows
}

func flatImportance(string) float64 { return 0.1 }

func TestActionableFeatures(t *testing.T) {
	got := ActionableFeatures(testFeatures)
	want := []string{"สวนสาธารณะ", "ปัญหามลพิษ"}
	if len(got) != len(want) {
		t.Fatalf("ActionableFeatures = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ActionableFeatures[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBenchmarkTopTen(t *testing.T) {
	rows := testRows()
	bench := Benchmark(rows, testFeatures)

	// Rows are ranked by visitors; the top 10 are indices 2..11, whose
	// สวนสาธารณะ values are 12..21.
	want := (12.0 + 21.0) / 2
	if got := bench["สวนสาธารณะ"]; got != want {
		t.Errorf("benchmark สวนสาธารณะ = %v, want %v", got, want)
	}
}

func TestBenchmarkFewRows(t *testing.T) {
	rows := testRows()[:3]
	bench := Benchmark(rows, testFeatures)
	want := (10.0 + 11.0 + 12.0) / 3
	if got := bench["สวนสาธารณะ"]; got != want {
		t.Errorf("benchmark over 3 rows = %v, want %v", got, want)
	}
}

// Every actionable factor lands in exactly one bucket.
func TestBuildExhaustiveAndExclusive(t *testing.T) {
	rows := testRows()
	report, err := Build(rows[0], rows, testFeatures, flatImportance)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	total := len(report.Strengths) + len(report.Weaknesses) + len(report.Opportunities)
	if want := len(ActionableFeatures(testFeatures)); total != want {
		t.Fatalf("classified %d factors, want %d", total, want)
	}

	seen := make(map[string]int)
	for _, it := range report.Strengths {
		seen[it.Feature]++
	}
	for _, it := range report.Weaknesses {
		seen[it.Feature]++
	}
	for _, it := range report.Opportunities {
		seen[it.Feature]++
	}
	for f, n := range seen {
		if n != 1 {
			t.Errorf("feature %q appears in %d buckets", f, n)
		}
	}
}

func TestBuildSignConventions(t *testing.T) {
	rows := testRows()

	low := factorRow("ทดสอบ", 500, map[string]float64{
		"สวนสาธารณะ":             1,   // far below benchmark -> opportunity
		"ปัญหามลพิษ":             99,  // far above benchmark -> weakness
		"สนามบิน":                0,
		dataset.DerivedInterest: 0,
	})
	report, err := Build(low, rows, testFeatures, flatImportance)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(report.Opportunities) != 1 || report.Opportunities[0].Feature != "สวนสาธารณะ" {
		t.Errorf("opportunities = %+v, want สวนสาธารณะ", report.Opportunities)
	}
	if len(report.Weaknesses) != 1 || report.Weaknesses[0].Feature != "ปัญหามลพิษ" {
		t.Errorf("weaknesses = %+v, want ปัญหามลพิษ", report.Weaknesses)
	}

	high := factorRow("ทดสอบ", 500, map[string]float64{
		"สวนสาธารณะ":             999, // above benchmark -> strength
		"ปัญหามลพิษ":             0,   // below benchmark -> strength (well controlled)
		"สนามบิน":                0,
		dataset.DerivedInterest: 0,
	})
	report, err = Build(high, rows, testFeatures, flatImportance)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(report.Strengths) != 2 {
		t.Errorf("strengths = %+v, want both factors", report.Strengths)
	}
}

func TestBuildOrdersByImportance(t *testing.T) {
	rows := testRows()
	imp := func(f string) float64 {
		if f == "ปัญหามลพิษ" {
			return 0.9
		}
		return 0.1
	}
	row := factorRow("ทดสอบ", 500, map[string]float64{
		"สวนสาธารณะ":             999,
		"ปัญหามลพิษ":             0,
		"สนามบิน":                0,
		dataset.DerivedInterest: 0,
	})
	report, err := Build(row, rows, testFeatures, imp)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.Strengths[0].Feature != "ปัญหามลพิษ" {
		t.Errorf("strengths not importance-ordered: %+v", report.Strengths)
	}
}

func TestBuildContextRows(t *testing.T) {
	rows := testRows()
	report, err := Build(rows[0], rows, testFeatures, flatImportance)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(report.Search) != len(SearchFactors) {
		t.Errorf("search rows = %d, want %d", len(report.Search), len(SearchFactors))
	}
	if len(report.Infrastructure) != len(UncontrollableFactors) {
		t.Errorf("infrastructure rows = %d, want %d", len(report.Infrastructure), len(UncontrollableFactors))
	}
}

func TestBuildEmptyRow(t *testing.T) {
	if _, err := Build(dataset.FactorRow{Province: "x"}, testRows(), testFeatures, flatImportance); err == nil {
		t.Error("want error for row without values")
	}
}
