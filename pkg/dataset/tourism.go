package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// NationalTotal is the pseudo-province whose series is the per-month sum
// over every real province.
const NationalTotal = "ทั่วประเทศไทย"

// seriesEpoch is the month of the first data column. Columns map 1:1 onto
// consecutive months from here regardless of the original header text.
var seriesEpoch = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

// regionAggregates are the roll-up rows the source sheet mixes in with the
// provinces. They are dropped; the national total is recomputed instead.
var regionAggregates = map[string]bool{
	"ภาคกลางไม่รวมกรุงเทพฯ": true,
	"ภาคตะวันออก":           true,
	"ภาคใต้":                true,
	"ภาคเหนือ":              true,
	"ภาคตะวันออกเฉียงเหนือ": true,
	NationalTotal:           true,
}

// yearAggregateMarkers flag the year-total columns ("ม.ค.-ธ.ค." and partial
// "ม.ค.-ก.ค.") interleaved with the monthly columns. Those are dropped.
var yearAggregateMarkers = []string{"ม.ค.-ธ.ค.", "ม.ค.-ก.ค."}

// Point is one observed month of a province series. Months with unparseable
// or empty cells are simply absent.
type Point struct {
	Month    time.Time `json:"month"`
	Visitors float64   `json:"visitors"`
}

// VisitorTable is the monthly visitor-count series per province.
type VisitorTable struct {
	Months    []time.Time // the full monthly axis, epoch-aligned
	Provinces []string    // real provinces, sorted
	series    map[string][]Point
	national  []Point
}

// ParseVisitorTable parses the wide time-series spreadsheet. The header is
// the second CSV row; the first column carries the province name.
func ParseVisitorTable(raw []byte) (*VisitorTable, error) {
	rows, err := readCSV(raw)
	if err != nil {
		return nil, fmt.Errorf("visitor csv: %w", err)
	}
	if len(rows) < 3 {
		return nil, fmt.Errorf("visitor csv: want header plus data rows, got %d rows", len(rows))
	}

	header := rows[1]
	keep := make([]int, 0, len(header))
	for j := 1; j < len(header); j++ {
		if isYearAggregate(NormalizeText(header[j])) {
			continue
		}
		keep = append(keep, j)
	}

	months := make([]time.Time, len(keep))
	for i := range keep {
		months[i] = seriesEpoch.AddDate(0, i, 0)
	}

	t := &VisitorTable{
		Months: months,
		series: make(map[string][]Point),
	}

	for _, rec := range rows[2:] {
		if len(rec) == 0 {
			continue
		}
		province := NormalizeText(rec[0])
		if skipRow(province) || regionAggregates[province] {
			continue
		}
		var points []Point
		for i, j := range keep {
			if j >= len(rec) {
				break
			}
			v, ok := parseCount(rec[j])
			if !ok {
				continue
			}
			points = append(points, Point{Month: months[i], Visitors: v})
		}
		t.series[province] = points
	}

	for p := range t.series {
		t.Provinces = append(t.Provinces, p)
	}
	sort.Strings(t.Provinces)

	t.national = t.sumAll()
	return t, nil
}

// Series returns the points for a province. NationalTotal resolves to the
// recomputed all-province sum.
func (t *VisitorTable) Series(province string) ([]Point, bool) {
	if province == NationalTotal {
		return t.national, true
	}
	pts, ok := t.series[province]
	return pts, ok
}

// sumAll builds the national pseudo-series: for each month on the axis, the
// sum over every province that has a point there.
func (t *VisitorTable) sumAll() []Point {
	totals := make(map[time.Time]float64)
	seen := make(map[time.Time]bool)
	for _, pts := range t.series {
		for _, p := range pts {
			totals[p.Month] += p.Visitors
			seen[p.Month] = true
		}
	}
	out := make([]Point, 0, len(totals))
	for _, m := range t.Months {
		if seen[m] {
			out = append(out, Point{Month: m, Visitors: totals[m]})
		}
	}
	return out
}

// parseCount parses a visitor-count cell: commas stripped, plain float.
// Unlike Clean, failures mean "no observation", not zero.
func parseCount(cell string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(cell, ",", ""))
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// skipRow drops blank names, literal "nan" artifacts and footnote rows.
func skipRow(name string) bool {
	return name == "" || strings.EqualFold(name, "nan") || strings.Contains(name, "อ้างอิง")
}

func isYearAggregate(header string) bool {
	for _, marker := range yearAggregateMarkers {
		if strings.Contains(header, marker) {
			return true
		}
	}
	return false
}

func readCSV(raw []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
