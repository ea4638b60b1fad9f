// Package dataset downloads the tourism source spreadsheets, normalizes
// their Thai headers, and parses them into the visitor time series and the
// per-province factor table served by the rest of the system.
package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Clean coerces a raw spreadsheet cell into a float64. It is total and
// deterministic: any input yields a finite number, never an error.
//
// Recognized shapes, in order:
//   - empty or "nan" (any case)            -> 0
//   - "A-B" range where both halves parse  -> (A+B)/2
//   - "HชมMนาที" travel durations          -> total minutes
//   - plain float (thousands commas ok)    -> value
//   - anything else                        -> 0
func Clean(val string) float64 {
	return finiteOrZero(clean(val))
}

func clean(val string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(val, ",", ""))
	if s == "" || strings.EqualFold(s, "nan") {
		return 0
	}

	if strings.Contains(s, "-") {
		parts := strings.Split(s, "-")
		if len(parts) >= 2 {
			lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errLo == nil && errHi == nil {
				return (lo + hi) / 2
			}
		}
	}

	if strings.Contains(s, hourMarker) || strings.Contains(s, minuteMarker) {
		if minutes, ok := parseThaiDuration(s); ok {
			return minutes
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

const (
	hourMarker   = "ชม."
	minuteMarker = "นาที"
)

// parseThaiDuration converts strings like "2ชม.30นาที" or "45นาที" to total
// minutes. The bool result is false when the shape is not a parseable
// duration, in which case Clean falls through to the plain-float path.
func parseThaiDuration(s string) (float64, bool) {
	var hours, minutes float64
	if strings.Contains(s, hourMarker) {
		parts := strings.SplitN(s, hourMarker, 2)
		h, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return 0, false
		}
		hours = h
		s = parts[1]
	}
	if strings.Contains(s, minuteMarker) {
		m, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, minuteMarker, "")), 64)
		if err != nil {
			return 0, false
		}
		minutes = m
	}
	return hours*60 + minutes, true
}
