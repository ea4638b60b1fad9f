// Package thaidate formats calendar months for Thai-facing output:
// Thai month names and Buddhist-era years (Gregorian year + 543).
package thaidate

import (
	"fmt"
	"time"
)

// MonthsAbbr are the abbreviated Thai month names, January first.
var MonthsAbbr = [12]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}

// MonthsFull are the full Thai month names, January first.
var MonthsFull = [12]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// BuddhistYear converts a Gregorian year to the Buddhist era.
func BuddhistYear(t time.Time) int {
	return t.Year() + 543
}

// Format renders t as "<month> <BE year>", e.g. "มกราคม 2558".
// A zero time renders as the empty string.
func Format(t time.Time, fullMonth bool) string {
	if t.IsZero() {
		return ""
	}
	idx := int(t.Month()) - 1
	name := MonthsAbbr[idx]
	if fullMonth {
		name = MonthsFull[idx]
	}
	return fmt.Sprintf("%s %d", name, BuddhistYear(t))
}
