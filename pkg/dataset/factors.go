package dataset

import (
	"fmt"
	"strings"
)

// Capital is excluded from model training: its visitor volume is an outlier
// that swamps every provincial signal.
const Capital = "กรุงเทพมหานคร"

// DerivedInterest is the combined search-interest feature, the sum of the
// three per-platform search counts.
const DerivedInterest = "ความสนใจต่อที่เที่ยว"

// columnMapping renames the verbose source headers (normalized form, after
// NormalizeText) to the canonical feature names. Order matters only for
// readability; the feature list below fixes the model column order.
var columnMapping = []struct{ src, dst string }{
	{"สนามบิน (มี=1, ไม่มี=0)", "สนามบิน"},
	{"รถไฟ (มี=1,ไม่มี=0)", "รถไฟ"},
	{"ระยะห่างจากกทม. (กิโลเมตร) โดยประมาณ", "ระยะห่างจากกรุงเทพ"},
	{"ระยะเวลาจากกทม. ไปยังจังหวัดต่างๆ (เดินทางโดยรถยนต์)", "เดินทางโดยรถยนต์"},
	{"จำนวนการค้นหาบน Facebook", "จำนวนการค้นหาบน Facebook"},
	{"จำนวนการค้นหาบน Tiktok", "จำนวนการค้นหาบน Tiktok"},
	{"จำนวนการค้นหาบน Instagram", "จำนวนการค้นหาบน Instagram"},
	{"แหล่งท่องเที่ยวเชิงศาสนา", "จำนวนสถานที่ท่องเที่ยว"},
	{"แหล่งท่องเที่ยวเชิงประวัติศาสตร์ และโบราณสถาน", "โบราณสถาน"},
	{"พิพิธภัณฑ์และแหล่งเรียนรู้", "พิพิธภัณฑ์"},
	{"แหล่งท่องเที่ยวเชิงนันทนาการ และสวนสาธารณะ", "สวนสาธารณะ"},
	{"แหล่งท่องเที่ยวเชิงพาณิชย์และตลาด", "ตลาด"},
	{"แหล่งท่องเที่ยวเชิงวัฒนธรรม ร่วมสมัยและบันเทิง", "ร่วมสมัยและบันเทิง"},
	{"แหล่งท่องเที่ยวเชิงธรรมชาติ และสิ่งแวดล้อม", "ธรรมชาติและสิ่งแวดล้อม"},
	{"โครงสร้างพื้นฐานและสัญลักษณ์เมือง", "สัญลักษณ์เมือง"},
	{"คาเฟ่", "ความหนาแน่นของคาเฟ่"},
	{"ปัญหาด้านเศรษฐกิจและรายได้ประชากร", "ปัญหาด้านเศรษฐกิจ"},
	{"ปัญหาโครงสร้างพื้นฐานและระบบคมนาคม", "ปัญหาระบบการคมนาคม"},
	{"ปัญหาสิ่งแวดล้อมและมลพิษ", "ปัญหามลพิษ"},
	{"ปัญหาภัยพิบัติและความเสี่ยงด้านสภาพภูมิอากาศ", "ปัญหาความเสี่ยงด้านภัยพิบัติ"},
	{"ปัญหาการขยายตัวของเมืองและคุณภาพชีวิต", "ปัญหาคุณภาพชีวิต"},
	{"ปัญหาโครงสร้างประชากรและการย้ายถิ่น", "ปัญหาโครงสร้างประชากร"},
}

// targetColumn is the source header for the annual visitor total (the model
// target), renamed internally to "total".
const targetColumn = "จำนวนนักท่องเที่ยว"

// Features is the fixed model feature list. Every name is guaranteed present
// in each FactorRow (zero-filled when the source column is absent), so model
// fitting never sees a missing column.
var Features = []string{
	"สนามบิน", "รถไฟ", "ระยะห่างจากกรุงเทพ", "เดินทางโดยรถยนต์",
	"จำนวนการค้นหาบน Facebook", "จำนวนการค้นหาบน Tiktok", "จำนวนการค้นหาบน Instagram",
	"จำนวนสถานที่ท่องเที่ยว",
	"โบราณสถาน", "พิพิธภัณฑ์", "สวนสาธารณะ", "ตลาด", "ร่วมสมัยและบันเทิง",
	"ธรรมชาติและสิ่งแวดล้อม", "สัญลักษณ์เมือง",
	"ปัญหาด้านเศรษฐกิจ", "ปัญหาระบบการคมนาคม", "ปัญหามลพิษ",
	"ปัญหาความเสี่ยงด้านภัยพิบัติ", "ปัญหาคุณภาพชีวิต", "ปัญหาโครงสร้างประชากร",
	"ความหนาแน่นของคาเฟ่",
	DerivedInterest,
}

// FactorRow is one province of the factor table.
type FactorRow struct {
	Province      string
	TotalVisitors float64
	Values        map[string]float64 // keyed by canonical feature name
}

// FactorTable is the cleaned per-province factor/target table.
type FactorTable struct {
	Rows []FactorRow // source order, duplicates collapsed keep-last
}

// Row returns the row for a province.
func (t *FactorTable) Row(province string) (FactorRow, bool) {
	for _, r := range t.Rows {
		if r.Province == province {
			return r, true
		}
	}
	return FactorRow{}, false
}

// TrainingRows returns the rows used for model fitting: everything except
// the capital.
func (t *FactorTable) TrainingRows() []FactorRow {
	out := make([]FactorRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Province == Capital {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ParseFactorTable parses the factor/target spreadsheet. The header is the
// first CSV row; the province column is named either จังหวัด or Province.
func ParseFactorTable(raw []byte) (*FactorTable, error) {
	rows, err := readCSV(raw)
	if err != nil {
		return nil, fmt.Errorf("factor csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("factor csv: want header plus data rows, got %d rows", len(rows))
	}

	colIdx := make(map[string]int)
	for j, h := range rows[0] {
		colIdx[NormalizeText(h)] = j
	}

	provinceCol, ok := colIdx["จังหวัด"]
	if !ok {
		provinceCol, ok = colIdx["Province"]
	}
	if !ok {
		return nil, fmt.Errorf("factor csv: no province column in header")
	}

	cell := func(rec []string, name string) string {
		j, ok := colIdx[name]
		if !ok || j >= len(rec) {
			return ""
		}
		return rec[j]
	}

	byProvince := make(map[string]int) // province -> index in Rows, keep-last
	var table FactorTable
	for _, rec := range rows[1:] {
		if provinceCol >= len(rec) {
			continue
		}
		province := NormalizeText(rec[provinceCol])
		if skipRow(province) {
			continue
		}

		row := FactorRow{
			Province:      province,
			TotalVisitors: Clean(cell(rec, targetColumn)),
			Values:        make(map[string]float64, len(Features)),
		}
		for _, m := range columnMapping {
			if _, present := colIdx[m.src]; present {
				row.Values[m.dst] = Clean(cell(rec, m.src))
			} else {
				row.Values[m.dst] = 0
			}
		}
		row.Values[DerivedInterest] = row.Values["จำนวนการค้นหาบน Facebook"] +
			row.Values["จำนวนการค้นหาบน Tiktok"] +
			row.Values["จำนวนการค้นหาบน Instagram"]

		if i, dup := byProvince[province]; dup {
			table.Rows[i] = row
			continue
		}
		byProvince[province] = len(table.Rows)
		table.Rows = append(table.Rows, row)
	}

	return &table, nil
}

// IsProblemFactor reports whether a feature measures something bad: for
// these, a value above the benchmark is a weakness, not a strength.
func IsProblemFactor(feature string) bool {
	for _, kw := range []string{"ปัญหา", "มลพิษ", "ความเสี่ยง"} {
		if strings.Contains(feature, kw) {
			return true
		}
	}
	return false
}
