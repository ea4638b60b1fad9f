package dataset

import "testing"

const factorCSV = `จังหวัด,"สนามบิน
 (มี=1, ไม่มี=0)","ระยะเวลาจากกทม. ไปยังจังหวัดต่างๆ
 (เดินทางโดยรถยนต์)","จำนวนการค้นหาบน
Facebook ","จำนวนการค้นหาบน
Tiktok",คาเฟ่,ปัญหาสิ่งแวดล้อมและมลพิษ,จำนวนนักท่องเที่ยว
เชียงใหม่,1,8ชม.30นาที,"1,000",500,120,3,"4,500,000"
ภูเก็ต,1,10-12,2000,800,80,1,"9,000,000"
เชียงใหม่,1,9ชม.,"1,100",600,130,4,"4,600,000"
อ้างอิง: สำรวจปี 2566,,,,,,,
`

func TestParseFactorTable(t *testing.T) {
	tab, err := ParseFactorTable([]byte(factorCSV))
	if err != nil {
		t.Fatalf("ParseFactorTable: %v", err)
	}

	// Footnote row dropped, duplicate เชียงใหม่ collapsed keep-last.
	if len(tab.Rows) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(tab.Rows), tab.Rows)
	}

	row, ok := tab.Row("เชียงใหม่")
	if !ok {
		t.Fatal("missing เชียงใหม่ row")
	}
	if row.TotalVisitors != 4600000 {
		t.Errorf("TotalVisitors = %v, want the last duplicate's 4600000", row.TotalVisitors)
	}
	if got := row.Values["เดินทางโดยรถยนต์"]; got != 540 {
		t.Errorf("เดินทางโดยรถยนต์ = %v, want 540 (9ชม.)", got)
	}
	if got := row.Values["ความหนาแน่นของคาเฟ่"]; got != 130 {
		t.Errorf("ความหนาแน่นของคาเฟ่ = %v, want 130", got)
	}
	if got := row.Values["ปัญหามลพิษ"]; got != 4 {
		t.Errorf("ปัญหามลพิษ = %v, want 4", got)
	}

	phuket, _ := tab.Row("ภูเก็ต")
	if got := phuket.Values["เดินทางโดยรถยนต์"]; got != 11 {
		t.Errorf("range cell = %v, want 11 (mean of 10-12)", got)
	}
}

// Every declared feature must be present, zero-filled when the source column
// is absent, so model fitting never sees a missing column.
func TestFactorTableCompleteness(t *testing.T) {
	tab, err := ParseFactorTable([]byte(factorCSV))
	if err != nil {
		t.Fatalf("ParseFactorTable: %v", err)
	}
	row, _ := tab.Row("ภูเก็ต")
	for _, f := range Features {
		if _, ok := row.Values[f]; !ok {
			t.Errorf("feature %q missing from row", f)
		}
	}
	// รถไฟ has no source column in this sheet.
	if got := row.Values["รถไฟ"]; got != 0 {
		t.Errorf("absent column รถไฟ = %v, want 0", got)
	}
}

func TestDerivedInterest(t *testing.T) {
	tab, err := ParseFactorTable([]byte(factorCSV))
	if err != nil {
		t.Fatalf("ParseFactorTable: %v", err)
	}
	row, _ := tab.Row("ภูเก็ต")
	// Instagram column is absent -> 0; interest = FB + Tiktok + IG.
	if got := row.Values[DerivedInterest]; got != 2800 {
		t.Errorf("%s = %v, want 2800", DerivedInterest, got)
	}
}

func TestTrainingRowsExcludeCapital(t *testing.T) {
	tab := &FactorTable{Rows: []FactorRow{
		{Province: Capital},
		{Province: "เชียงใหม่"},
	}}
	rows := tab.TrainingRows()
	if len(rows) != 1 || rows[0].Province != "เชียงใหม่" {
		t.Errorf("TrainingRows = %+v, want capital excluded", rows)
	}
}

func TestIsProblemFactor(t *testing.T) {
	tests := []struct {
		feature string
		want    bool
	}{
		{"ปัญหาด้านเศรษฐกิจ", true},
		{"ปัญหามลพิษ", true},
		{"ปัญหาความเสี่ยงด้านภัยพิบัติ", true},
		{"สวนสาธารณะ", false},
		{"ความหนาแน่นของคาเฟ่", false},
	}
	for _, tt := range tests {
		if got := IsProblemFactor(tt.feature); got != tt.want {
			t.Errorf("IsProblemFactor(%q) = %v, want %v", tt.feature, got, tt.want)
		}
	}
}
