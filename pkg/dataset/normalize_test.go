package dataset

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"สนามบิน\n (มี=1, ไม่มี=0)", "สนามบิน (มี=1, ไม่มี=0)"},
		{"จำนวนการค้นหาบน\nFacebook ", "จำนวนการค้นหาบน Facebook"},
		{"  เชียงใหม่  ", "เชียงใหม่"},
		{"กรุงเทพ​มหานคร", "กรุงเทพมหานคร"}, // zero-width space stripped
		{"a\t b\nc", "a b c"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeText(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// Thai combining marks (vowels, tone marks) must survive normalization.
func TestNormalizeTextKeepsThaiMarks(t *testing.T) {
	in := "เชียงใหม่"
	if got := NormalizeText(in); got != in {
		t.Errorf("NormalizeText(%q) = %q, combining marks were altered", in, got)
	}
}
