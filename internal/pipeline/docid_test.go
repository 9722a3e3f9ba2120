package pipeline

import (
	"strings"
	"testing"
)

func TestDocIDStable(t *testing.T) {
	a := DocID("work/EU/Annex 1 2022.pdf")
	b := DocID("work/EU/Annex 1 2022.pdf")
	if a != b {
		t.Fatalf("same path produced different ids: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "Annex_1_2022-") {
		t.Errorf("id = %q, want slugged stem prefix", a)
	}
	parts := strings.Split(a, "-")
	hash := parts[len(parts)-1]
	if len(hash) != 16 {
		t.Errorf("hash suffix %q, want 16 hex chars", hash)
	}
}

func TestDocIDDistinguishesSameFilename(t *testing.T) {
	a := DocID("work/EU/guide.pdf")
	b := DocID("work/FDA/guide.pdf")
	if a == b {
		t.Fatalf("same filename in different folders collided: %q", a)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Annex 1 2022", "Annex_1_2022"},
		{"q7-guideline.v2", "q7-guideline.v2"},
		{"a  b\tc", "a_b_c"},
		{"(draft)", "draft"},
		{"  leading", "leading"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in, 80); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := strings.Repeat("a", 200)
	if got := slugify(long, 80); len(got) != 80 {
		t.Errorf("len = %d, want 80", len(got))
	}
}
