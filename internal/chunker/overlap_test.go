package chunker

import (
	"strings"
	"testing"
)

func TestAssembleOverlap_PrefixWithinSection(t *testing.T) {
	text := strings.Repeat("a", 300) + strings.Repeat("b", 300)
	doc := docFromText(text)
	pieces := []piece{
		{sectionID: "Annex 1", start: 0, end: 300},
		{sectionID: "Annex 1", start: 300, end: 600},
	}

	drafts := assembleOverlap(doc, pieces, 50)
	if drafts[0].OverlapLen != 0 {
		t.Errorf("first chunk of a section must carry no overlap, got %d", drafts[0].OverlapLen)
	}
	if drafts[1].OverlapLen != 50 {
		t.Fatalf("overlap len = %d, want 50", drafts[1].OverlapLen)
	}
	wantPrefix := strings.Repeat("a", 50)
	if !strings.HasPrefix(drafts[1].Text, wantPrefix) {
		t.Error("overlap prefix is not the previous chunk's tail")
	}
	if !strings.Contains(drafts[0].Text, drafts[1].Text[:drafts[1].OverlapLen]) {
		t.Error("overlap prefix must be a verbatim substring of the previous chunk")
	}
}

func TestAssembleOverlap_NeverCrossesSections(t *testing.T) {
	text := strings.Repeat("a", 300) + strings.Repeat("b", 300)
	doc := docFromText(text)
	pieces := []piece{
		{sectionID: "Annex 1", start: 0, end: 300},
		{sectionID: "Annex 2", start: 300, end: 600},
	}

	drafts := assembleOverlap(doc, pieces, 50)
	if drafts[1].OverlapLen != 0 {
		t.Errorf("chunk opening a new section carried %d bytes of foreign overlap", drafts[1].OverlapLen)
	}
	if strings.Contains(drafts[1].Text, "a") {
		t.Error("second section's text contains first section's characters")
	}
}

func TestAssembleOverlap_ShortPreviousChunkDegenerates(t *testing.T) {
	text := "tiny." + strings.Repeat("b", 200)
	doc := docFromText(text)
	pieces := []piece{
		{sectionID: "s", start: 0, end: 5},
		{sectionID: "s", start: 5, end: 205},
	}

	drafts := assembleOverlap(doc, pieces, 120)
	if drafts[1].OverlapLen != 5 {
		t.Fatalf("overlap len = %d, want whole previous chunk (5)", drafts[1].OverlapLen)
	}
	if !strings.HasPrefix(drafts[1].Text, "tiny.") {
		t.Error("degenerate overlap must be the whole previous chunk")
	}
}

func TestAssembleOverlap_ZeroOverlapConfigured(t *testing.T) {
	doc := docFromText(strings.Repeat("a", 100))
	pieces := []piece{
		{sectionID: "s", start: 0, end: 50},
		{sectionID: "s", start: 50, end: 100},
	}
	drafts := assembleOverlap(doc, pieces, 0)
	for i, d := range drafts {
		if d.OverlapLen != 0 {
			t.Errorf("chunk %d has overlap %d with overlap disabled", i, d.OverlapLen)
		}
	}
}

func TestTailBytes_SnapsToRuneBoundary(t *testing.T) {
	s := strings.Repeat("한", 10) // 3 bytes per rune
	tail := tailBytes(s, 4)
	if tail != "한" {
		t.Errorf("tail = %q, want a single whole rune", tail)
	}
}
