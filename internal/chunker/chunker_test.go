package chunker

import (
	"strings"
	"testing"

	"github.com/pharmadoc/regchunk/internal/regdoc"
)

func regConfig(size, overlap int) Config {
	return Config{
		Mode:      ModeRegSection,
		ChunkSize: size,
		Overlap:   overlap,
		Patterns:  DefaultPatternTable(),
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"zero chunk size", regConfig(0, 0), true},
		{"negative overlap", regConfig(1400, -1), true},
		{"overlap equals size", regConfig(100, 100), true},
		{"overlap exceeds size", regConfig(100, 200), true},
		{"bad mode", Config{Mode: "clauses", ChunkSize: 100, Patterns: DefaultPatternTable()}, true},
		{"missing patterns", Config{Mode: ModeRegSection, ChunkSize: 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// Two annex sections must never contribute characters to the same chunk,
// whatever the size and overlap settings.
func TestChunk_AnnexBoundariesNeverMix(t *testing.T) {
	annex1 := "Annex 1 Sterile Products\n" + strings.TrimSpace(strings.Repeat("Sterile body sentence one. ", 120))
	annex2 := "Annex 2 Biological Substances\n" + strings.TrimSpace(strings.Repeat("Biological body sentence two. ", 120))
	doc := docFromText(annex1 + "\n" + annex2)

	drafts, stats := Chunk(doc, regConfig(1400, 120))
	if !stats.Structured {
		t.Fatal("expected structured document")
	}
	if len(drafts) < 4 {
		t.Fatalf("expected both annexes to split, got %d chunks", len(drafts))
	}
	for i, d := range drafts {
		fromA1 := strings.Contains(d.Text, "Sterile body")
		fromA2 := strings.Contains(d.Text, "Biological body")
		if fromA1 && fromA2 {
			t.Errorf("chunk %d (%s) mixes Annex 1 and Annex 2 content", i, d.SectionID)
		}
		if fromA2 && strings.HasPrefix(d.SectionID, "Annex 1") {
			t.Errorf("chunk %d carries Annex 2 text under id %s", i, d.SectionID)
		}
	}
}

// An oversized section enumerated with (1)/(2)/(3) splits along those
// markers first; sub-chunks inherit the parent id with a suffix.
func TestChunk_SubItemMarkersSplitFirst(t *testing.T) {
	item := func(n string) string {
		return "(" + n + ") " + strings.TrimSpace(strings.Repeat("Requirement detail sentence. ", 33)) // ~950 bytes
	}
	section := "Section 4 Premises\n" + item("1") + "\n" + item("2") + "\n" + item("3")
	doc := docFromText(section)

	drafts, _ := Chunk(doc, regConfig(1400, 120))

	var ids []string
	for _, d := range drafts {
		ids = append(ids, d.SectionID)
		if len(d.Text)-d.OverlapLen > 1400 && !d.Oversized {
			t.Errorf("chunk %s core is %d bytes over the bound and unflagged", d.SectionID, len(d.Text)-d.OverlapLen)
		}
	}
	want := map[string]bool{"Section 4(1)": false, "Section 4(2)": false, "Section 4(3)": false}
	for _, id := range ids {
		if _, ok := want[id]; ok {
			want[id] = true
		}
	}
	for id, seen := range want {
		if !seen {
			t.Errorf("expected a chunk with section id %q, got %v", id, ids)
		}
	}
}

// Stripping each chunk's duplicated overlap prefix and concatenating
// per section reproduces the section body exactly.
func TestChunk_RoundTripReconstruction(t *testing.T) {
	body1 := strings.TrimSpace(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 80))
	body2 := strings.TrimSpace(strings.Repeat("Pack my box with five dozen liquor jugs. ", 60))
	text := "Annex 1 First\n" + body1 + "\nAnnex 2 Second\n" + body2
	doc := docFromText(text)

	drafts, _ := Chunk(doc, regConfig(500, 80))

	rebuilt := map[string]*strings.Builder{}
	var order []string
	for _, d := range drafts {
		b, ok := rebuilt[d.SectionID]
		if !ok {
			b = &strings.Builder{}
			rebuilt[d.SectionID] = b
			order = append(order, d.SectionID)
		}
		b.WriteString(d.Text[d.OverlapLen:])
	}

	var whole strings.Builder
	for _, id := range order {
		whole.WriteString(rebuilt[id].String())
	}
	if whole.String() != text {
		t.Error("overlap-stripped concatenation does not reproduce the document")
	}
}

func TestChunk_LegacyModesUseRootSection(t *testing.T) {
	text := "Annex 1 Sterile Products\n" + strings.Repeat("Body sentence here. ", 100)
	doc := docFromText(strings.TrimSpace(text))

	for _, mode := range []Mode{ModeAuto, ModeParagraph, ModeSentence, ModeChar} {
		cfg := Config{Mode: mode, ChunkSize: 600, Overlap: 60, Patterns: DefaultPatternTable()}
		drafts, stats := Chunk(doc, cfg)
		if stats.Structured {
			t.Errorf("mode %s must bypass section detection", mode)
		}
		if len(drafts) == 0 {
			t.Fatalf("mode %s produced no chunks", mode)
		}
		for _, d := range drafts {
			if d.SectionID != regdoc.RootSectionID {
				t.Errorf("mode %s chunk has section id %q, want %q", mode, d.SectionID, regdoc.RootSectionID)
			}
		}
	}
}

func TestChunk_SmallDocumentSingleChunk(t *testing.T) {
	doc := docFromText("Annex 1 Sterile Products\nShort body.")
	drafts, _ := Chunk(doc, regConfig(1400, 120))
	if len(drafts) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(drafts))
	}
	if drafts[0].OverlapLen != 0 {
		t.Error("single chunk must carry no overlap")
	}
}

func TestChunk_EmptyDocument(t *testing.T) {
	doc := docFromText("")
	drafts, _ := Chunk(doc, regConfig(1400, 120))
	if len(drafts) != 0 {
		t.Fatalf("expected no chunks for empty text, got %d", len(drafts))
	}
}
