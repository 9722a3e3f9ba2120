package chunker

import (
	"unicode/utf8"

	"github.com/pharmadoc/regchunk/internal/regdoc"
)

// Draft is a chunk after overlap assembly but before metadata
// enrichment: final text plus the provenance of its core range.
type Draft struct {
	SectionID    string
	SectionTitle string
	Text         string
	Start, End   int // core text range in the document's FullText
	OverlapLen   int // bytes of duplicated prefix from the previous chunk
	Oversized    bool
}

// assembleOverlap turns ordered pieces into drafts, prepending up to
// overlap bytes of the previous chunk's text to every chunk after the
// first within the same section. Overlap never crosses a section id
// boundary, so sub-item splits keep their clause isolation. When the
// previous chunk is shorter than the overlap window, the whole previous
// chunk is duplicated.
func assembleOverlap(doc *regdoc.Document, pieces []piece, overlap int) []Draft {
	drafts := make([]Draft, 0, len(pieces))
	for i, p := range pieces {
		core := doc.FullText[p.start:p.end]
		d := Draft{
			SectionID:    p.sectionID,
			SectionTitle: p.sectionTitle,
			Text:         core,
			Start:        p.start,
			End:          p.end,
			Oversized:    p.oversized,
		}
		if overlap > 0 && i > 0 && pieces[i-1].sectionID == p.sectionID {
			prev := doc.FullText[pieces[i-1].start:pieces[i-1].end]
			tail := tailBytes(prev, overlap)
			d.Text = tail + core
			d.OverlapLen = len(tail)
		}
		drafts = append(drafts, d)
	}
	return drafts
}

// tailBytes returns the last n bytes of s, snapped forward to a rune
// boundary so multi-byte characters are never torn.
func tailBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}
