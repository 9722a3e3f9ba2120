package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pharmadoc/regchunk/internal/regdoc"
)

// piece is a candidate chunk before overlap assembly: a contiguous byte
// range of the document's full text tagged with its section identity.
// Pieces never rejoin or rewrite text, so concatenating a section's
// pieces reproduces the section body exactly.
type piece struct {
	sectionID    string
	sectionTitle string
	start, end   int
	oversized    bool
}

// splitStrategy yields cut offsets for one granularity of splitting.
// Offsets are relative to the given text, strictly increasing, and
// exclude 0 and len(text); each separator stays attached to the text
// before the cut.
type splitStrategy interface {
	name() string
	cuts(text string) []int
}

// paragraphStrategy cuts after blank lines.
type paragraphStrategy struct{}

func (paragraphStrategy) name() string { return "paragraph" }

func (paragraphStrategy) cuts(text string) []int {
	var out []int
	for i := 0; i+1 < len(text); i++ {
		if text[i] == '\n' && text[i+1] == '\n' {
			// Attach the whole blank-line run to the preceding unit.
			j := i + 2
			for j < len(text) && text[j] == '\n' {
				j++
			}
			if j < len(text) {
				out = append(out, j)
			}
			i = j - 1
		}
	}
	return out
}

// sentenceStrategy cuts after terminal punctuation followed by space.
type sentenceStrategy struct{}

var sentenceEndRe = regexp.MustCompile(`[.!?。！？][)\]"']*[ \n]`)

func (sentenceStrategy) name() string { return "sentence" }

func (sentenceStrategy) cuts(text string) []int {
	var out []int
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if loc[1] < len(text) {
			out = append(out, loc[1])
		}
	}
	return out
}

// charStrategy cuts fixed-width windows, snapped to rune boundaries.
type charStrategy struct {
	width int
}

func (charStrategy) name() string { return "char" }

func (c charStrategy) cuts(text string) []int {
	var out []int
	pos := 0
	for {
		next := pos + c.width
		if next >= len(text) {
			return out
		}
		for next > pos && !utf8.RuneStart(text[next]) {
			next--
		}
		if next == pos {
			return out
		}
		out = append(out, next)
		pos = next
	}
}

// strategiesFor returns the fallback chain for a chunking mode. Explicit
// single-granularity modes deliberately have no finer fallback: a unit
// that still overflows is emitted oversized.
func strategiesFor(mode Mode, size int) []splitStrategy {
	switch mode {
	case ModeParagraph:
		return []splitStrategy{paragraphStrategy{}}
	case ModeSentence:
		return []splitStrategy{sentenceStrategy{}}
	case ModeChar:
		return []splitStrategy{charStrategy{width: size}}
	default: // auto, regsection
		return []splitStrategy{paragraphStrategy{}, sentenceStrategy{}, charStrategy{width: size}}
	}
}

// cascade splits the [start,end) range of text into size-bounded pieces,
// trying each strategy in order and descending to the next finer one for
// any unit that still overflows. A range no strategy can divide is
// returned as a single oversized piece rather than corrupted.
func cascade(text string, start, end, size int, strategies []splitStrategy) []piece {
	if end-start <= size {
		return []piece{{start: start, end: end}}
	}
	if len(strategies) == 0 {
		return []piece{{start: start, end: end, oversized: true}}
	}

	cuts := strategies[0].cuts(text[start:end])
	if len(cuts) == 0 {
		return cascade(text, start, end, size, strategies[1:])
	}

	// Greedily pack adjacent units up to the size bound.
	var out []piece
	bounds := append(cuts, end-start)
	unitStart := start
	packStart := start
	for _, rel := range bounds {
		unitEnd := start + rel
		if unitEnd-packStart > size && packStart < unitStart {
			out = append(out, refine(text, packStart, unitStart, size, strategies)...)
			packStart = unitStart
		}
		unitStart = unitEnd
	}
	out = append(out, refine(text, packStart, end, size, strategies)...)
	return out
}

// refine re-checks a packed range: within bound it is final, otherwise it
// descends to the next finer strategy.
func refine(text string, start, end, size int, strategies []splitStrategy) []piece {
	if end-start <= size {
		return []piece{{start: start, end: end}}
	}
	return cascade(text, start, end, size, strategies[1:])
}

// Sub-item markers open second-pass units inside an oversized section:
// (1), (a), 1. and similar enumerations at line start.
var subItemRe = regexp.MustCompile(`^(\(\d+\)|\([a-zA-Z]\)|\d+\.)\s+\S`)

type subItem struct {
	suffix     string
	start, end int
}

// splitSubItems divides a span body into its enumerated sub-items. The
// first unit (heading line plus any lead-in text) carries no suffix. A
// result of one unit means no markers were found.
func splitSubItems(text string, start, end int) []subItem {
	var items []subItem
	cur := subItem{start: start}

	offset := start
	for offset < end {
		lineEnd := strings.IndexByte(text[offset:end], '\n')
		var next int
		var line string
		if lineEnd < 0 {
			line = text[offset:end]
			next = end
		} else {
			line = text[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		}

		if m := subItemRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if offset == start {
				// Span opens directly on a marker line.
				cur.suffix = markerSuffix(m[1])
			} else {
				cur.end = offset
				if cur.end > cur.start {
					items = append(items, cur)
				}
				cur = subItem{suffix: markerSuffix(m[1]), start: offset}
			}
		}
		offset = next
	}
	cur.end = end
	if cur.end > cur.start {
		items = append(items, cur)
	}
	return items
}

// markerSuffix normalizes a sub-item marker into a section-id suffix:
// "(1)" and "(a)" keep their parenthesized form, "3." becomes ".3".
func markerSuffix(marker string) string {
	if strings.HasPrefix(marker, "(") {
		return marker
	}
	return "." + strings.TrimSuffix(marker, ".")
}

// splitSpan turns one section span into size-bounded pieces. Oversized
// spans are first divided along sub-item markers; sub-items inherit the
// parent id with an appended suffix and each is refined through the
// strategy cascade, strictly within its own character range.
func splitSpan(doc *regdoc.Document, span regdoc.SectionSpan, size int, strategies []splitStrategy, subItems bool) []piece {
	text := doc.FullText
	if span.End-span.Start <= size {
		return tag([]piece{{start: span.Start, end: span.End}}, span.ID, span.Title)
	}

	if !subItems {
		return tag(cascade(text, span.Start, span.End, size, strategies), span.ID, span.Title)
	}

	items := splitSubItems(text, span.Start, span.End)
	if len(items) <= 1 {
		return tag(cascade(text, span.Start, span.End, size, strategies), span.ID, span.Title)
	}

	var out []piece
	suffixSeen := map[string]int{}
	for _, it := range items {
		id := span.ID
		if it.suffix != "" {
			id = span.ID + it.suffix
			suffixSeen[id]++
			if n := suffixSeen[id]; n > 1 {
				id = fmt.Sprintf("%s#%d", id, n)
			}
		}
		out = append(out, tag(cascade(text, it.start, it.end, size, strategies), id, span.Title)...)
	}
	return out
}

func tag(pieces []piece, id, title string) []piece {
	for i := range pieces {
		pieces[i].sectionID = id
		pieces[i].sectionTitle = title
	}
	return pieces
}
