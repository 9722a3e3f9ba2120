package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pharmadoc/regchunk/internal/regdoc"
)

// HeadingPattern recognizes one family of section headings. Depth orders
// patterns when several match the same line: the deepest (most specific)
// wins. Format derives the section id and title from the submatches.
type HeadingPattern struct {
	Name   string
	Depth  int
	Re     *regexp.Regexp
	Format func(m []string) (id, title string)
}

// PatternTable is the immutable set of heading patterns consulted by the
// detector. Build it once at startup and share it across documents.
type PatternTable struct {
	patterns []HeadingPattern
}

// NewPatternTable copies the given patterns into an immutable table.
func NewPatternTable(patterns []HeadingPattern) *PatternTable {
	cp := make([]HeadingPattern, len(patterns))
	copy(cp, patterns)
	return &PatternTable{patterns: cp}
}

// DefaultPatternTable covers the heading conventions of the major
// regulatory bodies: EU GMP annexes, FDA CFR-style sections, ICH dotted
// clauses, and Korean statutory articles.
func DefaultPatternTable() *PatternTable {
	return NewPatternTable([]HeadingPattern{
		{
			Name:  "structural",
			Depth: 1,
			Re:    regexp.MustCompile(`(?i)^(Annex|Appendix|Part|Chapter|Section|Clause)\s+([\w.\-]+)\b\s*(.*)$`),
			Format: func(m []string) (string, string) {
				word := strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:])
				return word + " " + m[2], strings.TrimSpace(m[3])
			},
		},
		{
			Name:  "article",
			Depth: 1,
			Re:    regexp.MustCompile(`(?i)^Article\s+(\d+[a-zA-Z]?)\b\s*(.*)$`),
			Format: func(m []string) (string, string) {
				return "Article " + m[1], strings.TrimSpace(m[2])
			},
		},
		{
			Name:  "korean-clause",
			Depth: 1,
			Re:    regexp.MustCompile(`^제\s*(\d+)\s*(장|절|조)\s*(.*)$`),
			Format: func(m []string) (string, string) {
				return "제" + m[1] + m[2], strings.TrimSpace(m[3])
			},
		},
		{
			Name:  "silcrow",
			Depth: 2,
			Re:    regexp.MustCompile(`^§\s*([\d.]+)\b\s*(.*)$`),
			Format: func(m []string) (string, string) {
				return "§" + m[1], strings.TrimSpace(m[2])
			},
		},
		{
			Name:  "dotted-clause",
			Depth: 2,
			Re:    regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)+)\s+(\S.*)$`),
			Format: func(m []string) (string, string) {
				return m[1], strings.TrimSpace(m[2])
			},
		},
	})
}

// Match finds the heading pattern matching a line, if any. When several
// patterns match, the one with the highest depth wins; among equal
// depths, table order decides.
func (t *PatternTable) Match(line string) (id, title string, depth int, ok bool) {
	best := -1
	for _, p := range t.patterns {
		m := p.Re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if p.Depth > best {
			best = p.Depth
			id, title = p.Format(m)
			depth = p.Depth
			ok = true
		}
	}
	return id, title, depth, ok
}

// DetectSections scans a document's full text line by line and emits the
// ordered list of section spans. Spans are contiguous, non-overlapping,
// and cover the whole text; text before the first heading becomes a
// synthetic preamble span at depth 0. The second return value is false
// when no headings were recognized anywhere: the whole document is then
// one span with the root section id (a degraded-structure signal, not an
// error).
func DetectSections(doc *regdoc.Document, table *PatternTable) ([]regdoc.SectionSpan, bool) {
	text := doc.FullText
	var spans []regdoc.SectionSpan

	cur := regdoc.SectionSpan{ID: regdoc.PreambleSectionID, Depth: 0, Start: 0}
	opened := false
	found := false

	flush := func(end int) {
		if end <= cur.Start {
			return
		}
		cur.End = end
		spans = append(spans, cur)
	}

	offset := 0
	for offset <= len(text) {
		lineEnd := strings.IndexByte(text[offset:], '\n')
		var next int
		var line string
		if lineEnd < 0 {
			line = text[offset:]
			next = len(text) + 1
		} else {
			line = text[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		}

		if id, title, depth, ok := table.Match(strings.TrimSpace(line)); ok {
			if opened || offset > 0 {
				flush(offset)
			}
			cur = regdoc.SectionSpan{ID: id, Title: title, Depth: depth, Start: offset}
			opened = true
			found = true
		}
		offset = next
	}
	flush(len(text))

	if !found {
		return []regdoc.SectionSpan{{
			ID:    regdoc.RootSectionID,
			Depth: 0,
			Start: 0,
			End:   len(text),
		}}, false
	}

	// Collapse duplicate ids from repeated headings so downstream
	// section grouping stays unambiguous.
	seen := map[string]int{}
	for i := range spans {
		seen[spans[i].ID]++
		if n := seen[spans[i].ID]; n > 1 {
			spans[i].ID = fmt.Sprintf("%s#%d", spans[i].ID, n)
		}
	}
	return spans, true
}
