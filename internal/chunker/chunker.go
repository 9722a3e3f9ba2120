// Package chunker splits a document's text into retrieval-sized chunks.
// In regsection mode boundaries follow the document's own structural
// hierarchy (annexes, sections, numbered clauses); the other modes are
// the legacy structure-free path for non-regulatory input.
package chunker

import (
	"fmt"
	"strings"

	"github.com/pharmadoc/regchunk/internal/regdoc"
)

// Mode selects the chunking strategy.
type Mode string

const (
	ModeAuto       Mode = "auto"
	ModeParagraph  Mode = "paragraph"
	ModeSentence   Mode = "sentence"
	ModeChar       Mode = "char"
	ModeRegSection Mode = "regsection"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAuto, ModeParagraph, ModeSentence, ModeChar, ModeRegSection:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown chunking mode %q (want auto|paragraph|sentence|char|regsection)", s)
}

// Config controls chunking behavior. Defaults and validation happen at
// construction time; deep call paths never default silently.
type Config struct {
	Mode      Mode
	ChunkSize int // target chunk size in characters
	Overlap   int // duplicated context between adjacent chunks, in characters
	Patterns  *PatternTable
}

// DefaultConfig returns the recommended settings for regulatory PDFs.
func DefaultConfig() Config {
	return Config{
		Mode:      ModeRegSection,
		ChunkSize: 1400,
		Overlap:   120,
		Patterns:  DefaultPatternTable(),
	}
}

// Validate rejects configurations that cannot produce correct chunks.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("overlap must be non-negative, got %d", c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("overlap (%d) must be smaller than chunk size (%d)", c.Overlap, c.ChunkSize)
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Patterns == nil {
		return fmt.Errorf("pattern table is required")
	}
	return nil
}

// Stats reports non-fatal signals raised while chunking one document.
type Stats struct {
	Structured bool // false when no headings were recognized
	Sections   int
	Oversized  int // chunks that could not be split below the target size
}

// Chunk runs the document through the selected pipeline and returns its
// drafts in emission order. The same document and config always produce
// the same drafts; nothing is cached between calls.
func Chunk(doc *regdoc.Document, cfg Config) ([]Draft, Stats) {
	var spans []regdoc.SectionSpan
	var stats Stats

	if cfg.Mode == ModeRegSection {
		spans, stats.Structured = DetectSections(doc, cfg.Patterns)
	} else {
		// Legacy path: the whole document is one implicit section.
		spans = []regdoc.SectionSpan{{ID: regdoc.RootSectionID, Start: 0, End: len(doc.FullText)}}
		stats.Structured = false
	}

	strategies := strategiesFor(cfg.Mode, cfg.ChunkSize)

	var pieces []piece
	for _, span := range spans {
		if strings.TrimSpace(span.Body(doc)) == "" {
			continue
		}
		pieces = append(pieces, splitSpan(doc, span, cfg.ChunkSize, strategies, cfg.Mode == ModeRegSection)...)
	}
	stats.Sections = len(spans)

	drafts := assembleOverlap(doc, pieces, cfg.Overlap)
	for _, d := range drafts {
		if d.Oversized {
			stats.Oversized++
		}
	}
	return drafts, stats
}
