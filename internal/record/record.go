// Package record assembles final chunk records and serializes them as
// JSON lines.
package record

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/pharmadoc/regchunk/internal/chunker"
	"github.com/pharmadoc/regchunk/internal/meta"
	"github.com/pharmadoc/regchunk/internal/regdoc"
)

// Assemble combines a document's resolved metadata with its chunk drafts
// into output records. chunk_index is contiguous from zero in draft
// order; ids are document-scoped.
func Assemble(doc *regdoc.Document, docID string, drafts []chunker.Draft) []regdoc.Chunk {
	chunks := make([]regdoc.Chunk, 0, len(drafts))
	for i, d := range drafts {
		pageStart, pageEnd := doc.PageRange(d.Start, d.End)
		var sectionTitle *string
		if d.SectionTitle != "" {
			t := d.SectionTitle
			sectionTitle = &t
		}
		chunks = append(chunks, regdoc.Chunk{
			ID:                fmt.Sprintf("%s-%04d", docID, i),
			DocID:             docID,
			SourcePath:        doc.SourcePath,
			Title:             doc.Title,
			Jurisdiction:      doc.Jurisdiction,
			DocDate:           doc.DocDate,
			DocVersion:        doc.DocVersion,
			SourceURL:         doc.SourceURL,
			SectionID:         d.SectionID,
			SectionTitle:      sectionTitle,
			NormativeStrength: string(meta.Classify(d.Text)),
			PageStart:         pageStart,
			PageEnd:           pageEnd,
			ChunkIndex:        i,
			Text:              d.Text,
			Oversized:         d.Oversized,
			OverlapLen:        d.OverlapLen,
		})
	}
	return chunks
}

// Writer emits one JSON object per line. WriteDocument holds the lock
// for a whole document so records of concurrently processed documents
// never interleave; within a document, write order is chunk_index order.
type Writer struct {
	mu      sync.Mutex
	enc     *json.Encoder
	written int
}

// NewWriter wraps an io.Writer for JSONL output.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc}
}

// WriteDocument serializes one document's chunks.
func (w *Writer) WriteDocument(chunks []regdoc.Chunk) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range chunks {
		if err := w.enc.Encode(&chunks[i]); err != nil {
			return fmt.Errorf("encode chunk %s: %w", chunks[i].ID, err)
		}
	}
	w.written += len(chunks)
	return nil
}

// Written returns the total number of records emitted so far.
func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}
