package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pharmadoc/regchunk/internal/chunker"
	"github.com/pharmadoc/regchunk/internal/extract"
	"github.com/pharmadoc/regchunk/internal/meta"
	"github.com/pharmadoc/regchunk/internal/record"
	"github.com/pharmadoc/regchunk/internal/regdoc"
)

// Warning kinds raised while processing a document. All are non-fatal.
const (
	WarnNoStructure        = "no_structure"
	WarnEmptyPages         = "empty_pages"
	WarnOversizedChunks    = "oversized_chunks"
	WarnMetadataUnresolved = "metadata_unresolved"
)

// Warning is one degraded-quality signal for a document.
type Warning struct {
	Doc    string `json:"doc"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// Result is the outcome of processing one document. Either Err is set
// and Chunks is empty, or the full chunk set is present: a partially
// processed document is never emitted.
type Result struct {
	Doc      string
	Chunks   []regdoc.Chunk
	Warnings []Warning
	Err      error
}

// Worker runs the per-document pipeline: extract, normalize, chunk,
// enrich, assemble. Workers hold no per-document state and may be
// shared across goroutines.
type Worker struct {
	chunkCfg chunker.Config
	metaOpts meta.Options
	log      *slog.Logger
}

// NewWorker creates a worker. Both configs must already be validated.
func NewWorker(chunkCfg chunker.Config, metaOpts meta.Options, log *slog.Logger) *Worker {
	return &Worker{chunkCfg: chunkCfg, metaOpts: metaOpts, log: log}
}

// ProcessFile runs the pipeline for one document on disk.
func (w *Worker) ProcessFile(ctx context.Context, path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return Result{Doc: path, Err: fmt.Errorf("open: %w", err)}
	}
	defer f.Close()
	return w.Process(ctx, path, f)
}

// Process runs the pipeline for one document supplied as a reader. The
// path is used for naming, metadata heuristics, and provenance lookup.
func (w *Worker) Process(ctx context.Context, path string, r io.Reader) Result {
	if err := ctx.Err(); err != nil {
		return Result{Doc: path, Err: err}
	}
	log := w.log.With("doc", path)

	ex, err := extract.ForFile(path)
	if err != nil {
		return Result{Doc: path, Err: err}
	}

	pages, err := ex.ExtractPages(r, filepath.Base(path))
	if err != nil {
		log.Warn("extraction failed", "error", err)
		return Result{Doc: path, Err: fmt.Errorf("extract: %w", err)}
	}

	pages = extract.NormalizePages(pages)

	emptyPages := 0
	hasText := false
	for _, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			emptyPages++
		} else {
			hasText = true
		}
	}
	if !hasText {
		log.Warn("no extractable text, possibly scanned", "pages", len(pages))
		return Result{Doc: path, Err: fmt.Errorf("no extractable text (%d pages)", len(pages))}
	}

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	doc := regdoc.New(path, title, pages)

	meta.Enrich(doc, w.metaOpts)

	drafts, stats := chunker.Chunk(doc, w.chunkCfg)
	chunks := record.Assemble(doc, DocID(path), drafts)

	var warnings []Warning
	if w.chunkCfg.Mode == chunker.ModeRegSection && !stats.Structured {
		warnings = append(warnings, Warning{Doc: path, Kind: WarnNoStructure,
			Detail: "no headings recognized, whole document is one section"})
	}
	if emptyPages > 0 {
		warnings = append(warnings, Warning{Doc: path, Kind: WarnEmptyPages,
			Detail: fmt.Sprintf("%d of %d pages had no text", emptyPages, len(pages))})
	}
	if stats.Oversized > 0 {
		warnings = append(warnings, Warning{Doc: path, Kind: WarnOversizedChunks,
			Detail: fmt.Sprintf("%d chunks exceed the target size", stats.Oversized)})
	}
	if missing := unresolvedFields(doc); len(missing) > 0 {
		warnings = append(warnings, Warning{Doc: path, Kind: WarnMetadataUnresolved,
			Detail: strings.Join(missing, ", ")})
	}

	log.Info("document chunked",
		"chunks", len(chunks),
		"sections", stats.Sections,
		"structured", stats.Structured,
		"warnings", len(warnings),
	)
	return Result{Doc: path, Chunks: chunks, Warnings: warnings}
}

func unresolvedFields(doc *regdoc.Document) []string {
	var missing []string
	if doc.Jurisdiction == nil {
		missing = append(missing, "jurisdiction")
	}
	if doc.DocDate == nil {
		missing = append(missing, "doc_date")
	}
	if doc.DocVersion == nil {
		missing = append(missing, "doc_version")
	}
	if doc.SourceURL == nil {
		missing = append(missing, "source_url")
	}
	return missing
}
