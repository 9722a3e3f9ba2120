package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pharmadoc/regchunk/internal/record"
)

// Failure records a document that contributed no chunks.
type Failure struct {
	Doc    string `json:"doc"`
	Reason string `json:"reason"`
}

// Summary is the final run report: how many documents made it through,
// how many were skipped, and every warning raised along the way.
// Document-level failures never abort the run.
type Summary struct {
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Chunks    int       `json:"chunks"`
	Warnings  []Warning `json:"warnings,omitempty"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Orchestrator fans documents out to a bounded set of workers. Each
// document is independent, so the only shared state is the output
// writer and the summary, both mutex-guarded.
type Orchestrator struct {
	worker  *Worker
	writer  *record.Writer
	workers int
	log     *slog.Logger
}

// NewOrchestrator wires a worker to an output writer with the given
// parallelism.
func NewOrchestrator(worker *Worker, writer *record.Writer, workers int, log *slog.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{worker: worker, writer: writer, workers: workers, log: log}
}

// Run processes every path and returns the run summary. A document
// either contributes its complete chunk set or is recorded as a
// failure; cancellation stops submitting new documents and lets
// in-flight ones finish. Only output-write errors are returned.
func (o *Orchestrator) Run(ctx context.Context, paths []string) (Summary, error) {
	var mu sync.Mutex
	var summary Summary

	g := &errgroup.Group{}
	g.SetLimit(o.workers)

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := o.worker.ProcessFile(ctx, path)
			if res.Err != nil {
				mu.Lock()
				summary.Skipped++
				summary.Failures = append(summary.Failures, Failure{Doc: path, Reason: res.Err.Error()})
				mu.Unlock()
				return nil
			}
			if err := o.writer.WriteDocument(res.Chunks); err != nil {
				return err
			}
			mu.Lock()
			summary.Processed++
			summary.Chunks += len(res.Chunks)
			summary.Warnings = append(summary.Warnings, res.Warnings...)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return summary, err
}
