package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pharmadoc/regchunk/internal/api"
	"github.com/pharmadoc/regchunk/internal/config"
	"github.com/pharmadoc/regchunk/internal/meta"
	"github.com/pharmadoc/regchunk/internal/pipeline"
	"github.com/pharmadoc/regchunk/internal/record"
)

var version = "0.2.0"

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	rootCmd := &cobra.Command{
		Use:   "regchunk",
		Short: "Regulatory-guideline segmentation and enrichment engine",
		Long: `Regchunk splits regulatory guideline documents (PDF and friends)
into retrieval-sized chunks whose boundaries respect the document's own
structure: annexes, sections, numbered clauses. Each chunk carries
jurisdiction, date, version, source URL, and normative strength.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(chunkCmd(log))
	rootCmd.AddCommand(serveCmd(log))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func chunkCmd(log *slog.Logger) *cobra.Command {
	var (
		zipPath string
		dirPath string
	)

	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Chunk an archive or directory of documents into JSONL",
		Long: `Chunk every supported document under --zip or --dir and write one
JSON record per chunk to --out. Individual document failures are
reported in the summary and never abort the run; a non-zero exit is
reserved for configuration errors.

Example:
  regchunk chunk --zip data.zip --out chunks.jsonl \
    --chunk-by regsection --chunk-size 1400 --overlap 120 \
    --jurisdiction-from-path --source-map sources.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if (zipPath == "") == (dirPath == "") {
				return fmt.Errorf("exactly one of --zip or --dir is required")
			}
			return runChunk(cmd.Context(), cfg, zipPath, dirPath, log)
		},
	}

	cmd.Flags().StringVar(&zipPath, "zip", "", "path to a ZIP archive of documents")
	cmd.Flags().StringVar(&dirPath, "dir", "", "path to a directory of documents")
	addChunkFlags(cmd)
	cmd.Flags().String("workdir", "", "directory the archive is unpacked into")
	cmd.Flags().String("out", "", "output JSONL path")
	cmd.Flags().Int("workers", 0, "number of documents processed in parallel")
	return cmd
}

func serveCmd(log *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chunking pipeline as an HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cfg, log)
		},
	}
	addChunkFlags(cmd)
	cmd.Flags().String("port", "", "listen port")
	return cmd
}

// addChunkFlags registers the chunking and enrichment flags shared by
// both commands.
func addChunkFlags(cmd *cobra.Command) {
	cmd.Flags().String("chunk-by", "", "chunking mode: auto|paragraph|sentence|char|regsection")
	cmd.Flags().Int("chunk-size", 0, "target chunk size in characters")
	cmd.Flags().Int("overlap", -1, "overlap between adjacent chunks in characters")
	cmd.Flags().Bool("jurisdiction-from-path", false, "infer jurisdiction from folder names (EU/FDA/WHO/PIC/S/MFDS)")
	cmd.Flags().String("source-map", "", "JSONL/CSV provenance map: path|filename|stem -> {source_url, doc_date, doc_version}")
}

// loadConfig resolves env defaults, applies flag overrides, and
// validates once. Every error here is a configuration error.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("chunk-by"); v != "" {
		cfg.ChunkBy = v
	}
	if v, _ := flags.GetInt("chunk-size"); v != 0 {
		cfg.ChunkSize = v
	}
	if v, _ := flags.GetInt("overlap"); v >= 0 {
		cfg.Overlap = v
	}
	if v, _ := flags.GetBool("jurisdiction-from-path"); v {
		cfg.JurisdictionFromPath = true
	}
	if v, _ := flags.GetString("source-map"); v != "" {
		cfg.SourceMapPath = v
	}
	if f := flags.Lookup("workdir"); f != nil && f.Value.String() != "" {
		cfg.Workdir = f.Value.String()
	}
	if f := flags.Lookup("out"); f != nil && f.Value.String() != "" {
		cfg.OutPath = f.Value.String()
	}
	if f := flags.Lookup("workers"); f != nil {
		if v, _ := flags.GetInt("workers"); v > 0 {
			cfg.Workers = v
		}
	}
	if f := flags.Lookup("port"); f != nil && f.Value.String() != "" {
		cfg.Port = f.Value.String()
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadMetaOptions loads the optional provenance map. A map that cannot
// be parsed prevents any processing from starting.
func loadMetaOptions(cfg config.Config) (meta.Options, error) {
	opts := meta.Options{JurisdictionFromPath: cfg.JurisdictionFromPath}
	if cfg.SourceMapPath != "" {
		m, err := meta.LoadProvenanceMap(cfg.SourceMapPath)
		if err != nil {
			return meta.Options{}, err
		}
		opts.Provenance = m
	}
	return opts, nil
}

func runChunk(ctx context.Context, cfg config.Config, zipPath, dirPath string, log *slog.Logger) error {
	metaOpts, err := loadMetaOptions(cfg)
	if err != nil {
		return err
	}

	root := dirPath
	if zipPath != "" {
		log.Info("unpacking archive", "zip", zipPath, "workdir", cfg.Workdir)
		if err := pipeline.UnpackZip(zipPath, cfg.Workdir); err != nil {
			return err
		}
		root = cfg.Workdir
	}

	paths, err := pipeline.FindDocuments(root)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no supported documents found under %s", root)
	}
	log.Info("starting run", "documents", len(paths), "mode", cfg.ChunkBy, "workers", cfg.Workers)

	out, err := os.Create(cfg.OutPath)
	if err != nil {
		return fmt.Errorf("create output %s: %w", cfg.OutPath, err)
	}
	defer out.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := pipeline.NewWorker(cfg.ChunkerConfig(), metaOpts, log)
	writer := record.NewWriter(out)
	orch := pipeline.NewOrchestrator(worker, writer, cfg.Workers, log)

	summary, err := orch.Run(ctx, paths)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	log.Info("run complete",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"chunks", summary.Chunks,
		"warnings", len(summary.Warnings),
	)
	for _, f := range summary.Failures {
		log.Warn("document skipped", "doc", f.Doc, "reason", f.Reason)
	}
	for _, w := range summary.Warnings {
		log.Warn("document warning", "doc", w.Doc, "kind", w.Kind, "detail", w.Detail)
	}
	return nil
}

func runServe(cfg config.Config, log *slog.Logger) error {
	metaOpts, err := loadMetaOptions(cfg)
	if err != nil {
		return err
	}

	srv := api.NewServer(cfg, metaOpts, log)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting regchunk", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
