// Package config resolves all runtime settings in one place: .env file,
// environment, then flag overrides applied by the CLI. Nothing deeper
// in the pipeline defaults silently.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/pharmadoc/regchunk/internal/chunker"
)

type Config struct {
	// Chunking
	ChunkBy   string `env:"REGCHUNK_CHUNK_BY" envDefault:"regsection"`
	ChunkSize int    `env:"REGCHUNK_CHUNK_SIZE" envDefault:"1400"`
	Overlap   int    `env:"REGCHUNK_OVERLAP" envDefault:"120"`

	// Metadata enrichment
	JurisdictionFromPath bool   `env:"REGCHUNK_JURISDICTION_FROM_PATH" envDefault:"false"`
	SourceMapPath        string `env:"REGCHUNK_SOURCE_MAP"`

	// Batch run
	Workers int    `env:"REGCHUNK_WORKERS" envDefault:"4"`
	Workdir string `env:"REGCHUNK_WORKDIR" envDefault:"./work"`
	OutPath string `env:"REGCHUNK_OUT" envDefault:"./chunks.jsonl"`

	// Serve mode
	Port           string `env:"REGCHUNK_PORT" envDefault:"8090"`
	APIKey         string `env:"REGCHUNK_API_KEY"`
	MaxUploadBytes int64  `env:"REGCHUNK_MAX_UPLOAD_BYTES" envDefault:"52428800"` // 50MB
}

// Load reads an optional .env file and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings that would prevent any processing from
// starting. Everything checked here is a configuration error.
func (c Config) Validate() error {
	if _, err := chunker.ParseMode(c.ChunkBy); err != nil {
		return err
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("overlap must be non-negative, got %d", c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("overlap (%d) must be smaller than chunk size (%d)", c.Overlap, c.ChunkSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// ChunkerConfig builds the validated chunker configuration, including
// the shared immutable heading pattern table.
func (c Config) ChunkerConfig() chunker.Config {
	return chunker.Config{
		Mode:      chunker.Mode(c.ChunkBy),
		ChunkSize: c.ChunkSize,
		Overlap:   c.Overlap,
		Patterns:  chunker.DefaultPatternTable(),
	}
}
