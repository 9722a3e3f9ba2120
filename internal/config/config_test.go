package config

import (
	"testing"

	"github.com/pharmadoc/regchunk/internal/chunker"
)

func validConfig() Config {
	return Config{
		ChunkBy:        "regsection",
		ChunkSize:      1400,
		Overlap:        120,
		Workers:        4,
		MaxUploadBytes: 1 << 20,
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ChunkBy != "regsection" {
		t.Errorf("chunk_by default = %q", cfg.ChunkBy)
	}
	if cfg.ChunkSize != 1400 || cfg.Overlap != 120 {
		t.Errorf("size/overlap defaults = %d/%d", cfg.ChunkSize, cfg.Overlap)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers default = %d", cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("REGCHUNK_CHUNK_BY", "sentence")
	t.Setenv("REGCHUNK_CHUNK_SIZE", "800")
	t.Setenv("REGCHUNK_JURISDICTION_FROM_PATH", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ChunkBy != "sentence" || cfg.ChunkSize != 800 {
		t.Errorf("env override not applied: %+v", cfg)
	}
	if !cfg.JurisdictionFromPath {
		t.Error("jurisdiction flag not applied")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown mode", func(c *Config) { c.ChunkBy = "tokens" }, true},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, true},
		{"negative overlap", func(c *Config) { c.Overlap = -1 }, true},
		{"overlap equals size", func(c *Config) { c.Overlap = c.ChunkSize }, true},
		{"overlap exceeds size", func(c *Config) { c.Overlap = c.ChunkSize + 1 }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }, true},
		{"zero overlap ok", func(c *Config) { c.Overlap = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("want error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestChunkerConfig(t *testing.T) {
	cfg := validConfig()
	cc := cfg.ChunkerConfig()
	if cc.Mode != chunker.ModeRegSection {
		t.Errorf("mode = %q", cc.Mode)
	}
	if cc.ChunkSize != 1400 || cc.Overlap != 120 {
		t.Errorf("size/overlap = %d/%d", cc.ChunkSize, cc.Overlap)
	}
	if cc.Patterns == nil {
		t.Error("pattern table not set")
	}
	if err := cc.Validate(); err != nil {
		t.Errorf("chunker config does not validate: %v", err)
	}
}
