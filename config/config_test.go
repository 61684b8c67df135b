package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ParagraphMarker != "[PARAGRAPH BREAK]" {
		t.Errorf("expected default marker, got %q", cfg.ParagraphMarker)
	}
	if cfg.Abbreviations.Path != "abbreviations.txt" {
		t.Errorf("expected abbreviations.txt, got %q", cfg.Abbreviations.Path)
	}
	if cfg.Workers != 1 {
		t.Errorf("expected Workers=1, got %d", cfg.Workers)
	}
	if !cfg.Output.CRLF {
		t.Error("expected CRLF output by default")
	}
	if cfg.Bench.Tolerance != 3 {
		t.Errorf("expected Tolerance=3, got %d", cfg.Bench.Tolerance)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/sentsplit.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sentsplit.yaml")

	content := `
abbreviations:
  path: abbr.txt
  extra: [Fig, Eq]
paragraph_marker: "<p>"
workers: 4
output:
  format: parquet
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Abbreviations.Path != "abbr.txt" {
		t.Errorf("expected abbr.txt, got %q", cfg.Abbreviations.Path)
	}
	if len(cfg.Abbreviations.Extra) != 2 {
		t.Errorf("expected 2 extra abbreviations, got %v", cfg.Abbreviations.Extra)
	}
	if cfg.ParagraphMarker != "<p>" {
		t.Errorf("expected marker <p>, got %q", cfg.ParagraphMarker)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Workers)
	}
	if cfg.Output.Format != "parquet" {
		t.Errorf("expected parquet, got %q", cfg.Output.Format)
	}
	// Untouched sections keep their defaults.
	if cfg.Bench.Tolerance != 3 {
		t.Errorf("expected default Tolerance=3, got %d", cfg.Bench.Tolerance)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sentsplit.yaml")
	if err := os.WriteFile(configPath, []byte("workers: [not an int"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".sentsplit"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".sentsplit", "config.yaml")
	if err := os.WriteFile(configPath, []byte("workers: 8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected Workers=8, got %d", cfg.Workers)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentsplit.yaml")

	cfg := DefaultConfig()
	cfg.ParagraphMarker = "##"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.ParagraphMarker != "##" {
		t.Errorf("expected marker ##, got %q", loaded.ParagraphMarker)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SENTSPLIT_ABBREVIATIONS", "/tmp/abbr.txt")
	t.Setenv("SENTSPLIT_WORKERS", "6")
	t.Setenv("SENTSPLIT_CACHE_PATH", "/tmp/cache.db")
	t.Setenv("SENTSPLIT_LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Abbreviations.Path != "/tmp/abbr.txt" {
		t.Errorf("Abbreviations.Path = %q", cfg.Abbreviations.Path)
	}
	if cfg.Workers != 6 {
		t.Errorf("Workers = %d, want 6", cfg.Workers)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Path != "/tmp/cache.db" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if level, _ := cfg.Logging.SlogLevel(); level != slog.LevelWarn {
		t.Errorf("level = %v, want warn", level)
	}
}

func TestApplyEnv_InvalidWorkers(t *testing.T) {
	t.Setenv("SENTSPLIT_WORKERS", "many")

	err := DefaultConfig().ApplyEnv()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("SENTSPLIT_TEST_DOTENV=loaded\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("SENTSPLIT_TEST_DOTENV") })

	if err := LoadDotEnv(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("SENTSPLIT_TEST_DOTENV"); got != "loaded" {
		t.Errorf("SENTSPLIT_TEST_DOTENV = %q, want loaded", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unicode form", func(c *Config) { c.UnicodeForm = "nfd" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"output format", func(c *Config) { c.Output.Format = "xlsx" }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"tolerance", func(c *Config) { c.Bench.Tolerance = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadAbbreviations(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Abbreviations.Path = filepath.Join(dir, "missing.txt")
	cfg.Abbreviations.Extra = []string{"Fig"}

	set, err := cfg.LoadAbbreviations(nil)
	if err != nil {
		t.Fatalf("LoadAbbreviations() error = %v", err)
	}
	if !set.Contains("Fig") || !set.Contains("Dr") {
		t.Errorf("expected defaults plus Fig, got %v", set.Entries())
	}
}
