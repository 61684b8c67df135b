// Package config holds file- and environment-based settings for the
// sentsplit command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/go-sentsplit/abbrev"
	"github.com/jamesainslie/go-sentsplit/normalize"
	"github.com/jamesainslie/go-sentsplit/output"
)

// ErrInvalidConfig indicates a setting with an unusable value.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds all configuration for the sentsplit tool.
type Config struct {
	Abbreviations   AbbreviationsConfig `yaml:"abbreviations"`
	ParagraphMarker string              `yaml:"paragraph_marker"`
	UnicodeForm     string              `yaml:"unicode_form"` // "", "nfc", "nfkc"
	Workers         int                 `yaml:"workers"`
	Output          OutputConfig        `yaml:"output"`
	Batch           BatchConfig         `yaml:"batch"`
	Cache           CacheConfig         `yaml:"cache"`
	Bench           BenchConfig         `yaml:"bench"`
	Logging         LoggingConfig       `yaml:"logging"`
}

// AbbreviationsConfig selects the abbreviation list.
type AbbreviationsConfig struct {
	Path  string   `yaml:"path"`  // one entry per line; defaults used if missing
	Extra []string `yaml:"extra"` // merged on top of the file or defaults
}

// OutputConfig controls row encoding.
type OutputConfig struct {
	Format string `yaml:"format"` // empty means infer from the output path
	CRLF   bool   `yaml:"crlf"`
}

// BatchConfig controls directory processing.
type BatchConfig struct {
	Includes    []string `yaml:"includes"`
	Excludes    []string `yaml:"excludes"`
	FileWorkers int      `yaml:"file_workers"`
	Progress    bool     `yaml:"progress"`
}

// CacheConfig controls the segmentation result cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// BenchConfig holds evaluation defaults.
type BenchConfig struct {
	Tolerance       int     `yaml:"tolerance"`
	PrecisionWeight float64 `yaml:"precision_weight"`
	RecallWeight    float64 `yaml:"recall_weight"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Abbreviations: AbbreviationsConfig{
			Path: "abbreviations.txt",
		},
		ParagraphMarker: "[PARAGRAPH BREAK]",
		Workers:         1,
		Output: OutputConfig{
			CRLF: true,
		},
		Batch: BatchConfig{
			Includes:    []string{"**/*.txt"},
			Excludes:    []string{"**/.git/**", "**/.sentsplit/**"},
			FileWorkers: 4,
			Progress:    true,
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    filepath.Join(".sentsplit", "cache.db"),
		},
		Bench: BenchConfig{
			Tolerance:       3,
			PrecisionWeight: 1.0,
			RecallWeight:    1.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir looks for sentsplit.yaml, then .sentsplit/config.yaml.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "sentsplit.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".sentsplit", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDotEnv loads environment files (default ".env"). Missing files are
// ignored; existing variables are not overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from SENTSPLIT_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("SENTSPLIT_ABBREVIATIONS"); ok {
		c.Abbreviations.Path = v
	}
	if v, ok := os.LookupEnv("SENTSPLIT_PARAGRAPH_MARKER"); ok && v != "" {
		c.ParagraphMarker = v
	}
	if v, ok := os.LookupEnv("SENTSPLIT_UNICODE_FORM"); ok {
		c.UnicodeForm = v
	}
	if v, ok := os.LookupEnv("SENTSPLIT_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SENTSPLIT_WORKERS=%q", ErrInvalidConfig, v)
		}
		c.Workers = n
	}
	if v, ok := os.LookupEnv("SENTSPLIT_OUTPUT_FORMAT"); ok {
		c.Output.Format = v
	}
	if v, ok := os.LookupEnv("SENTSPLIT_CACHE_PATH"); ok && v != "" {
		c.Cache.Enabled = true
		c.Cache.Path = v
	}
	if v, ok := os.LookupEnv("SENTSPLIT_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv("SENTSPLIT_LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
	return nil
}

// Validate checks every setting that has a restricted set of values.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := normalize.ParseForm(c.UnicodeForm); !ok {
		errs = append(errs, fmt.Errorf("%w: unicode_form %q", ErrInvalidConfig, c.UnicodeForm))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers))
	}
	if c.Batch.FileWorkers < 0 {
		errs = append(errs, fmt.Errorf("%w: batch.file_workers must be >= 0, got %d", ErrInvalidConfig, c.Batch.FileWorkers))
	}
	if c.Output.Format != "" {
		if _, err := output.ParseFormat(c.Output.Format); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
		}
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format))
	}
	if c.Bench.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("%w: bench.tolerance must be >= 0", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// SlogLevel parses the configured level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, l.Level)
	}
	return level, nil
}

// LoadAbbreviations loads the configured file (defaults when missing) and
// merges the extra entries.
func (c *Config) LoadAbbreviations(logger *slog.Logger) (abbrev.Set, error) {
	set, err := abbrev.LoadOrDefault(c.Abbreviations.Path, logger)
	if err != nil {
		return abbrev.Set{}, err
	}
	if len(c.Abbreviations.Extra) > 0 {
		set = set.Merge(abbrev.New(c.Abbreviations.Extra...))
	}
	return set, nil
}

// CacheDir returns the directory holding the cache file.
func (c *Config) CacheDir() string {
	return filepath.Dir(c.Cache.Path)
}
