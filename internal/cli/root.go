// Package cli implements the sentsplit command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	sentsplit "github.com/jamesainslie/go-sentsplit"
	"github.com/jamesainslie/go-sentsplit/abbrev"
	"github.com/jamesainslie/go-sentsplit/config"
	"github.com/jamesainslie/go-sentsplit/normalize"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app is the state shared by every subcommand of one command tree.
type app struct {
	cfgFile  string
	rootDir  string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
}

// Execute builds the command tree and runs it against os.Args.
func Execute(info BuildInfo) error {
	return NewRootCommand(info).Execute()
}

// NewRootCommand returns a fresh command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "sentsplit",
		Short: "Split text into sentences with paragraph markers",
		Long: `sentsplit normalizes plain text, splits it into sentences with a
rule-based scanner, and writes one sentence per row.

Example usage:
  sentsplit split input.txt output.csv           # Split one file
  sentsplit batch ./docs --out-dir ./rows        # Split a directory tree
  sentsplit bench testdata/corpus                # Score against gold data`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", info.Version, info.Commit, info.Date),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./sentsplit.yaml)")
	rootCmd.PersistentFlags().StringVarP(&a.rootDir, "dir", "d", "", "project directory holding config and cache (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newSplitCommand(a),
		newBatchCommand(a),
		newBenchCommand(a),
		newCacheCommand(a),
	)

	return rootCmd
}

// setup loads configuration and builds the logger before any subcommand
// runs. Precedence: defaults, config file, .env and environment, flags.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error

	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if a.rootDir == "" {
		a.rootDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromDir(a.rootDir)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := a.cfg.ApplyEnv(); err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger, err = newLogger(cmd.ErrOrStderr(), a.cfg.Logging)
	return err
}

func newLogger(w io.Writer, lc config.LoggingConfig) (*slog.Logger, error) {
	level, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// abbreviations resolves the abbreviation set: an explicit path wins over
// the configured one.
func (a *app) abbreviations(path string) (abbrev.Set, error) {
	if path != "" {
		a.cfg.Abbreviations.Path = path
	} else {
		a.cfg.Abbreviations.Path = a.projectPath(a.cfg.Abbreviations.Path)
	}
	return a.cfg.LoadAbbreviations(a.logger)
}

// projectPath resolves a relative config path against the project
// directory. Flag paths stay relative to the working directory.
func (a *app) projectPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.rootDir, path)
}

// splitterOptions turns the loaded configuration into Splitter options.
func (a *app) splitterOptions(set abbrev.Set) []sentsplit.Option {
	// Validate has already rejected unknown forms.
	form, _ := normalize.ParseForm(a.cfg.UnicodeForm)

	return []sentsplit.Option{
		sentsplit.WithAbbreviations(set),
		sentsplit.WithParagraphMarker(a.cfg.ParagraphMarker),
		sentsplit.WithUnicodeForm(form),
		sentsplit.WithWorkers(a.cfg.Workers),
		sentsplit.WithLogger(a.logger),
	}
}
