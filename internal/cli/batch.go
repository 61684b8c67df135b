package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sentsplit "github.com/jamesainslie/go-sentsplit"
	"github.com/jamesainslie/go-sentsplit/abbrev"
	"github.com/jamesainslie/go-sentsplit/internal/cache"
	"github.com/jamesainslie/go-sentsplit/internal/walk"
	"github.com/jamesainslie/go-sentsplit/output"
)

type batchFlags struct {
	outDir     string
	abbr       string
	format     string
	includes   []string
	excludes   []string
	workers    int
	cache      bool
	noProgress bool
}

// batchResult summarizes one batch run.
type batchResult struct {
	RunID   string
	Files   int
	Written int
	Hits    int
	Errors  []string
}

func newBatchCommand(a *app) *cobra.Command {
	var f batchFlags

	cmd := &cobra.Command{
		Use:   "batch ROOT",
		Short: "Split every matching file under a directory",
		Long: `Walk ROOT, split every file matching the include patterns, and write
one output file per input under --out-dir, mirroring the directory layout.
Inputs that differ only by extension would share an output file; the first
in walk order is written and the others are reported as failures.

With the cache enabled, results are stored in a bbolt file keyed by the
text and the splitting settings, so unchanged files are not re-split.

Examples:
  sentsplit batch ./books --out-dir ./rows
  sentsplit batch . --out-dir out --include "**/*.md" --format parquet --cache`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("cache") {
				a.cfg.Cache.Enabled = f.cache
			}
			if f.noProgress {
				a.cfg.Batch.Progress = false
			}
			return a.runBatch(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", "", "directory for output files (required)")
	cmd.Flags().StringVar(&f.abbr, "abbr", "", "path to abbreviations file")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: csv, parquet, protobuf (default csv)")
	cmd.Flags().StringSliceVar(&f.includes, "include", nil, "include glob, repeatable (default from config)")
	cmd.Flags().StringSliceVar(&f.excludes, "exclude", nil, "exclude glob, repeatable (default from config)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "files processed concurrently (default from config)")
	cmd.Flags().BoolVar(&f.cache, "cache", false, "reuse results from the segmentation cache")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "disable the progress bar")
	_ = cmd.MarkFlagRequired("out-dir")

	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, root string, f batchFlags) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", root)
	}

	format := output.CSV
	if f.format != "" || a.cfg.Output.Format != "" {
		format, err = a.outputFormat(f.format, "")
		if err != nil {
			return err
		}
	}

	includes, excludes := a.cfg.Batch.Includes, a.cfg.Batch.Excludes
	if len(f.includes) > 0 {
		includes = f.includes
	}
	if len(f.excludes) > 0 {
		excludes = f.excludes
	}

	files, err := walk.New(includes, excludes).Walk(root)
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	set, err := a.abbreviations(f.abbr)
	if err != nil {
		return err
	}

	var store *cache.Store
	if a.cfg.Cache.Enabled {
		store, err = cache.Open(a.projectPath(a.cfg.Cache.Path))
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer func() { _ = store.Close() }()
	}

	workers := a.cfg.Batch.FileWorkers
	if f.workers > 0 {
		workers = f.workers
	}

	b := &batch{
		splitter: sentsplit.New(a.splitterOptions(set)...),
		set:      set,
		form:     a.cfg.UnicodeForm,
		format:   format,
		crlf:     a.cfg.Output.CRLF,
		outDir:   f.outDir,
		store:    store,
		workers:  workers,
	}
	if a.cfg.Batch.Progress && len(files) > 0 {
		b.bar = newProgressBar(cmd, len(files))
	}

	started := time.Now().UTC()
	result, err := b.run(cmd.Context(), files)
	if err != nil {
		return err
	}

	a.logger.Info("batch complete",
		"run_id", result.RunID,
		"files", result.Files,
		"written", result.Written,
		"cache_hits", result.Hits,
		"failed", len(result.Errors),
		"elapsed", time.Since(started).Round(time.Millisecond),
	)

	if store != nil {
		err := store.PutRun(cache.Run{
			ID:        result.RunID,
			StartedAt: started,
			Files:     result.Files,
			Hits:      result.Hits,
			Failed:    len(result.Errors),
		})
		if err != nil {
			a.logger.Warn("failed to record run", "run_id", result.RunID, "error", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nBatch complete:\n")
	fmt.Fprintf(out, "  Files matched:  %d\n", result.Files)
	fmt.Fprintf(out, "  Files written:  %d\n", result.Written)
	if store != nil {
		fmt.Fprintf(out, "  Cache hits:     %d\n", result.Hits)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
		return fmt.Errorf("%d of %d files failed", len(result.Errors), result.Files)
	}
	return nil
}

func newProgressBar(cmd *cobra.Command, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Splitting[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)
}

// batch splits many files with one Splitter.
type batch struct {
	splitter *sentsplit.Splitter
	set      abbrev.Set
	form     string
	format   output.Format
	crlf     bool
	outDir   string
	store    *cache.Store // nil when caching is off
	workers  int
	bar      *progressbar.ProgressBar
}

// run processes files concurrently. A file that fails is reported in the
// result and does not stop the others; only ctx cancellation aborts.
func (b *batch) run(ctx context.Context, files []walk.File) (*batchResult, error) {
	result := &batchResult{
		RunID: uuid.NewString(),
		Files: len(files),
	}

	var (
		written atomic.Int64
		hits    atomic.Int64
	)
	errs := make([]error, len(files))

	// Sources that differ only by extension map to the same output file.
	// The first in walk order keeps it; the rest are reported.
	paths := make([]string, len(files))
	owners := make(map[string]string, len(files))
	for i, file := range files {
		path := b.outputPath(file)
		if owner, taken := owners[path]; taken {
			errs[i] = fmt.Errorf("%s: output %s already produced by %s", file.Rel, path, owner)
			continue
		}
		owners[path] = file.Rel
		paths[i] = path
	}

	g, gctx := errgroup.WithContext(ctx)
	if b.workers > 0 {
		g.SetLimit(b.workers)
	}
	for i, file := range files {
		if paths[i] == "" {
			if b.bar != nil {
				_ = b.bar.Add(1)
			}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			hit, err := b.process(gctx, result.RunID, file, paths[i])
			if b.bar != nil {
				_ = b.bar.Add(1)
			}
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", file.Rel, err)
				return nil
			}
			written.Add(1)
			if hit {
				hits.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Segment errors on cancellation are recorded per file; surface them.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Written = int(written.Load())
	result.Hits = int(hits.Load())
	for _, err := range errs {
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}
	return result, nil
}

// process splits one file and writes its output to path. It reports whether
// the tokens came from the cache.
func (b *batch) process(ctx context.Context, runID string, file walk.File, path string) (bool, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", sentsplit.ErrInputUnreadable, err)
	}
	text := string(data)

	var (
		tokens []string
		hit    bool
		key    string
	)
	if b.store != nil {
		key = cache.Key(text, b.splitter.Marker(), b.form, b.set)
		entry, found, err := b.store.Get(key)
		if err != nil {
			return false, err
		}
		if found {
			tokens, hit = entry.Tokens, true
		}
	}

	if !hit {
		tokens, err = b.splitter.Segment(ctx, text)
		if err != nil {
			return false, err
		}
		if b.store != nil {
			err := b.store.Put(key, cache.Entry{
				RunID:     runID,
				Source:    file.Rel,
				CreatedAt: time.Now().UTC(),
				Tokens:    tokens,
			})
			if err != nil {
				return false, err
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return hit, fmt.Errorf("creating output directory: %w", err)
	}
	if err := output.WriteFile(path, b.format, tokens, output.WithCRLF(b.crlf)); err != nil {
		return hit, err
	}
	return hit, nil
}

// outputPath mirrors file's relative path under outDir with the format's
// extension.
func (b *batch) outputPath(file walk.File) string {
	rel := filepath.FromSlash(file.Rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + b.format.Extension()
	return filepath.Join(b.outDir, rel)
}
