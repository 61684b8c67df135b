package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-sentsplit/abbrev"
	"github.com/jamesainslie/go-sentsplit/internal/bench"
)

type benchFlags struct {
	abbr      []string
	tolerance int
	wp        float64
	wr        float64
	perDoc    bool
}

func newBenchCommand(a *app) *cobra.Command {
	var f benchFlags

	cmd := &cobra.Command{
		Use:   "bench CORPUS_DIR",
		Short: "Score the splitter against gold-standard sentences",
		Long: `Load every .txt and .json gold file in CORPUS_DIR, split the text, and
report boundary precision, recall and F1.

Plain-text gold files hold one sentence per line with blank lines between
paragraphs, after optional "# Source:", "# Author:" and "# Title:" header
lines. JSON files use the {name, source, text, sentences, boundaries}
layout written by scripts/process-ud-ewt.go.

Each --abbr adds a candidate abbreviation set; results are ranked by the
weighted score. Without --abbr the built-in set is compared with the
configured file, if it exists.

Examples:
  sentsplit bench testdata/corpus
  sentsplit bench testdata/corpus --abbr legal=legal.txt --abbr none=/dev/null`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("tolerance") {
				f.tolerance = a.cfg.Bench.Tolerance
			}
			if !cmd.Flags().Changed("wp") {
				f.wp = a.cfg.Bench.PrecisionWeight
			}
			if !cmd.Flags().Changed("wr") {
				f.wr = a.cfg.Bench.RecallWeight
			}
			return a.runBench(cmd, args[0], f)
		},
	}

	cmd.Flags().StringArrayVar(&f.abbr, "abbr", nil, "candidate abbreviation set as NAME=PATH, repeatable")
	cmd.Flags().IntVar(&f.tolerance, "tolerance", 3, "offset tolerance for boundary matching, in characters")
	cmd.Flags().Float64Var(&f.wp, "wp", 1.0, "precision weight")
	cmd.Flags().Float64Var(&f.wr, "wr", 1.0, "recall weight")
	cmd.Flags().BoolVar(&f.perDoc, "per-doc", false, "print metrics for every document")

	return cmd
}

func (a *app) runBench(cmd *cobra.Command, dir string, f benchFlags) error {
	docs, err := bench.LoadCorpus(dir)
	if err != nil {
		return fmt.Errorf("error loading corpus: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no gold files in %s", dir)
	}

	candidates, err := a.benchCandidates(f.abbr)
	if err != nil {
		return err
	}

	cfg := bench.Config{
		Tolerance:       f.tolerance,
		PrecisionWeight: f.wp,
		RecallWeight:    f.wr,
	}

	opts := a.splitterOptions(abbrev.Set{})
	results, err := bench.Compare(cmd.Context(), docs, candidates, cfg, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded %d documents from %s\n\n", len(docs), dir)
	printResults(out, results, cfg)

	if f.perDoc {
		for _, r := range results {
			fmt.Fprintf(out, "\n%s:\n", r.Name)
			for _, doc := range docs {
				m := r.Documents[doc.ID]
				fmt.Fprintf(out, "  %-28s %-8.2f %-8.2f %-8.2f (TP: %d, FP: %d, FN: %d)\n",
					doc.ID, m.Precision, m.Recall, m.F1, m.TruePositives, m.FalsePositives, m.FalseNegatives)
			}
		}
	}
	return nil
}

func printResults(w io.Writer, results []bench.Result, cfg bench.Config) {
	fmt.Fprintf(w, "Abbreviation Sets (wp=%.1f, wr=%.1f, tolerance=%d)\n", cfg.PrecisionWeight, cfg.RecallWeight, cfg.Tolerance)
	fmt.Fprintln(w, strings.Repeat("-", 66))
	fmt.Fprintf(w, "%-20s %-8s %-8s %-8s %-8s %-8s\n", "Set", "Entries", "Prec", "Rec", "F1", "Weighted")

	for _, r := range results {
		fmt.Fprintf(w, "%-20s %-8d %-8.2f %-8.2f %-8.2f %-8.2f\n",
			r.Name, r.Entries, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1, r.Metrics.WeightedScore)
	}

	fmt.Fprintln(w, strings.Repeat("-", 66))
	if len(results) > 0 {
		best := results[0]
		fmt.Fprintf(w, "Best: %s (Weighted: %.2f)\n", best.Name, best.Metrics.WeightedScore)
	}
}

// benchCandidates parses NAME=PATH specs, or falls back to the built-in set
// plus the configured file.
func (a *app) benchCandidates(specs []string) ([]bench.Candidate, error) {
	var candidates []bench.Candidate

	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		if !ok {
			name, path = spec, spec
		}
		set, err := abbrev.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading candidate %q: %w", name, err)
		}
		candidates = append(candidates, bench.Candidate{Name: name, Set: set})
	}
	if len(candidates) > 0 {
		return candidates, nil
	}

	candidates = append(candidates, bench.Candidate{Name: "builtin", Set: abbrev.Default()})

	if name := a.cfg.Abbreviations.Path; name != "" {
		path := a.projectPath(name)
		set, err := abbrev.Load(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			a.logger.Debug("configured abbreviations not found", "path", path)
		case err != nil:
			return nil, err
		default:
			if extra := a.cfg.Abbreviations.Extra; len(extra) > 0 {
				set = set.Merge(abbrev.New(extra...))
			}
			candidates = append(candidates, bench.Candidate{Name: name, Set: set})
		}
	}

	return candidates, nil
}
