package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	sentsplit "github.com/jamesainslie/go-sentsplit"
	"github.com/jamesainslie/go-sentsplit/output"
)

type splitFlags struct {
	abbr   string
	format string
	marker string
}

func newSplitCommand(a *app) *cobra.Command {
	var f splitFlags

	cmd := &cobra.Command{
		Use:   "split INPUT OUTPUT",
		Short: "Split one text file into sentence rows",
		Long: `Split a UTF-8 text file into sentences and write one sentence per row.
Paragraph breaks become a marker row between paragraphs.

The output format follows --format, then output.format in the config, then
the OUTPUT extension (.parquet, .pb, anything else is CSV).

Examples:
  sentsplit split book.txt book.csv
  sentsplit split book.txt book.parquet --abbr legal.txt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSplit(cmd, args[0], args[1], f)
		},
	}

	cmd.Flags().StringVar(&f.abbr, "abbr", "", "path to abbreviations file (default from config: abbreviations.txt)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: csv, parquet, protobuf")
	cmd.Flags().StringVar(&f.marker, "marker", "", "paragraph break token (default \"[PARAGRAPH BREAK]\")")

	return cmd
}

func (a *app) runSplit(cmd *cobra.Command, input, out string, f splitFlags) error {
	info, err := os.Stat(input)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", sentsplit.ErrInputNotFound, input)
	case err != nil:
		return fmt.Errorf("%w: %w", sentsplit.ErrInputUnreadable, err)
	case info.IsDir():
		return fmt.Errorf("%w: %s is a directory", sentsplit.ErrInputNotFound, input)
	}

	format, err := a.outputFormat(f.format, out)
	if err != nil {
		return err
	}

	set, err := a.abbreviations(f.abbr)
	if err != nil {
		return err
	}
	if f.marker != "" {
		a.cfg.ParagraphMarker = f.marker
	}

	tokens, err := sentsplit.New(a.splitterOptions(set)...).SplitFile(input)
	if err != nil {
		return err
	}

	if err := output.WriteFile(out, format, tokens, output.WithCRLF(a.cfg.Output.CRLF)); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	a.logger.Debug("split file", "input", input, "output", out, "format", format, "rows", len(tokens))
	fmt.Fprintf(cmd.OutOrStdout(), "Successfully processed %d sentences to %s\n", len(tokens), out)
	return nil
}

// outputFormat resolves the format from the flag, the config, then the
// output path.
func (a *app) outputFormat(flag, path string) (output.Format, error) {
	for _, s := range []string{flag, a.cfg.Output.Format} {
		if s == "" {
			continue
		}
		format, err := output.ParseFormat(s)
		if err != nil {
			return "", fmt.Errorf("%w (supported: %v)", err, output.Formats())
		}
		return format, nil
	}
	return output.FormatFromPath(path), nil
}
