package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-sentsplit/internal/cache"
)

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the segmentation cache",
		Long: `Inspect or clear the bbolt cache used by "batch --cache".
A relative cache.path is resolved against --dir.`,
	}

	var recent int
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cached entries and recent batch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCache(func(store *cache.Store) error {
				n, err := store.Len()
				if err != nil {
					return err
				}
				runs, err := store.Runs()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Cached results: %d\n", n)
				fmt.Fprintf(out, "Batch runs:     %d\n", len(runs))
				if start := len(runs) - recent; start > 0 {
					runs = runs[start:]
				}
				for _, r := range runs {
					fmt.Fprintf(out, "  %s  %s  files=%d hits=%d failed=%d\n",
						r.StartedAt.Local().Format(time.DateTime), r.ID, r.Files, r.Hits, r.Failed)
				}
				return nil
			})
		},
	}
	statsCmd.Flags().IntVarP(&recent, "recent", "n", 5, "number of recent runs to list")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached result, keeping run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCache(func(store *cache.Store) error {
				n, err := store.Len()
				if err != nil {
					return err
				}
				if err := store.Clear(); err != nil {
					return fmt.Errorf("failed to clear cache: %w", err)
				}
				a.logger.Info("cache cleared", "entries", n)
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached results\n", n)
				return nil
			})
		},
	}

	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}

// withCache opens the configured cache for the duration of fn.
func (a *app) withCache(fn func(*cache.Store) error) error {
	store, err := cache.Open(a.projectPath(a.cfg.Cache.Path))
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() { _ = store.Close() }()

	return fn(store)
}
