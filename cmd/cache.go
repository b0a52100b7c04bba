package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the local data store",
	Long: `Commands for inspecting and clearing the local bbolt database.

The local store accumulates inventories read or fetched with '--store'. It
is an intentional data store, not a transparent cache — data persists until
you explicitly clear it.`,
}

// ─── cache stats ──────────────────────────────────────────────────────────────

var cacheStatsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show row counts and sizes for each bucket",
	Example: `  objinv cache stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		s, err := deps.RequireStore()
		if err != nil {
			return err
		}
		defer deps.Close()

		stats, err := s.Stats()
		if err != nil {
			return fmt.Errorf("reading store stats: %w", err)
		}

		sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })

		fmt.Fprintf(cmd.OutOrStdout(), "Database: %s\n\n", s.Path())
		printSimpleTable(cmd.OutOrStdout(), []string{"BUCKET", "ROWS", "SIZE"}, func(add func(...string)) {
			for _, bs := range stats {
				add(bs.Name, fmt.Sprintf("%d", bs.Count), humanBytes(bs.Bytes))
			}
		})
		return nil
	},
}

// ─── cache clear ──────────────────────────────────────────────────────────────

var (
	cacheClearAll    bool
	cacheClearBucket string
)

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete entries from the local store",
	Example: `  objinv cache clear --all
  objinv cache clear --bucket inventories
  objinv cache clear --bucket snapshots`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cacheClearAll && cacheClearBucket == "" {
			return fmt.Errorf("specify --all or --bucket <name>\n\nBuckets: inventories, snapshots")
		}

		deps, err := buildDeps()
		if err != nil {
			return err
		}
		s, err := deps.RequireStore()
		if err != nil {
			return err
		}
		defer deps.Close()

		if cacheClearAll {
			if err := s.ClearAll(); err != nil {
				return fmt.Errorf("clearing all buckets: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared all buckets")
			return nil
		}

		if err := s.ClearBucket(cacheClearBucket); err != nil {
			return fmt.Errorf("clearing bucket %q: %w", cacheClearBucket, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared bucket %q\n", cacheClearBucket)
		return nil
	},
}

// ─── cache compact ─────────────────────────────────────────────────────────────

var cacheCompactCmd = &cobra.Command{
	Use:     "compact",
	Short:   "Reclaim disk space freed by prior deletions",
	Example: `  objinv cache compact`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		s, err := deps.RequireStore()
		if err != nil {
			return err
		}
		defer deps.Close()

		before, after, err := s.Compact()
		if err != nil {
			return fmt.Errorf("compacting store: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Compacted %s: %s → %s\n", s.Path(), humanBytes(before), humanBytes(after))
		return nil
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheCompactCmd)

	cacheClearCmd.Flags().BoolVar(&cacheClearAll, "all", false, "clear all buckets")
	cacheClearCmd.Flags().StringVar(&cacheClearBucket, "bucket", "", "clear a specific bucket: inventories|snapshots")
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func humanBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
