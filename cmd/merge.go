package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oscargus/objinv/internal/render"
	"github.com/oscargus/objinv/objinv"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <source>...",
	Short: "Concatenate and deduplicate multiple inventories",
	Long: `Merge loads two or more inventories sharing the same project,
concatenates their objects, and drops exact duplicates (same name, domain,
role, priority, URI, and display name). The merged inventory takes its
version from the first source.`,
	Example: `  objinv merge api.inv tutorial.inv --format csv --out combined.csv
  objinv merge a.inv b.inv c.inv --format json`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		invs, warnings := batchResolve(cmd.Context(), deps, args)
		if len(invs) == 0 {
			return fmt.Errorf("failed to read any of the given sources: %v", warnings)
		}

		merged, err := objinv.Merge(invs...)
		if err != nil {
			return fmt.Errorf("merging inventories: %w", err)
		}

		result := buildInventoryResult("merge", merged)
		result.Warnings = warnings

		format := resolveFormat(deps.Config.Format)
		w, closeFn, err := outputWriter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := render.Render(w, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
