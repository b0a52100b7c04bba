package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oscargus/objinv/internal/render"
	"github.com/oscargus/objinv/objinv"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare two inventories by object identity",
	Long: `Diff loads two inventories and reports objects added in <new>,
removed from <old>, and objects present in both whose priority, URI, or
display name differ. Identity is the name/domain/role triple.`,
	Example: `  objinv diff v1/objects.inv v2/objects.inv
  objinv diff old.inv new.inv --format json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		invs, warnings := batchResolve(cmd.Context(), deps, args)
		if len(invs) != 2 {
			return fmt.Errorf("failed to read both inventories: %v", warnings)
		}

		diff := objinv.Diff(invs[0], invs[1])
		result := buildDiffResult("diff", diff)
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
	rootCmd.AddCommand(diffCmd)
}
