package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oscargus/objinv/internal/render"
	"github.com/oscargus/objinv/objinv"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <source> <query>",
	Short: "Fuzzy-search an inventory's reference strings",
	Long: `Suggest scores every object's reference string against query using
token-set-ratio fuzzy matching, returning matches at or above the
threshold sorted by descending score.`,
	Example: `  objinv suggest objects.inv "Attribute"
  objinv suggest https://docs.python.org/3/objects.inv "pathlib.Path" --threshold 70`,
	Args: cobra.ExactArgs(2),
	RunE: runSuggest,
}

// runSuggest implements "suggest" (and its "search" alias): fuzzy-match
// args[1] against every object reference string in the inventory at
// args[0].
func runSuggest(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	inv, err := resolveSource(cmd.Context(), args[0], true)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	threshold := deps.Config.Threshold
	if threshold <= 0 {
		threshold = objinv.DefaultSuggestThreshold
	}
	matches := inv.Suggest(args[1], threshold)

	result := buildSuggestResult(cmd.Name(), matches)

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
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
