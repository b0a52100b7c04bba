package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oscargus/objinv/internal/render"
)

var inspectCountError bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <inventory>",
	Short: "Print an inventory's project/version/count and object table",
	Long: `Inspect reads an inventory from a URL, a plaintext or zlib-compressed
file, or a JSON dict file, and renders its project, version, object count,
and full object table via --format.

<inventory> is classified automatically: an http(s):// URL is fetched, a
path ending in .json is parsed as a JSON dict, anything else is read from
disk and decoded as plaintext or zlib.`,
	Example: `  objinv inspect https://docs.python.org/3/objects.inv --format json
  objinv inspect objects.inv --format csv --out objects.csv
  objinv inspect inventory.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		source := args[0]
		inv, err := resolveSource(cmd.Context(), source, inspectCountError)
		if err != nil {
			return fmt.Errorf("reading %s: %w", source, err)
		}

		if globalFlags.Store {
			if s, err := deps.RequireStore(); err == nil {
				_ = s.PutInventory(source, inv)
			}
		}

		result := buildInventoryResult("inspect", inv)

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
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectCountError, "strict-count", false,
		"error on a JSON dict whose 'count' field disagrees with its object indices (default: relaxed)")
}
