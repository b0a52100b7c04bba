package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oscargus/objinv/internal/ioutil"
	"github.com/oscargus/objinv/internal/render"
	"github.com/oscargus/objinv/objinv"
)

var validateCountError bool

var validateCmd = &cobra.Command{
	Use:   "validate <file.json>",
	Short: "Check a JSON dict against the inventory schema",
	Long: `Validate parses a JSON file as an inventory dict and checks it against
the required schema: project/version/count at the top level, every
numeric-string key mapping to an object with all six required fields, and
no unexpected top-level keys.`,
	Example: `  objinv validate inventory.json
  objinv validate inventory.json --strict-count`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		data, err := ioutil.ReadFile(args[0])
		if err != nil {
			return err
		}
		var dict map[string]interface{}
		if err := json.Unmarshal(data, &dict); err != nil {
			return fmt.Errorf("parsing %s as JSON: %w", args[0], err)
		}

		_, valErr := objinv.NewInventoryFromDictJSON(dict, validateCountError)

		result := buildValidationResult("validate", valErr)

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

		if valErr != nil {
			return fmt.Errorf("%s failed validation: %w", args[0], valErr)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateCountError, "strict-count", false,
		"error on a 'count' field that disagrees with the present object indices (default: relaxed)")
}
