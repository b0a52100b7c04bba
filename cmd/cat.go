package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oscargus/objinv/internal/pipeline"
	"github.com/oscargus/objinv/internal/render"
	"github.com/oscargus/objinv/objinv"
)

var catCmd = &cobra.Command{
	Use:   "cat [source]",
	Short: "Stream inventory objects as JSONL",
	Long: `Cat emits an inventory's objects one-per-line as JSON, the format other
objinv commands (and external tools) can read back with "objinv load".

With a source argument, cat reads that inventory and streams its objects to
stdout. With no argument, it reads a JSONL stream from stdin, checks that
every line decodes as a well-formed object, and writes the objects back out
as JSONL (blank and "//" comment lines are dropped) — a quick way to sanity-check a
hand-edited or filtered JSONL stream before feeding it to "objinv load".`,
	Example: `  objinv cat objects.inv | grep '"domain":"py"'
  objinv cat api.inv --out objects.jsonl
  cat filtered.jsonl | objinv cat`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		var objs []*objinv.DataObjStr
		if len(args) == 1 {
			inv, err := resolveSource(cmd.Context(), args[0], true)
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			objs = inv.Objects
		} else {
			objs, err = pipeline.ReadObjects(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
		}

		w, closeFn, err := outputWriter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeFn()

		format := resolveFormat(deps.Config.Format)
		if format == render.FormatTable && globalFlags.Format == "" {
			// No explicit --format: stay in JSONL, the shape cat emits
			// and "objinv load" reads, rather than pretty-printing.
			return pipeline.WriteJSONL(w, objs)
		}

		result := buildObjectsResult("cat", objs)
		if err := render.Render(w, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
