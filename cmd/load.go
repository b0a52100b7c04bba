package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oscargus/objinv/internal/pipeline"
	"github.com/oscargus/objinv/internal/render"
	"github.com/oscargus/objinv/objinv"
)

var (
	loadProject string
	loadVersion string
)

var loadCmd = &cobra.Command{
	Use:   "load [file.jsonl]",
	Short: "Build an inventory from a JSONL object stream",
	Long: `Load reads objects in the JSONL shape "objinv cat" emits (one JSON
object per line, fields name/domain/role/priority/uri/dispname) and
assembles them into a Manual inventory under --project/--version. With no
file argument, objects are read from stdin.

This is the write side of the pipe "objinv cat" describes: filter or
hand-edit a JSONL stream, then load it back to render, validate, or
emit it as a data_file.`,
	Example: `  objinv cat api.inv | grep '"domain":"py"' | objinv load --project api --version 1.0 --format json
  objinv load filtered.jsonl --project api --version 1.0 --out api.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		var r *os.File
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		} else {
			r = os.Stdin
		}

		objs, err := pipeline.ReadObjects(r)
		if err != nil {
			return fmt.Errorf("decoding JSONL objects: %w", err)
		}

		inv := objinv.NewManualInventory()
		inv.Project = loadProject
		inv.Version = loadVersion
		inv.Objects = objs

		if globalFlags.Store {
			if s, err := deps.RequireStore(); err == nil && len(args) == 1 {
				_ = s.PutInventory(args[0], inv)
			}
		}

		result := buildInventoryResult("load", inv)

		format := resolveFormat(deps.Config.Format)
		w, closeFn, err := outputWriter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeFn()

		if format == render.FormatTable && globalFlags.Format == "" {
			// No explicit --format: emit the data_file wire form, the
			// natural target for a stream assembled from JSONL.
			data, err := inv.DataFile(objinv.ModeAsIs)
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		}

		if err := render.Render(w, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&loadProject, "project", "", "project name for the assembled inventory")
	loadCmd.Flags().StringVar(&loadVersion, "version", "", "version string for the assembled inventory")
}
