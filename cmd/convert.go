package cmd

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/oscargus/objinv/internal/ioutil"
	"github.com/oscargus/objinv/objinv"
)

var (
	convertToPlain bool
	convertToZlib  bool
	convertOutDir  string
)

var convertCmd = &cobra.Command{
	Use:   "convert <src> <dst>",
	Short: "Convert an inventory between plaintext and zlib wire form",
	Long: `Convert reads an inventory from <src> — a URL, a plaintext or
zlib-compressed file, or a JSON dict file — and writes it to <dst> in the
plaintext or zlib wire representation.

Direction is inferred from <dst>'s extension: ".txt" or ".plain" writes the
plaintext form, anything else writes the zlib-compressed wire form that
Sphinx publishes as objects.inv. --to-plain/--to-zlib override the
inferred direction explicitly.

Passing --out-dir switches to batch mode: every positional argument is
treated as an independent <src> (no <dst>), converted concurrently —
bounded by the global --concurrency flag — and written under --out-dir
using the source's base name with its extension replaced by the output
extension (.txt for --to-plain, .inv for --to-zlib). Batch
mode requires --to-plain or --to-zlib, since there is no single <dst> to
infer direction from.`,
	Example: `  objinv convert objects.inv objects.txt
  objinv convert objects.txt objects.inv
  objinv convert inventory.json objects.inv
  objinv convert --out-dir converted --to-plain --concurrency 4 a.inv b.inv c.inv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		if convertOutDir != "" {
			return runConvertBatch(cmd.Context(), cmd.OutOrStdout(), deps.Config.Concurrency, args)
		}

		if len(args) != 2 {
			return fmt.Errorf("convert requires a <src> and a <dst> argument (or --out-dir for batch mode over multiple sources)")
		}
		src, dst := args[0], args[1]

		wantPlain, err := convertDirection(dst, convertToPlain, convertToZlib)
		if err != nil {
			return err
		}

		data, err := convertOne(cmd.Context(), src, wantPlain)
		if err != nil {
			return fmt.Errorf("converting %s: %w", src, err)
		}
		if err := ioutil.WriteFile(dst, data, 0o644); err != nil {
			return err
		}

		if globalFlags.Verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "converted %s -> %s\n", src, dst)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&convertToPlain, "to-plain", false, "write plaintext output regardless of <dst>'s extension")
	convertCmd.Flags().BoolVar(&convertToZlib, "to-zlib", false, "write zlib wire-form output regardless of <dst>'s extension")
	convertCmd.Flags().StringVar(&convertOutDir, "out-dir", "", "batch mode: directory to write converted files into")
}

// convertDirection resolves whether the output should be plaintext (true)
// or zlib wire form (false), from the explicit flags first and otherwise
// from dst's extension. dst is empty in batch mode, where a flag is
// mandatory since there is no destination name to infer from.
func convertDirection(dst string, toPlain, toZlib bool) (bool, error) {
	if toPlain && toZlib {
		return false, fmt.Errorf("--to-plain and --to-zlib are mutually exclusive")
	}
	if toPlain {
		return true, nil
	}
	if toZlib {
		return false, nil
	}
	if dst == "" {
		return false, fmt.Errorf("batch mode requires --to-plain or --to-zlib (no <dst> to infer direction from)")
	}
	switch strings.ToLower(filepath.Ext(dst)) {
	case ".txt", ".plain":
		return true, nil
	default:
		return false, nil
	}
}

// convertOne resolves source and emits it in plaintext or zlib wire form.
func convertOne(ctx context.Context, source string, wantPlain bool) ([]byte, error) {
	inv, err := resolveSource(ctx, source, true)
	if err != nil {
		return nil, err
	}
	if wantPlain {
		return inv.DataFile(objinv.ModeAsIs)
	}
	return inv.WireFile(objinv.ModeAsIs)
}

// runConvertBatch converts every source in srcs concurrently, bounded by
// concurrency, writing each result under convertOutDir.
func runConvertBatch(ctx context.Context, out io.Writer, concurrency int, srcs []string) error {
	wantPlain, err := convertDirection("", convertToPlain, convertToZlib)
	if err != nil {
		return err
	}
	if err := ioutil.EnsureDir(convertOutDir); err != nil {
		return err
	}

	if concurrency <= 0 {
		concurrency = 8
	}
	outExt := ".inv"
	if wantPlain {
		outExt = ".txt"
	}

	sem := make(chan struct{}, concurrency)
	errs := make([]error, len(srcs))
	var wg sync.WaitGroup

	for i, src := range srcs {
		i, src := i, src
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, convErr := convertOne(ctx, src, wantPlain)
			if convErr != nil {
				errs[i] = fmt.Errorf("%s: %w", src, convErr)
				return
			}
			base := baseName(src)
			dst := filepath.Join(convertOutDir, strings.TrimSuffix(base, filepath.Ext(base))+outExt)
			if writeErr := ioutil.WriteFile(dst, data, 0o644); writeErr != nil {
				errs[i] = fmt.Errorf("%s: %w", src, writeErr)
			}
		}()
	}
	wg.Wait()

	var failed []string
	ok := 0
	for _, e := range errs {
		if e != nil {
			failed = append(failed, e.Error())
			continue
		}
		ok++
	}
	fmt.Fprintf(out, "converted %d/%d source(s) into %s\n", ok, len(srcs), convertOutDir)
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d conversions failed:\n  %s", len(failed), len(srcs), strings.Join(failed, "\n  "))
	}
	return nil
}

// baseName returns the final path segment of src, stripped of any URL
// query/fragment — src may be a local path or an http(s):// URL.
func baseName(src string) string {
	b := path.Base(src)
	if i := strings.IndexAny(b, "?#"); i >= 0 {
		b = b[:i]
	}
	return b
}
