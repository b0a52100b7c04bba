package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/oscargus/objinv/internal/app"
	"github.com/oscargus/objinv/internal/ioutil"
	"github.com/oscargus/objinv/internal/model"
	"github.com/oscargus/objinv/internal/render"
	"github.com/oscargus/objinv/objinv"
)

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatTable
}

// outputWriter returns def unless --out names a file, in which case it opens
// that file and returns a closer the caller must invoke.
func outputWriter(def io.Writer) (io.Writer, func() error, error) {
	if globalFlags.Out == "" {
		return def, func() error { return nil }, nil
	}
	if err := ioutil.EnsureDir(filepath.Dir(globalFlags.Out)); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(globalFlags.Out)
	if err != nil {
		return nil, nil, fmt.Errorf("opening --out file: %w", err)
	}
	return f, f.Close, nil
}

// resolveSource builds an Inventory from source, the same source varieties
// "objinv convert"/"objinv inspect"/"objinv suggest" accept: a URL, a
// plaintext or zlib-compressed file, or a ".json" dict file. JSON dict
// files are handled explicitly here since Inventory's positional source
// classifier only recognizes an in-memory map[string]interface{} as
// DictJSON, not a filename ending in ".json".
func resolveSource(ctx context.Context, source string, countError bool) (*objinv.Inventory, error) {
	if strings.HasSuffix(source, ".json") && !looksLikeURL(source) {
		data, err := ioutil.ReadFile(source)
		if err != nil {
			return nil, err
		}
		var dict map[string]interface{}
		if err := json.Unmarshal(data, &dict); err != nil {
			return nil, fmt.Errorf("parsing %s as JSON: %w", source, err)
		}
		return objinv.NewInventoryFromDictJSON(dict, countError)
	}
	return objinv.NewInventory(&objinv.Options{Source: source, Context: ctx})
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// sourceResult pairs a resolved inventory with the source string it came
// from, or the error encountered resolving it.
type sourceResult struct {
	source string
	inv    *objinv.Inventory
	err    error
}

// batchResolve loads multiple inventory sources (URLs or file paths)
// concurrently, respecting deps.Config.Concurrency. Results preserve the
// input order; failures are surfaced as warnings rather than aborting the
// whole batch.
func batchResolve(ctx context.Context, deps *app.Deps, sources []string) ([]*objinv.Inventory, []string) {
	concurrency := deps.Config.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	sem := make(chan struct{}, concurrency)
	results := make([]sourceResult, len(sources))
	var wg sync.WaitGroup

	for i, src := range sources {
		i, src := i, src
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			inv, err := resolveSource(ctx, src, true)
			results[i] = sourceResult{source: src, inv: inv, err: err}
		}()
	}
	wg.Wait()

	var invs []*objinv.Inventory
	var warnings []string
	for _, r := range results {
		if r.err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", r.source, r.err))
		} else {
			invs = append(invs, r.inv)
		}
	}
	return invs, warnings
}

// printSimpleTable renders a simple table with headers using tablewriter.
// The add callback is called with row values as variadic strings.
func printSimpleTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}

// buildInventoryResult wraps an *Inventory in a Result envelope.
func buildInventoryResult(command string, inv *objinv.Inventory) *model.Result {
	return &model.Result{
		Kind:        model.KindInventory,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        inv,
		Stats:       model.ResultStats{Items: inv.Count()},
	}
}

// buildObjectsResult wraps a slice of objects (e.g. a search match list) in
// a Result envelope.
func buildObjectsResult(command string, objs []*objinv.DataObjStr) *model.Result {
	return &model.Result{
		Kind:        model.KindObject,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        objs,
		Stats:       model.ResultStats{Items: len(objs)},
	}
}

// buildSuggestResult wraps Suggest's ranked matches in a Result envelope.
func buildSuggestResult(command string, matches []objinv.SuggestMatch) *model.Result {
	return &model.Result{
		Kind:        model.KindSuggest,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        matches,
		Stats:       model.ResultStats{Items: len(matches)},
	}
}

// buildDiffResult wraps an InventoryDiff in a Result envelope.
func buildDiffResult(command string, diff objinv.InventoryDiff) *model.Result {
	return &model.Result{
		Kind:        model.KindDiff,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        diff,
		Stats:       model.ResultStats{Items: len(diff.Added) + len(diff.Removed) + len(diff.Changed)},
	}
}

// buildValidationResult wraps a validation outcome (nil on success, the
// *ValidationError otherwise) in a Result envelope.
func buildValidationResult(command string, valErr error) *model.Result {
	var data interface{} = "valid"
	if valErr != nil {
		data = valErr
	}
	return &model.Result{
		Kind:        model.KindValidation,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        data,
		Stats:       model.ResultStats{Items: 1},
	}
}
