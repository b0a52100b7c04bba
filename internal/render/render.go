// Package render converts Result values into human-readable or machine-parseable
// output. Each format is a separate function; the top-level Render dispatcher
// selects based on the format string.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/oscargus/objinv/internal/model"
	"github.com/oscargus/objinv/objinv"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatMD    = "md"
)

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatJSONL:
		return renderJSONL(w, result)
	case FormatCSV:
		return renderDelimited(w, result, ',')
	case FormatTSV:
		return renderDelimited(w, result, '\t')
	case FormatMD:
		return renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

// RenderTo writes to stdout by default; if path is non-empty, writes to file.
func RenderTo(path string, result *model.Result, format string) error {
	if path == "" {
		return Render(os.Stdout, result, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return Render(f, result, format)
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ─── JSONL ────────────────────────────────────────────────────────────────────

// objectRow is a canonical JSONL record for a single inventory object.
type objectRow struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Role     string `json:"role"`
	Priority string `json:"priority"`
	URI      string `json:"uri"`
	Dispname string `json:"dispname"`
}

func rowOf(o *objinv.DataObjStr) objectRow {
	return objectRow{
		Name: o.Name, Domain: o.Domain, Role: o.Role,
		Priority: o.Priority, URI: o.URI, Dispname: o.Dispname,
	}
}

func renderJSONL(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	switch data := result.Data.(type) {
	case *objinv.Inventory:
		for _, o := range data.Objects {
			if err := enc.Encode(rowOf(o)); err != nil {
				return err
			}
		}
		return nil
	case []*objinv.DataObjStr:
		for _, o := range data {
			if err := enc.Encode(rowOf(o)); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(result.Data)
	}
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, result *model.Result) error {
	switch data := result.Data.(type) {
	case *objinv.Inventory:
		return renderInventoryTable(w, data)
	case []*objinv.DataObjStr:
		return renderObjectSliceTable(w, data)
	case []objinv.SuggestMatch:
		return renderSuggestTable(w, data)
	case objinv.InventoryDiff:
		return renderDiffTable(w, data)
	case *objinv.ValidationError:
		fmt.Fprintf(w, "INVALID: %s\n", data.Error())
		return nil
	case string:
		fmt.Fprintln(w, data)
		return nil
	default:
		return renderJSON(w, result)
	}
}

func renderInventoryTable(w io.Writer, inv *objinv.Inventory) error {
	fmt.Fprintf(w, "Project: %s  Version: %s  Objects: %d\n\n", inv.Project, inv.Version, inv.Count())
	return renderObjectSliceTable(w, inv.Objects)
}

func renderObjectSliceTable(w io.Writer, objs []*objinv.DataObjStr) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"NAME", "DOMAIN", "ROLE", "PRIORITY", "URI"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	for _, o := range objs {
		tw.Append([]string{o.Name, o.Domain, o.Role, o.Priority, o.URI})
	}
	tw.Render()
	return nil
}

func renderSuggestTable(w io.Writer, matches []objinv.SuggestMatch) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"SCORE", "REF", "INDEX"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	for _, m := range matches {
		tw.Append([]string{fmt.Sprintf("%d", m.Score), m.Ref, fmt.Sprintf("%d", m.Index)})
	}
	tw.Render()
	return nil
}

func renderDiffTable(w io.Writer, diff objinv.InventoryDiff) error {
	fmt.Fprintf(w, "Added (%d):\n", len(diff.Added))
	for _, o := range diff.Added {
		fmt.Fprintf(w, "  + %s %s:%s\n", o.Domain, o.Role, o.Name)
	}
	fmt.Fprintf(w, "Removed (%d):\n", len(diff.Removed))
	for _, o := range diff.Removed {
		fmt.Fprintf(w, "  - %s %s:%s\n", o.Domain, o.Role, o.Name)
	}
	fmt.Fprintf(w, "Changed (%d):\n", len(diff.Changed))
	for _, c := range diff.Changed {
		fmt.Fprintf(w, "  ~ %s %s:%s (priority %s→%s, uri %s→%s)\n",
			c.Old.Domain, c.Old.Role, c.Old.Name,
			c.Old.Priority, c.New.Priority, c.Old.URI, c.New.URI)
	}
	return nil
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

func renderDelimited(w io.Writer, result *model.Result, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	switch data := result.Data.(type) {
	case *objinv.Inventory:
		_ = cw.Write([]string{"name", "domain", "role", "priority", "uri", "dispname"})
		for _, o := range data.Objects {
			_ = cw.Write([]string{o.Name, o.Domain, o.Role, o.Priority, o.URI, o.Dispname})
		}
	case []*objinv.DataObjStr:
		_ = cw.Write([]string{"name", "domain", "role", "priority", "uri", "dispname"})
		for _, o := range data {
			_ = cw.Write([]string{o.Name, o.Domain, o.Role, o.Priority, o.URI, o.Dispname})
		}
	case []objinv.SuggestMatch:
		_ = cw.Write([]string{"score", "ref", "index"})
		for _, m := range data {
			_ = cw.Write([]string{fmt.Sprintf("%d", m.Score), m.Ref, fmt.Sprintf("%d", m.Index)})
		}
	default:
		b, _ := json.Marshal(result.Data)
		_ = cw.Write([]string{string(b)})
	}

	cw.Flush()
	return cw.Error()
}

// ─── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, result *model.Result) error {
	switch data := result.Data.(type) {
	case *objinv.Inventory:
		fmt.Fprintf(w, "| NAME | DOMAIN | ROLE | PRIORITY | URI |\n|------|--------|------|----------|-----|\n")
		for _, o := range data.Objects {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n", mdEscape(o.Name), o.Domain, o.Role, o.Priority, mdEscape(o.URI))
		}
		return nil
	case []objinv.SuggestMatch:
		fmt.Fprintf(w, "| SCORE | REF | INDEX |\n|-------|-----|-------|\n")
		for _, m := range data {
			fmt.Fprintf(w, "| %d | %s | %d |\n", m.Score, mdEscape(m.Ref), m.Index)
		}
		return nil
	default:
		return renderJSON(w, result)
	}
}

// ─── Warnings / Stats Footer ─────────────────────────────────────────────────

// PrintFooter writes any warnings to w, followed by a stats line when
// verbose mode is on.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		src := "live"
		if result.Stats.CacheHit {
			src = "cache"
		}
		fmt.Fprintf(w, "\n[%s • %d items • %dms • %s]\n",
			result.GeneratedAt.Format(time.RFC3339),
			result.Stats.Items,
			result.Stats.DurationMs,
			src,
		)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
