// Package pipeline provides helpers for reading and writing inventory object
// streams via stdin/stdout in JSONL format — the canonical pipe format for
// feeding filtered or hand-edited objects back into objinv.
package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oscargus/objinv/objinv"
)

// objectLine is the JSONL wire shape for a single inventory object.
type objectLine struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Role     string `json:"role"`
	Priority string `json:"priority"`
	URI      string `json:"uri"`
	Dispname string `json:"dispname"`
}

// ReadObjects reads JSONL records from r and returns the decoded objects.
// Each line must be a JSON object with all six required fields; blank lines
// and "//"-prefixed comment lines are skipped.
func ReadObjects(r io.Reader) ([]*objinv.DataObjStr, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var objs []*objinv.DataObjStr
	lineNum := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNum++
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		var rec objectLine
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}

		obj, err := objinv.NewDataObjStr(map[string]string{
			"name":     rec.Name,
			"domain":   rec.Domain,
			"role":     rec.Role,
			"priority": rec.Priority,
			"uri":      rec.URI,
			"dispname": rec.Dispname,
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		objs = append(objs, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if len(objs) == 0 {
		return nil, fmt.Errorf("no objects read from input (is stdin empty?)")
	}
	return objs, nil
}

// WriteJSONL writes objs as JSONL to w, one object per line.
func WriteJSONL(w io.Writer, objs []*objinv.DataObjStr) error {
	enc := json.NewEncoder(w)
	for _, o := range objs {
		rec := objectLine{
			Name: o.Name, Domain: o.Domain, Role: o.Role,
			Priority: o.Priority, URI: o.URI, Dispname: o.Dispname,
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// IsTTY returns true if stdout is a terminal (not a pipe).
func IsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
