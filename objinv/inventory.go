package objinv

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// SourceType tags how an Inventory was constructed. The iteration order
// matches the source-probing order classifySource uses, with Manual (no
// source) first since it is the degenerate case construction falls back
// to when nothing is supplied.
type SourceType int

const (
	Manual SourceType = iota
	BytesPlaintext
	BytesZlib
	FnamePlaintext
	FnameZlib
	DictJSON
	URL
)

func (s SourceType) String() string {
	switch s {
	case Manual:
		return "Manual"
	case BytesPlaintext:
		return "BytesPlaintext"
	case BytesZlib:
		return "BytesZlib"
	case FnamePlaintext:
		return "FnamePlaintext"
	case FnameZlib:
		return "FnameZlib"
	case DictJSON:
		return "DictJSON"
	case URL:
		return "URL"
	default:
		return "Unknown"
	}
}

// Inventory is the aggregate object model: a project/version pair and an
// ordered list of DataObjStr records, plus the tag recording how it was
// built.
type Inventory struct {
	Project    string
	Version    string
	Objects    []*DataObjStr
	SourceType SourceType
}

// Count returns the number of objects currently held, always equal to
// len(inv.Objects).
func (inv *Inventory) Count() int {
	return len(inv.Objects)
}

// NewManualInventory returns an empty inventory with no project/version,
// ready for the caller to populate by hand.
func NewManualInventory() *Inventory {
	return &Inventory{SourceType: Manual}
}

// Options describes the (at most one) source to construct an Inventory
// from. Supplying more than one non-zero field, or both Source and a
// named field, is an error.
type Options struct {
	// Source, when non-nil, is classified by probing in a fixed order:
	// []byte is tried as BytesPlaintext then BytesZlib; string is tried
	// as FnamePlaintext, then FnameZlib, then URL; map[string]interface{}
	// is tried as DictJSON.
	Source interface{}

	Plaintext  []byte
	Zlib       []byte
	FnamePlain string
	FnameZlib  string
	URL        string
	DictJSON   map[string]interface{}

	// IgnoreCountMismatch relaxes DictJSON import: when true, a "count"
	// field that disagrees with the number of present object indices is
	// tolerated (missing indices are simply skipped) rather than raising
	// *ValueError. Default false means count mismatches are rejected.
	IgnoreCountMismatch bool

	// Context is used for the URL source; defaults to context.Background
	// when nil.
	Context context.Context
}

// NewInventory constructs an Inventory from opts. Passing nil yields a
// Manual (empty) inventory, equivalent to NewManualInventory.
func NewInventory(opts *Options) (*Inventory, error) {
	if opts == nil {
		return NewManualInventory(), nil
	}

	supplied := 0
	if opts.Source != nil {
		supplied++
	}
	if opts.Plaintext != nil {
		supplied++
	}
	if opts.Zlib != nil {
		supplied++
	}
	if opts.FnamePlain != "" {
		supplied++
	}
	if opts.FnameZlib != "" {
		supplied++
	}
	if opts.URL != "" {
		supplied++
	}
	if opts.DictJSON != nil {
		supplied++
	}

	if supplied == 0 {
		return NewManualInventory(), nil
	}
	if supplied > 1 {
		return nil, &MultipleSourcesError{Reason: "more than one of Source/Plaintext/Zlib/FnamePlain/FnameZlib/URL/DictJSON was supplied"}
	}

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case opts.Plaintext != nil:
		return fromPlaintextBytes(opts.Plaintext)
	case opts.Zlib != nil:
		return fromZlibBytes(opts.Zlib)
	case opts.FnamePlain != "":
		return fromFilePlain(opts.FnamePlain)
	case opts.FnameZlib != "":
		return fromFileZlib(opts.FnameZlib)
	case opts.URL != "":
		return fromURL(ctx, opts.URL)
	case opts.DictJSON != nil:
		return fromDictJSON(opts.DictJSON, !opts.IgnoreCountMismatch)
	default:
		return classifySource(ctx, opts.Source)
	}
}

// classifySource implements the six-way probing dispatch for a positional
// source value of unknown shape.
func classifySource(ctx context.Context, v interface{}) (*Inventory, error) {
	switch x := v.(type) {
	case []byte:
		if inv, err := fromPlaintextBytes(x); err == nil {
			return inv, nil
		}
		if inv, err := fromZlibBytes(x); err == nil {
			return inv, nil
		}
		return nil, &TypeError{Reason: "invalid source: byte buffer is neither valid plaintext nor valid zlib inventory data"}

	case string:
		if fileExists(x) {
			if inv, err := fromFilePlain(x); err == nil {
				return inv, nil
			}
			if inv, err := fromFileZlib(x); err == nil {
				return inv, nil
			}
			return nil, &TypeError{Reason: fmt.Sprintf("invalid source: file %q exists but is neither valid plaintext nor valid zlib inventory data", x)}
		}
		if looksLikeURL(x) {
			return fromURL(ctx, x)
		}
		return nil, &TypeError{Reason: fmt.Sprintf("invalid source: %q is neither an existing file nor a URL", x)}

	case map[string]interface{}:
		return fromDictJSON(x, true)

	default:
		return nil, &TypeError{Reason: fmt.Sprintf("invalid source: unsupported source value of type %T", v)}
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// fromPlaintextBytes builds an Inventory directly from plaintext bytes.
func fromPlaintextBytes(b []byte) (*Inventory, error) {
	hdr, rawObjs, err := parsePlaintext(b)
	if err != nil {
		return nil, err
	}
	objs := make([]*DataObjStr, len(rawObjs))
	for i, o := range rawObjs {
		objs[i] = o.AsText()
	}
	return &Inventory{
		Project:    hdr.Project,
		Version:    hdr.Version,
		Objects:    objs,
		SourceType: BytesPlaintext,
	}, nil
}

// fromZlibBytes decompresses b to plaintext and builds an Inventory from
// it, tagged BytesZlib.
func fromZlibBytes(b []byte) (*Inventory, error) {
	plain, err := decompress(b)
	if err != nil {
		return nil, err
	}
	inv, err := fromPlaintextBytes(plain)
	if err != nil {
		return nil, err
	}
	inv.SourceType = BytesZlib
	return inv, nil
}

// fromFilePlain reads path and builds an Inventory from its plaintext
// contents, tagged FnamePlaintext.
func fromFilePlain(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("objinv: reading %s: %w", path, err)
	}
	inv, err := fromPlaintextBytes(data)
	if err != nil {
		return nil, err
	}
	inv.SourceType = FnamePlaintext
	return inv, nil
}

// fromFileZlib reads path and builds an Inventory from its zlib-compressed
// contents, tagged FnameZlib.
func fromFileZlib(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("objinv: reading %s: %w", path, err)
	}
	inv, err := fromZlibBytes(data)
	if err != nil {
		return nil, err
	}
	inv.SourceType = FnameZlib
	return inv, nil
}

// fromURL fetches bytes from url and classifies them as BytesZlib or
// BytesPlaintext.
func fromURL(ctx context.Context, url string) (*Inventory, error) {
	data, err := FetchURL(ctx, url)
	if err != nil {
		return nil, err
	}
	var inv *Inventory
	if inv, err = fromZlibBytes(data); err != nil {
		inv, err = fromPlaintextBytes(data)
	}
	if err != nil {
		return nil, &TypeError{Reason: fmt.Sprintf("invalid source: data fetched from %s is neither valid zlib nor valid plaintext inventory data", url)}
	}
	inv.SourceType = URL
	return inv, nil
}

// DataFile emits the full plaintext form of inv: the four-line header
// followed by one record line per object, in order, terminated by a
// single trailing newline.
func (inv *Inventory) DataFile(mode DataMode) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sphinx inventory version 2\n")
	fmt.Fprintf(&b, "# Project: %s\n", inv.Project)
	fmt.Fprintf(&b, "# Version: %s\n", inv.Version)
	fmt.Fprintf(&b, "# The remainder of this file is compressed using zlib.\n")

	for _, obj := range inv.Objects {
		line, err := obj.DataLine(mode)
		if err != nil {
			return nil, err
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

// WireFile emits the full wire form of inv: the plaintext header and
// records from DataFile, with the body compressed per the zlib wire format
// spec.md §6.1 describes (the on-disk shape an objects.inv file is
// actually published in).
func (inv *Inventory) WireFile(mode DataMode) ([]byte, error) {
	plain, err := inv.DataFile(mode)
	if err != nil {
		return nil, err
	}
	return compress(plain)
}
