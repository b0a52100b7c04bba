// Package objinv implements the inventory codec and object model used to
// link documentation sites: reading, writing, inspecting, and transforming
// the compact "objects inventory" format (a four-line plaintext header
// followed by a zlib-compressed body of symbol records).
//
// The package is split across files, each covering one layer of the
// decode/encode pipeline:
//
//	codec.go          — zlib compress/decompress, header-preserving
//	lineparser.go      — plaintext body tokenizer (header + record lines)
//	dataobject.go      — the six-field record type, byte/text encodings
//	inventory.go       — the aggregate, source dispatch, plaintext emission
//	inventory_json.go  — JSON dict emission/import
//	schema.go          — JSON schema validation wiring
//	suggest.go         — fuzzy search over object reference strings
//	fetch.go           — URL byte-source retrieval
//	errors.go          — error kinds (this file)
package objinv

import "fmt"

// FormatError reports a malformed or truncated plaintext header.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("objinv: format error: %s", e.Reason)
}

// VersionError reports a header announcing an inventory format version
// other than the one this codec implements (2).
type VersionError struct {
	Got string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("objinv: unsupported inventory version %q (only version 2 is supported)", e.Got)
}

// CodecError wraps a zlib inflate/deflate failure.
type CodecError struct {
	Op  string // "compress" or "decompress"
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("objinv: %s failed: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// ValidationError reports a JSON dictionary that violates the inventory
// schema: missing/extra top-level keys, non-contiguous object indices, or
// an object missing a required field.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("objinv: JSON dict failed schema validation: %s", e.Reason)
}

// MultipleSourcesError reports that more than one source was supplied to
// NewInventory (a positional source together with a named one, or more
// than one named source).
type MultipleSourcesError struct {
	Reason string
}

func (e *MultipleSourcesError) Error() string {
	return fmt.Sprintf("objinv: multiple inventory sources supplied: %s", e.Reason)
}

// TypeError reports a wrong-arity or wrong-encoding construction of a
// DataObject (a missing required field, an empty field value, or mixed
// byte/text encodings in a single construction call), or a positional
// Inventory source value that could not be classified into any of the six
// known source varieties ("invalid source", matching the original Python
// project's TypeError on an unclassifiable source).
type TypeError struct {
	Reason string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("objinv: type error: %s", e.Reason)
}

// ValueError reports a count mismatch on JSON import, or a mutually
// exclusive option pair (expand+contract) requested together.
type ValueError struct {
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("objinv: value error: %s", e.Reason)
}
