package objinv

import (
	"fmt"
	"strings"
)

// Payload is the constraint satisfied by the two parallel encodings a
// DataObject's six fields may be stored in: raw bytes or decoded text.
// The record type is parameterized over its payload encoding rather than
// duplicated as two structs.
type Payload interface {
	~string | ~[]byte
}

// fieldNames enumerates the six required fields, in canonical order, used
// by both construction validation and json_dict emission.
var fieldNames = [6]string{"name", "domain", "role", "priority", "uri", "dispname"}

// DataMode selects how abbreviations are handled when a DataObject is
// rendered to a single line.
type DataMode int

const (
	// ModeAsIs emits fields exactly as stored, performing no abbreviation
	// expansion or contraction.
	ModeAsIs DataMode = iota
	// ModeExpand resolves both abbreviation conventions (trailing "$" in
	// uri, standalone "-" in dispname) to their full values.
	ModeExpand
	// ModeContract applies both abbreviation conventions wherever legal.
	ModeContract
)

// DataObject is a single inventory record: a documented symbol's name,
// domain, role, search priority, URI fragment, and display string. T is
// instantiated as either []byte (DataObjBytes) or string (DataObjStr); the
// two are convertible via AsBytes/AsText.
type DataObject[T Payload] struct {
	Name     T
	Domain   T
	Role     T
	Priority T
	URI      T
	Dispname T
}

// DataObjBytes is a DataObject whose fields are raw bytes, the form
// produced directly by the LineParser.
type DataObjBytes = DataObject[[]byte]

// DataObjStr is a DataObject whose fields are decoded UTF-8 text, the form
// most callers want to work with.
type DataObjStr = DataObject[string]

func payloadToString[T Payload](v T) string {
	switch x := any(v).(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		panic("objinv: unreachable payload type")
	}
}

func payloadEmpty[T Payload](v T) bool {
	return len(payloadToString(v)) == 0
}

// NewDataObjStr builds a DataObjStr from a field-name-to-value map. All six
// fields in fieldNames must be present and non-empty, or a *TypeError is
// returned.
func NewDataObjStr(fields map[string]string) (*DataObjStr, error) {
	if err := validateFieldSet(fields); err != nil {
		return nil, err
	}
	return &DataObjStr{
		Name:     fields["name"],
		Domain:   fields["domain"],
		Role:     fields["role"],
		Priority: fields["priority"],
		URI:      fields["uri"],
		Dispname: fields["dispname"],
	}, nil
}

// NewDataObjBytes builds a DataObjBytes from a field-name-to-value map. All
// six fields in fieldNames must be present and non-empty, or a *TypeError
// is returned.
func NewDataObjBytes(fields map[string][]byte) (*DataObjBytes, error) {
	strFields := make(map[string]string, len(fields))
	for k, v := range fields {
		strFields[k] = string(v)
	}
	if err := validateFieldSet(strFields); err != nil {
		return nil, err
	}
	return &DataObjBytes{
		Name:     fields["name"],
		Domain:   fields["domain"],
		Role:     fields["role"],
		Priority: fields["priority"],
		URI:      fields["uri"],
		Dispname: fields["dispname"],
	}, nil
}

func validateFieldSet(fields map[string]string) error {
	if len(fields) != len(fieldNames) {
		return &TypeError{Reason: fmt.Sprintf("expected %d fields, got %d", len(fieldNames), len(fields))}
	}
	for _, name := range fieldNames {
		v, ok := fields[name]
		if !ok {
			return &TypeError{Reason: fmt.Sprintf("missing required field %q", name)}
		}
		if v == "" {
			return &TypeError{Reason: fmt.Sprintf("field %q must not be empty", name)}
		}
	}
	return nil
}

// newDataObjectFromBytes builds a DataObjBytes directly from the six raw
// captures the LineParser produced, without going through the map-based
// constructor (the parser already guarantees all six groups are present).
func newDataObjectFromBytes(name, domain, role, priority, uri, dispname []byte) *DataObjBytes {
	return &DataObjBytes{
		Name:     append([]byte(nil), name...),
		Domain:   append([]byte(nil), domain...),
		Role:     append([]byte(nil), role...),
		Priority: append([]byte(nil), priority...),
		URI:      append([]byte(nil), uri...),
		Dispname: append([]byte(nil), dispname...),
	}
}

// AsText returns the text-encoded sibling of d. Round-trips exactly under
// UTF-8.
func (d *DataObjBytes) AsText() *DataObjStr {
	return &DataObjStr{
		Name:     string(d.Name),
		Domain:   string(d.Domain),
		Role:     string(d.Role),
		Priority: string(d.Priority),
		URI:      string(d.URI),
		Dispname: string(d.Dispname),
	}
}

// AsBytes returns the byte-encoded sibling of d. Round-trips exactly under
// UTF-8.
func (d *DataObjStr) AsBytes() *DataObjBytes {
	return &DataObjBytes{
		Name:     []byte(d.Name),
		Domain:   []byte(d.Domain),
		Role:     []byte(d.Role),
		Priority: []byte(d.Priority),
		URI:      []byte(d.URI),
		Dispname: []byte(d.Dispname),
	}
}

// JSONDict returns a flat field-name-to-value mapping in d's own encoding.
func (d *DataObjStr) JSONDict() map[string]string {
	return map[string]string{
		"name":     d.Name,
		"domain":   d.Domain,
		"role":     d.Role,
		"priority": d.Priority,
		"uri":      d.URI,
		"dispname": d.Dispname,
	}
}

// JSONDict returns a flat field-name-to-value mapping in d's own encoding.
func (d *DataObjBytes) JSONDict() map[string][]byte {
	return map[string][]byte{
		"name":     d.Name,
		"domain":   d.Domain,
		"role":     d.Role,
		"priority": d.Priority,
		"uri":      d.URI,
		"dispname": d.Dispname,
	}
}

// expandURI resolves a trailing "$" abbreviation in uri to name.
func expandURI(uri, name string) string {
	if strings.HasSuffix(uri, "$") {
		return uri[:len(uri)-1] + name
	}
	return uri
}

// contractURI applies the trailing "$" abbreviation to uri if its tail
// equals name.
func contractURI(uri, name string) string {
	if strings.HasSuffix(uri, name) {
		return uri[:len(uri)-len(name)] + "$"
	}
	return uri
}

// expandDispname resolves a standalone "-" abbreviation in dispname to
// name.
func expandDispname(dispname, name string) string {
	if dispname == "-" {
		return name
	}
	return dispname
}

// contractDispname applies the standalone "-" abbreviation to dispname if
// it equals name exactly.
func contractDispname(dispname, name string) string {
	if dispname == name {
		return "-"
	}
	return dispname
}

// DataLine renders d as a single record line per the requested mode.
// A DataMode names exactly one mode, so the returned error is always nil;
// the two-flag expand/contract form is checked by dataLineBoth, which
// returns a *ValueError when both are set.
func (d *DataObjStr) DataLine(mode DataMode) (string, error) {
	uri, dispname := d.URI, d.Dispname
	switch mode {
	case ModeExpand:
		uri = expandURI(uri, d.Name)
		dispname = expandDispname(dispname, d.Name)
	case ModeContract:
		uri = contractURI(uri, d.Name)
		dispname = contractDispname(dispname, d.Name)
	case ModeAsIs:
		// fields unchanged
	}
	return fmt.Sprintf("%s %s:%s %s %s %s", d.Name, d.Domain, d.Role, d.Priority, uri, dispname), nil
}

// DataLine renders d as a single record line per the requested mode, in
// byte form.
func (d *DataObjBytes) DataLine(mode DataMode) ([]byte, error) {
	line, err := d.AsText().DataLine(mode)
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}

// dataLineBoth resolves a two-flag expand/contract call shape into a
// DataMode, raising *ValueError if both flags are set simultaneously. CLI
// and test code taking expand/contract as separate booleans should go
// through this instead of constructing a DataMode directly.
func dataLineBoth(expand, contract bool) (DataMode, error) {
	if expand && contract {
		return 0, &ValueError{Reason: "data_line: expand and contract cannot both be true"}
	}
	if expand {
		return ModeExpand, nil
	}
	if contract {
		return ModeContract, nil
	}
	return ModeAsIs, nil
}

// Evolve returns a new DataObjStr equal to d except for the named field
// overrides. Unrecognized keys are ignored.
func (d *DataObjStr) Evolve(overrides map[string]string) *DataObjStr {
	out := *d
	for k, v := range overrides {
		switch k {
		case "name":
			out.Name = v
		case "domain":
			out.Domain = v
		case "role":
			out.Role = v
		case "priority":
			out.Priority = v
		case "uri":
			out.URI = v
		case "dispname":
			out.Dispname = v
		}
	}
	return &out
}

// Evolve returns a new DataObjBytes equal to d except for the named field
// overrides. Unrecognized keys are ignored.
func (d *DataObjBytes) Evolve(overrides map[string][]byte) *DataObjBytes {
	out := *d
	for k, v := range overrides {
		switch k {
		case "name":
			out.Name = v
		case "domain":
			out.Domain = v
		case "role":
			out.Role = v
		case "priority":
			out.Priority = v
		case "uri":
			out.URI = v
		case "dispname":
			out.Dispname = v
		}
	}
	return &out
}

// RefString returns the back-tick-delimited reference string used by
// Suggest: ":<domain>:<role>:`<name>`".
func (d *DataObjStr) RefString() string {
	return fmt.Sprintf(":%s:%s:`%s`", d.Domain, d.Role, d.Name)
}
