package objinv

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

var numericKeyPattern = regexp.MustCompile(`^[0-9]+$`)

// JSONDict produces a structured mapping: "project", "version", "count",
// and one flat object per element keyed by its
// stringified index. uri/dispname abbreviations are expanded or
// contracted per mode before emission; ModeAsIs leaves them untouched.
// The caller may add an opaque "metadata" entry to the returned map
// afterward; JSONDict never populates it itself.
func (inv *Inventory) JSONDict(mode DataMode) map[string]interface{} {
	out := map[string]interface{}{
		"project": inv.Project,
		"version": inv.Version,
		"count":   inv.Count(),
	}
	for i, obj := range inv.Objects {
		out[strconv.Itoa(i)] = objFieldsForMode(obj, mode)
	}
	return out
}

// objFieldsForMode returns obj's flat field map with uri/dispname
// abbreviations resolved per mode, without going through DataLine's
// single-line rendering.
func objFieldsForMode(obj *DataObjStr, mode DataMode) map[string]string {
	uri, dispname := obj.URI, obj.Dispname
	switch mode {
	case ModeExpand:
		uri = expandURI(uri, obj.Name)
		dispname = expandDispname(dispname, obj.Name)
	case ModeContract:
		uri = contractURI(uri, obj.Name)
		dispname = contractDispname(dispname, obj.Name)
	}
	return map[string]string{
		"name":     obj.Name,
		"domain":   obj.Domain,
		"role":     obj.Role,
		"priority": obj.Priority,
		"uri":      uri,
		"dispname": dispname,
	}
}

// NewInventoryFromDictJSON reconstructs an Inventory from a JSON dict.
// countError set true (the default construction path) raises *ValueError
// on any declared/actual count mismatch; false tolerates missing indices,
// yielding a count reflecting what is actually present. An index present
// at or beyond the declared count always raises regardless of countError.
func NewInventoryFromDictJSON(dict map[string]interface{}, countError bool) (*Inventory, error) {
	return fromDictJSON(dict, countError)
}

func fromDictJSON(dict map[string]interface{}, countError bool) (*Inventory, error) {
	if err := validateSchema(dict); err != nil {
		return nil, err
	}

	project, ok := dict["project"].(string)
	if !ok {
		return nil, &ValidationError{Reason: "project must be a string"}
	}
	version, ok := dict["version"].(string)
	if !ok {
		return nil, &ValidationError{Reason: "version must be a string"}
	}
	declaredCount, err := toInt(dict["count"])
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("count: %v", err)}
	}

	var indices []int
	for k := range dict {
		if !numericKeyPattern.MatchString(k) {
			continue
		}
		idx, _ := strconv.Atoi(k)
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	for _, idx := range indices {
		if idx >= declaredCount {
			return nil, &ValueError{Reason: fmt.Sprintf("object index %d is at or beyond declared count %d", idx, declaredCount)}
		}
	}

	present := make([]int, 0, len(indices))
	for _, idx := range indices {
		if idx < declaredCount {
			present = append(present, idx)
		}
	}

	if len(present) != declaredCount && countError {
		return nil, &ValueError{Reason: fmt.Sprintf("declared count %d does not match %d present object entries", declaredCount, len(present))}
	}

	objects := make([]*DataObjStr, 0, len(present))
	for _, idx := range present {
		var raw map[string]interface{}
		switch m := dict[strconv.Itoa(idx)].(type) {
		case map[string]interface{}:
			raw = m
		case map[string]string:
			// The shape JSONDict emits for each object.
			raw = make(map[string]interface{}, len(m))
			for k, v := range m {
				raw[k] = v
			}
		default:
			return nil, &ValidationError{Reason: fmt.Sprintf("object %d is not a JSON object", idx)}
		}
		fields := make(map[string]string, len(fieldNames))
		for _, name := range fieldNames {
			v, ok := raw[name].(string)
			if !ok {
				return nil, &ValidationError{Reason: fmt.Sprintf("object %d field %q is not a string", idx, name)}
			}
			fields[name] = v
		}
		obj, err := NewDataObjStr(fields)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	return &Inventory{
		Project:    project,
		Version:    version,
		Objects:    objects,
		SourceType: DictJSON,
	}, nil
}

func toInt(v interface{}) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		return int(x), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}
