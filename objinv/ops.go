package objinv

import "fmt"

// objKey identifies a DataObject for set-comparison purposes: its
// name/domain/role triple, the same fields Sphinx uses to build a
// cross-reference target.
type objKey struct {
	Name, Domain, Role string
}

func keyOf(o *DataObjStr) objKey {
	return objKey{Name: o.Name, Domain: o.Domain, Role: o.Role}
}

// InventoryDiff reports the object-level difference between two
// inventories sharing the same identity key (name/domain/role): objects
// present only in the new inventory, objects present only in the old one,
// and objects present in both but with a different priority/uri/dispname.
type InventoryDiff struct {
	Added   []*DataObjStr
	Removed []*DataObjStr
	Changed []ChangedObject
}

// ChangedObject pairs the old and new record for an object whose identity
// key matches but whose remaining fields differ.
type ChangedObject struct {
	Old *DataObjStr
	New *DataObjStr
}

// Diff compares old and new by object identity key. It is a pure
// function over its two slices: no I/O, no mutation of either argument.
func Diff(old, new *Inventory) InventoryDiff {
	oldByKey := make(map[objKey]*DataObjStr, len(old.Objects))
	for _, o := range old.Objects {
		oldByKey[keyOf(o)] = o
	}
	newByKey := make(map[objKey]*DataObjStr, len(new.Objects))
	for _, o := range new.Objects {
		newByKey[keyOf(o)] = o
	}

	var diff InventoryDiff
	for _, o := range new.Objects {
		k := keyOf(o)
		prior, existed := oldByKey[k]
		if !existed {
			diff.Added = append(diff.Added, o)
			continue
		}
		if prior.Priority != o.Priority || prior.URI != o.URI || prior.Dispname != o.Dispname {
			diff.Changed = append(diff.Changed, ChangedObject{Old: prior, New: o})
		}
	}
	for _, o := range old.Objects {
		if _, stillPresent := newByKey[keyOf(o)]; !stillPresent {
			diff.Removed = append(diff.Removed, o)
		}
	}
	return diff
}

// Merge combines invs, which must share the same project, concatenating
// their object lists in argument order and dropping exact duplicate
// records (same identity key and same priority/uri/dispname). The merged
// inventory's version is taken from the first input; callers wanting a
// different version should set it on the result afterward.
func Merge(invs ...*Inventory) (*Inventory, error) {
	if len(invs) == 0 {
		return nil, fmt.Errorf("objinv: Merge requires at least one inventory")
	}
	project := invs[0].Project
	for _, inv := range invs[1:] {
		if inv.Project != project {
			return nil, fmt.Errorf("objinv: Merge requires matching project names, got %q and %q", project, inv.Project)
		}
	}

	type recordKey struct {
		objKey
		sig string
	}
	seen := make(map[recordKey]bool)
	merged := &Inventory{
		Project:    project,
		Version:    invs[0].Version,
		SourceType: Manual,
	}
	for _, inv := range invs {
		for _, o := range inv.Objects {
			rk := recordKey{keyOf(o), o.Priority + "\x00" + o.URI + "\x00" + o.Dispname}
			if seen[rk] {
				continue
			}
			seen[rk] = true
			merged.Objects = append(merged.Objects, o)
		}
	}
	return merged, nil
}
