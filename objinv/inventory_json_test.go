package objinv

import "testing"

func sampleDict() map[string]interface{} {
	return map[string]interface{}{
		"project": "p",
		"version": "v",
		"count":   1,
		"0": map[string]interface{}{
			"name": "attr.Attribute", "domain": "py", "role": "class",
			"priority": "1", "uri": "api.html#$", "dispname": "-",
		},
	}
}

func TestJSONDictRoundTrip(t *testing.T) {
	inv, err := NewInventory(&Options{Plaintext: []byte(minimalPlaintext)})
	if err != nil {
		t.Fatalf("NewInventory: %v", err)
	}
	dict := inv.JSONDict(ModeAsIs)
	if dict["project"] != "p" || dict["version"] != "v" || dict["count"] != 1 {
		t.Errorf("dict = %+v", dict)
	}
	if _, ok := dict["metadata"]; ok {
		t.Error("JSONDict must not populate metadata itself")
	}

	inv2, err := NewInventoryFromDictJSON(dict, true)
	if err != nil {
		t.Fatalf("NewInventoryFromDictJSON: %v", err)
	}
	if inv2.Project != inv.Project || inv2.Version != inv.Version || inv2.Count() != inv.Count() {
		t.Errorf("round trip mismatch: got %+v, want %+v", inv2, inv)
	}
	if *inv2.Objects[0] != *inv.Objects[0] {
		t.Errorf("object round trip mismatch: got %+v, want %+v", *inv2.Objects[0], *inv.Objects[0])
	}
}

func TestFromDictJSONValid(t *testing.T) {
	inv, err := NewInventoryFromDictJSON(sampleDict(), true)
	if err != nil {
		t.Fatalf("NewInventoryFromDictJSON: %v", err)
	}
	if inv.SourceType != DictJSON {
		t.Errorf("SourceType = %v, want DictJSON", inv.SourceType)
	}
	if inv.Count() != 1 {
		t.Errorf("Count() = %d, want 1", inv.Count())
	}
}

func TestFromDictJSONMissingTopLevelKeyIsValidationError(t *testing.T) {
	dict := sampleDict()
	delete(dict, "version")
	_, err := NewInventoryFromDictJSON(dict, true)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
}

func TestFromDictJSONExtraTopLevelKeyIsValidationError(t *testing.T) {
	dict := sampleDict()
	dict["unexpected"] = "nope"
	_, err := NewInventoryFromDictJSON(dict, true)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError for unrecognized top-level key, got %T: %v", err, err)
	}
}

func TestFromDictJSONMetadataIsAllowed(t *testing.T) {
	dict := sampleDict()
	dict["metadata"] = map[string]interface{}{"generated_by": "some-tool"}
	inv, err := NewInventoryFromDictJSON(dict, true)
	if err != nil {
		t.Fatalf("NewInventoryFromDictJSON with metadata: %v", err)
	}
	if inv.Count() != 1 {
		t.Errorf("Count() = %d, want 1", inv.Count())
	}
}

func TestFromDictJSONCountMismatchStrictErrors(t *testing.T) {
	dict := sampleDict()
	dict["count"] = 2
	_, err := NewInventoryFromDictJSON(dict, true)
	if _, ok := err.(*ValueError); !ok {
		t.Fatalf("expected *ValueError for count/present mismatch, got %T: %v", err, err)
	}
}

func TestFromDictJSONCountMismatchRelaxedSkipsMissing(t *testing.T) {
	dict := sampleDict()
	dict["count"] = 2
	inv, err := NewInventoryFromDictJSON(dict, false)
	if err != nil {
		t.Fatalf("NewInventoryFromDictJSON with countError=false: %v", err)
	}
	if inv.Count() != 1 {
		t.Errorf("Count() = %d, want 1 (only the present index)", inv.Count())
	}
}

func TestFromDictJSONIndexAtOrBeyondCountAlwaysErrors(t *testing.T) {
	dict := sampleDict()
	dict["1"] = dict["0"]
	dict["count"] = 1
	_, err := NewInventoryFromDictJSON(dict, false)
	if _, ok := err.(*ValueError); !ok {
		t.Fatalf("expected *ValueError: index 1 is at or beyond declared count 1 regardless of countError, got %T: %v", err, err)
	}
}

func TestFromDictJSONObjectMissingFieldIsValidationError(t *testing.T) {
	dict := sampleDict()
	obj := dict["0"].(map[string]interface{})
	delete(obj, "role")
	_, err := NewInventoryFromDictJSON(dict, true)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError for object missing a required field, got %T: %v", err, err)
	}
}
