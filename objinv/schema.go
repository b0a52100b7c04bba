package objinv

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// inventorySchemaJSON is the JSON Schema that every dict passed to
// Inventory's DictJSON source, or produced by (*Inventory).JSONDict, must
// satisfy: three required scalar fields, zero or more integer-string keyed
// objects each with the six required DataObject fields, an optional
// "metadata" field of any shape, and nothing else at the top level.
const inventorySchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["project", "version", "count"],
  "properties": {
    "project": {"type": "string"},
    "version": {"type": "string"},
    "count": {"type": "integer", "minimum": 0},
    "metadata": {}
  },
  "patternProperties": {
    "^[0-9]+$": {
      "type": "object",
      "required": ["name", "domain", "role", "priority", "uri", "dispname"],
      "properties": {
        "name": {"type": "string"},
        "domain": {"type": "string"},
        "role": {"type": "string"},
        "priority": {"type": "string"},
        "uri": {"type": "string"},
        "dispname": {"type": "string"}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

var inventorySchema = gojsonschema.NewStringLoader(inventorySchemaJSON)

// validateSchema checks dict against inventorySchemaJSON, returning a
// *ValidationError describing every violation found (the index-contiguity
// requirement on "count" vs. the object keys is checked separately by the
// caller, since it is not expressible as a pure JSON-Schema constraint).
func validateSchema(dict map[string]interface{}) error {
	docLoader := gojsonschema.NewGoLoader(dict)
	result, err := gojsonschema.Validate(inventorySchema, docLoader)
	if err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &ValidationError{Reason: fmt.Sprint(msgs)}
	}
	return nil
}
