// internal/extractor/schema.go
package extractor

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// partialSchemaJSON is the contract a model reply must satisfy before it is
// decoded. Kept permissive on purpose: extra keys are tolerated, missing
// arrays default to empty, but scenes must be present and well-typed.
const partialSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["scenes"],
  "properties": {
    "scenes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["scene_number", "slugline_raw"],
        "properties": {
          "scene_number": {"type": "integer", "minimum": 1},
          "slugline_raw": {"type": "string", "minLength": 1},
          "int_ext": {"type": "string"},
          "location_raw": {"type": "string"},
          "time_of_day": {"type": "string"},
          "action_lines": {"type": "array", "items": {"type": "string"}},
          "dialogue": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["character_key", "text"],
              "properties": {
                "character_key": {"type": "string", "minLength": 1},
                "text": {"type": "string"}
              }
            }
          }
        }
      }
    },
    "characters": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["canonical_name"],
        "properties": {
          "canonical_name": {"type": "string", "minLength": 1},
          "aliases": {"type": "array", "items": {"type": "string"}},
          "dialogue_line_count": {"type": "integer", "minimum": 0},
          "word_count": {"type": "integer", "minimum": 0},
          "scenes_present": {"type": "array", "items": {"type": "integer"}}
        }
      }
    },
    "locations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "variants": {"type": "array", "items": {"type": "string"}},
          "scene_count": {"type": "integer", "minimum": 0}
        }
      }
    },
    "props": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "category": {"type": "string"},
          "mention_count": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var (
	partialSchemaOnce sync.Once
	partialSchema     *jsonschema.Schema
	partialSchemaErr  error
)

func compiledPartialSchema() (*jsonschema.Schema, error) {
	partialSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("partial.json", strings.NewReader(partialSchemaJSON)); err != nil {
			partialSchemaErr = err
			return
		}
		partialSchema, partialSchemaErr = compiler.Compile("partial.json")
	})
	return partialSchema, partialSchemaErr
}

// ValidatePartialJSON checks a candidate reply document against the partial
// extraction contract before decoding.
func ValidatePartialJSON(raw string) error {
	schema, err := compiledPartialSchema()
	if err != nil {
		return fmt.Errorf("compiling reply schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("reply is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("reply violates extraction contract: %w", err)
	}
	return nil
}

// partialSchemaMap returns the schema as a generic map for the chat API's
// structured output request.
func partialSchemaMap() map[string]interface{} {
	var m map[string]interface{}
	// The constant is valid by construction; a decode failure here is a
	// programming error surfaced at first use.
	if err := json.Unmarshal([]byte(partialSchemaJSON), &m); err != nil {
		panic(err)
	}
	delete(m, "$schema")
	return m
}
