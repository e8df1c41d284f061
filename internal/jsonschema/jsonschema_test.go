package jsonschema

import (
	"strings"
	"testing"
)

func TestGenerate_FlatStruct(t *testing.T) {
	type sample struct {
		Name    string  `json:"name"`
		Age     int     `json:"age,omitempty"`
		Score   float64 `json:"score"`
		Active  bool    `json:"active"`
		Skipped string  `json:"-"`
		Pointer *string `json:"pointer,omitempty"`
	}

	schema := Generate[sample]()

	if schema.Type != "object" {
		t.Fatalf("Type = %q, want object", schema.Type)
	}
	if schema.Properties["name"].Type != "string" {
		t.Errorf("name type = %q, want string", schema.Properties["name"].Type)
	}
	if schema.Properties["age"].Type != "integer" {
		t.Errorf("age type = %q, want integer", schema.Properties["age"].Type)
	}
	if schema.Properties["score"].Type != "number" {
		t.Errorf("score type = %q, want number", schema.Properties["score"].Type)
	}
	if schema.Properties["active"].Type != "boolean" {
		t.Errorf("active type = %q, want boolean", schema.Properties["active"].Type)
	}
	if _, present := schema.Properties["Skipped"]; present {
		t.Error("fields tagged json:\"-\" must not appear in the schema")
	}

	// name, score, active are required; age (omitempty) and pointer are not.
	want := map[string]bool{"name": true, "score": true, "active": true}
	if len(schema.Required) != len(want) {
		t.Fatalf("Required = %v, want keys %v", schema.Required, want)
	}
	for _, name := range schema.Required {
		if !want[name] {
			t.Errorf("unexpected required field %q", name)
		}
	}
}

func TestGenerate_NestedAndArray(t *testing.T) {
	type inner struct {
		ID string `json:"id"`
	}
	type outer struct {
		Items   []inner           `json:"items"`
		Aliases map[string]string `json:"aliases,omitempty"`
	}

	schema := Generate[outer]()

	items := schema.Properties["items"]
	if items.Type != "array" {
		t.Fatalf("items type = %q, want array", items.Type)
	}
	if items.Items == nil || items.Items.Properties["id"].Type != "string" {
		t.Errorf("items element schema missing id property: %v", items.Items)
	}

	aliases := schema.Properties["aliases"]
	if aliases.Type != "object" {
		t.Errorf("aliases type = %q, want object", aliases.Type)
	}
	if aliases.AdditionalProperties == nil {
		t.Error("aliases should allow string additionalProperties")
	}
}

func TestGenerate_Tags(t *testing.T) {
	type tagged struct {
		Kind  string `json:"kind" jsonschema:"required,enum=improved,enum=excellent,description=result verdict"`
		Count int    `json:"count,omitempty" jsonschema:"enum=1,enum=2"`
	}

	schema := Generate[tagged]()

	kind := schema.Properties["kind"]
	if kind.Description != "result verdict" {
		t.Errorf("kind description = %q", kind.Description)
	}
	if len(kind.Enum) != 2 || kind.Enum[0] != "improved" || kind.Enum[1] != "excellent" {
		t.Errorf("kind enum = %v", kind.Enum)
	}

	count := schema.Properties["count"]
	if len(count.Enum) != 2 {
		t.Errorf("count enum = %v, want two integer values", count.Enum)
	}

	// kind is required by tag even without it being a value field; count keeps
	// its omitempty optionality.
	foundKind := false
	for _, name := range schema.Required {
		if name == "count" {
			t.Error("count must not be required")
		}
		if name == "kind" {
			foundKind = true
		}
	}
	if !foundKind {
		t.Error("kind must be required")
	}
}

func TestSchema_JsonString(t *testing.T) {
	type sample struct {
		Name string `json:"name"`
	}

	schema := Generate[sample]()

	compact, err := schema.JsonString()
	if err != nil {
		t.Fatalf("JsonString() error = %v", err)
	}
	if strings.Contains(compact, "\n") {
		t.Errorf("compact output contains newlines: %q", compact)
	}
	if !strings.Contains(compact, `"name"`) {
		t.Errorf("output missing property name: %q", compact)
	}

	indented, err := schema.JsonString(true)
	if err != nil {
		t.Fatalf("JsonString(true) error = %v", err)
	}
	if !strings.Contains(indented, "\n") {
		t.Errorf("indented output has no newlines: %q", indented)
	}
}
