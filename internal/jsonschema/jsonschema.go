package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema represents the structure of a JSON Schema document used for
// defining provider output shapes. It follows the JSON Schema standard,
// supporting object, array and primitive types with per-property schemas,
// required lists and enum constraints.
type Schema struct {
	// Type specifies the data type (e.g., "object", "array", "string", "number")
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of the object, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties controls whether properties not defined in Properties are allowed
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Default value for the property
	Default any `json:"default,omitempty"`
	// Enum contains the list of allowed values for the property
	Enum []any `json:"enum,omitempty"`
}

// Generate builds a JSON schema for the type parameter T. Pointer fields and
// fields tagged with omitempty are optional; everything else is required.
// The `jsonschema` struct tag refines individual property schemas (see the
// package documentation).
//
// T must not be a self-referential type: provider output shapes are flat
// tagged unions, so recursion support is deliberately not implemented.
func Generate[T any]() *Schema {
	return generate(reflect.TypeFor[T]())
}

func generate(t reflect.Type) *Schema {
	switch t.Kind() {
	case reflect.Ptr:
		return generate(t.Elem())
	case reflect.Struct:
		return generateStruct(t)
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: generate(t.Elem())}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: generate(t.Elem())}
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	default:
		// interface{} fields and anything else we cannot introspect
		return &Schema{}
	}
}

func generateStruct(t reflect.Type) *Schema {
	schema := &Schema{
		Type:       "object",
		Properties: map[string]*Schema{},
	}
	required := make([]string, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		isOmitEmpty := false
		if jsonTag != "" {
			if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
				if commaIdx > 0 {
					fieldName = jsonTag[:commaIdx]
				}
				isOmitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
			} else {
				fieldName = jsonTag
			}
		}

		fieldSchema := generate(field.Type)
		isRequiredByTag := applyTag(field.Type, field.Tag, fieldSchema)
		schema.Properties[fieldName] = fieldSchema

		if (field.Type.Kind() != reflect.Ptr && !isOmitEmpty) || isRequiredByTag {
			required = append(required, fieldName)
		}
	}

	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

// applyTag parses the jsonschema struct tag and applies the settings to the
// property schema. Supported entries: "description=...", repeated "enum=..."
// (coerced to the field's kind), and the bare "required" marker. It reports
// whether the required marker was present. Unparseable enum values are
// skipped rather than failing schema generation.
func applyTag(fieldType reflect.Type, tag reflect.StructTag, schema *Schema) bool {
	raw := tag.Get("jsonschema")
	if raw == "" {
		return false
	}

	isRequired := false
	for _, item := range strings.Split(raw, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		if !hasValue {
			if key == "required" {
				isRequired = true
			}
			continue
		}
		switch key {
		case "description":
			schema.Description = value
		case "enum":
			if enumValue, err := coerceEnum(fieldType, value); err == nil {
				schema.Enum = append(schema.Enum, enumValue)
			}
		}
	}
	return isRequired
}

func coerceEnum(fieldType reflect.Type, value string) (any, error) {
	kind := fieldType.Kind()
	for kind == reflect.Ptr || kind == reflect.Slice || kind == reflect.Array {
		fieldType = fieldType.Elem()
		kind = fieldType.Kind()
	}
	switch kind {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseInt(value, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(value, 64)
	case reflect.Bool:
		return strconv.ParseBool(value)
	default:
		return nil, fmt.Errorf("enum tag unsupported for field type: %v", fieldType)
	}
}

// JsonString converts the Schema to its JSON representation.
// indent: optional bool parameter. If true, formats JSON with indentation.
// If false or omitted, returns compact JSON.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	shouldIndent := len(indent) > 0 && indent[0]

	var jsonBytes []byte
	var err error
	if shouldIndent {
		jsonBytes, err = json.MarshalIndent(s, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// String returns the compact JSON representation of the schema, or an error
// message if marshalling fails.
func (s *Schema) String() string {
	jsonStr, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return jsonStr
}
