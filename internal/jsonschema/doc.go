// Package jsonschema generates JSON Schema documents from Go types via
// reflection. The schemas describe the exact output shape a provider must
// produce: they are passed verbatim to CLI transports as an argument and
// used to drive the structural validation of HTTP transport responses.
//
// Struct fields are customised through the `jsonschema` tag:
//
//	type Result struct {
//	    Verdict string `json:"verdict" jsonschema:"required,enum=improved,enum=excellent"`
//	    Notes   string `json:"notes,omitempty" jsonschema:"description=free-form grading notes"`
//	}
//
// Use [Generate] to build a schema and [Schema.JsonString] to serialise it.
package jsonschema
