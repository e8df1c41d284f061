// Package result defines the structured outcome of a dispatch call: the
// three-way tagged union of needs-clarification, excellent and improved, the
// clarification item model, and the validation rules that reject partially
// populated or mixed shapes.
package result
