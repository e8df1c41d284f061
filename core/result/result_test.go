package result

import (
	"strings"
	"testing"
)

func improvedResult() *StructuredResult {
	return &StructuredResult{
		ImprovedPrompt: "Write a Go function that parses RFC 3339 timestamps.",
		Assumptions:    []string{"the caller wants UTC output"},
	}
}

func clarificationResult() *StructuredResult {
	return &StructuredResult{
		Clarifications: []ClarificationItem{{
			ID:       "target_language",
			Question: "Which programming language should the prompt target?",
			Type:     ClarificationShortText,
		}},
	}
}

func TestValidate_AcceptsEachShape(t *testing.T) {
	if err := improvedResult().Validate(false); err != nil {
		t.Errorf("improved result rejected: %v", err)
	}
	if err := clarificationResult().Validate(false); err != nil {
		t.Errorf("clarification result rejected: %v", err)
	}

	excellent := &StructuredResult{
		ImprovedPrompt:   "unchanged prompt",
		IsExcellent:      true,
		ExcellenceReason: "already specific, scoped and testable",
		LearningReport:   "nothing to improve",
	}
	if err := excellent.Validate(true); err != nil {
		t.Errorf("excellent result rejected with grading enabled: %v", err)
	}
}

func TestValidate_RejectsMixedShape(t *testing.T) {
	mixed := clarificationResult()
	mixed.ImprovedPrompt = "also improved"

	err := mixed.Validate(false)
	if err == nil {
		t.Fatal("expected mixed result to be rejected")
	}
	if !strings.Contains(err.Error(), "both") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidate_RejectsEmptyShape(t *testing.T) {
	if err := (&StructuredResult{}).Validate(false); err == nil {
		t.Fatal("expected empty result to be rejected")
	}
}

func TestValidate_RejectsExcellentWithoutGrading(t *testing.T) {
	excellent := improvedResult()
	excellent.IsExcellent = true
	excellent.ExcellenceReason = "perfect"

	if err := excellent.Validate(false); err == nil {
		t.Fatal("expected excellent result to be rejected when grading is disabled")
	}
}

func TestValidate_RejectsExcellentWithoutReason(t *testing.T) {
	excellent := improvedResult()
	excellent.IsExcellent = true

	if err := excellent.Validate(true); err == nil {
		t.Fatal("expected excellent result without excellence_reason to be rejected")
	}
}

func TestValidate_ClarificationItems(t *testing.T) {
	tests := []struct {
		name string
		item ClarificationItem
	}{
		{name: "missing id", item: ClarificationItem{Question: "q", Type: ClarificationShortText}},
		{name: "id not snake_case", item: ClarificationItem{ID: "TargetLanguage", Question: "q", Type: ClarificationShortText}},
		{name: "missing question", item: ClarificationItem{ID: "ok_id", Type: ClarificationShortText}},
		{name: "unknown type", item: ClarificationItem{ID: "ok_id", Question: "q", Type: "dropdown"}},
		{name: "select without options", item: ClarificationItem{ID: "ok_id", Question: "q", Type: ClarificationSingleSelect}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &StructuredResult{Clarifications: []ClarificationItem{tt.item}}
			if err := r.Validate(false); err == nil {
				t.Errorf("expected item %+v to be rejected", tt.item)
			}
		})
	}
}

func TestValidate_DuplicateClarificationIDs(t *testing.T) {
	r := &StructuredResult{Clarifications: []ClarificationItem{
		{ID: "audience", Question: "Who is the audience?", Type: ClarificationShortText},
		{ID: "audience", Question: "Repeat of the above", Type: ClarificationShortText},
	}}
	if err := r.Validate(false); err == nil {
		t.Fatal("expected duplicate clarification ids to be rejected")
	}
}

func TestKind(t *testing.T) {
	if kind := clarificationResult().Kind(); kind != KindNeedsClarification {
		t.Errorf("Kind() = %q, want %q", kind, KindNeedsClarification)
	}
	if kind := improvedResult().Kind(); kind != KindImproved {
		t.Errorf("Kind() = %q, want %q", kind, KindImproved)
	}

	excellent := improvedResult()
	excellent.IsExcellent = true
	excellent.ExcellenceReason = "crisp"
	if kind := excellent.Kind(); kind != KindExcellent {
		t.Errorf("Kind() = %q, want %q", kind, KindExcellent)
	}
}

func TestSchema_DescribesUnionFields(t *testing.T) {
	schema := Schema()
	if schema.Type != "object" {
		t.Fatalf("schema type = %q, want object", schema.Type)
	}
	for _, field := range []string{"clarifications", "improved_prompt", "assumptions", "excellence_reason"} {
		if _, ok := schema.Properties[field]; !ok {
			t.Errorf("schema missing property %q", field)
		}
	}

	items := schema.Properties["clarifications"].Items
	if items == nil {
		t.Fatal("clarifications schema has no item schema")
	}
	typeSchema := items.Properties["type"]
	if typeSchema == nil || len(typeSchema.Enum) != 6 {
		t.Errorf("clarification type schema should enumerate six widget types, got %v", typeSchema)
	}
}
