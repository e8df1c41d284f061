package coerce

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/frogg-app/prompt-assistant/core/result"
)

const improvedJSON = `{"improved_prompt":"Write a Go CLI that lists stale branches.","assumptions":["git is installed"]}`

func TestResult_PlainJSON(t *testing.T) {
	res, err := Result(improvedJSON, false)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if res.ImprovedPrompt != "Write a Go CLI that lists stale branches." {
		t.Errorf("ImprovedPrompt = %q", res.ImprovedPrompt)
	}
	if res.Kind() != result.KindImproved {
		t.Errorf("Kind() = %q, want improved", res.Kind())
	}
}

func TestResult_JSONWrappedInProse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "leading prose", raw: "Sure, here is the refined prompt:\n" + improvedJSON},
		{name: "trailing prose", raw: improvedJSON + "\nLet me know if you need anything else!"},
		{name: "both sides", raw: "Here you go:\n```json\n" + improvedJSON + "\n```\nHope that helps."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Result(tt.raw, false)
			if err != nil {
				t.Fatalf("Result() error = %v", err)
			}
			if res.ImprovedPrompt == "" {
				t.Error("expected improved prompt to survive prose stripping")
			}
		})
	}
}

func TestResult_RepairsDamagedJSON(t *testing.T) {
	// Single quotes and a trailing comma: invalid JSON that jsonrepair fixes.
	raw := `{'improved_prompt': 'Refined.', 'assumptions': ['a', 'b'],}`

	res, err := Result(raw, false)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if res.ImprovedPrompt != "Refined." {
		t.Errorf("ImprovedPrompt = %q", res.ImprovedPrompt)
	}
}

func TestResult_NoJSONIsHardFailure(t *testing.T) {
	tests := []string{
		"",
		"   \n\t  ",
		"I could not produce a prompt for that request.",
		"unbalanced } { braces",
	}

	for _, raw := range tests {
		_, err := Result(raw, false)
		if err == nil {
			t.Errorf("Result(%q) expected failure", raw)
			continue
		}
		var malformed *MalformedError
		if !errors.As(err, &malformed) {
			t.Errorf("Result(%q) error type = %T, want *MalformedError", raw, err)
		}
	}
}

func TestResult_MixedShapeRejected(t *testing.T) {
	raw := `{"improved_prompt":"done","clarifications":[{"id":"scope","question":"What scope?","type":"short_text"}]}`

	_, err := Result(raw, false)
	if err == nil {
		t.Fatal("expected mixed shape to be rejected")
	}
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("error type = %T, want *MalformedError", err)
	}
	if !strings.Contains(malformed.Reason, "shape invariant") {
		t.Errorf("Reason = %q, want shape invariant mention", malformed.Reason)
	}
}

func TestResult_ExcerptIsBounded(t *testing.T) {
	raw := strings.Repeat("x", 5000)
	_, err := Result(raw, false)

	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("error type = %T, want *MalformedError", err)
	}
	if len(malformed.Excerpt) > excerptLen+100 {
		t.Errorf("excerpt length = %d, want bounded near %d", len(malformed.Excerpt), excerptLen)
	}
}

func TestResult_RoundTrip(t *testing.T) {
	original := &result.StructuredResult{
		Clarifications: []result.ClarificationItem{{
			ID:          "output_format",
			Question:    "What output format do you need?",
			WhyRequired: "the refined prompt must pin the format",
			Type:        result.ClarificationSingleSelect,
			Options:     []string{"json", "markdown"},
		}},
	}

	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	decoded, err := Result(string(encoded), false)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round-trip mismatch:\noriginal: %+v\ndecoded:  %+v", original, decoded)
	}
}

func TestDecode_GenericTarget(t *testing.T) {
	type probe struct {
		Name  string   `json:"name"`
		Items []string `json:"items"`
	}

	decoded, err := Decode[probe]("noise before {\"name\":\"n\",\"items\":[\"a\"]} noise after")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Name != "n" || len(decoded.Items) != 1 {
		t.Errorf("Decode() = %+v", decoded)
	}
}
