package utils

import (
	"strings"
	"testing"
)

// TestJSONToString_Compact verifies that JSONToString produces compact JSON by default.
func TestJSONToString_Compact(t *testing.T) {
	input := map[string]int{"a": 1, "b": 2}
	result := JSONToString(input)

	if strings.Contains(result, "\n") {
		t.Errorf("JSONToString() compact mode should not contain newlines, got: %q", result)
	}
	if !strings.Contains(result, `"a"`) {
		t.Errorf("JSONToString() result missing key 'a': %q", result)
	}
}

// TestJSONToString_MarshalError verifies that JSONToString returns an error
// sentinel string rather than panicking when the value cannot be marshaled.
func TestJSONToString_MarshalError(t *testing.T) {
	// Channels cannot be marshaled to JSON.
	input := make(chan int)
	result := JSONToString(input)

	if !strings.HasPrefix(result, `{"error":`) {
		t.Errorf("JSONToString() on unmarshalable value should return error JSON, got: %q", result)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		maxLen  int
		wantCut bool
	}{
		{name: "shorter than limit", input: "hello", maxLen: 10, wantCut: false},
		{name: "exactly at limit", input: "hello", maxLen: 5, wantCut: false},
		{name: "longer than limit", input: strings.Repeat("x", 600), maxLen: 100, wantCut: true},
		{name: "zero limit uses default", input: "short", maxLen: 0, wantCut: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateString(tt.input, tt.maxLen)
			if tt.wantCut {
				if !strings.Contains(result, "truncated") {
					t.Errorf("TruncateString() expected truncation marker, got: %q", result)
				}
				if len(result) >= len(tt.input) {
					t.Errorf("TruncateString() did not shorten input: %d -> %d", len(tt.input), len(result))
				}
			} else if result != tt.input {
				t.Errorf("TruncateString() = %q, want unchanged %q", result, tt.input)
			}
		})
	}
}
