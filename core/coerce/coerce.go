package coerce

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/frogg-app/prompt-assistant/core/result"
	"github.com/frogg-app/prompt-assistant/internal/utils"
)

// excerptLen bounds the raw-output excerpt attached to coercion failures.
const excerptLen = 300

// MalformedError reports that raw provider output could not be coerced into
// a valid structured result. It carries a bounded excerpt of the raw text
// for diagnostics.
type MalformedError struct {
	Reason  string
	Excerpt string
}

func (e *MalformedError) Error() string {
	if e.Excerpt == "" {
		return fmt.Sprintf("malformed provider output: %s", e.Reason)
	}
	return fmt.Sprintf("malformed provider output: %s (raw: %s)", e.Reason, e.Excerpt)
}

// Result coerces raw provider text into a validated StructuredResult.
// gradingEnabled mirrors the request's learning mode and gates the
// "excellent" shape. Any failure, parse or shape, returns a *MalformedError.
func Result(raw string, gradingEnabled bool) (*result.StructuredResult, error) {
	parsed, err := Decode[result.StructuredResult](raw)
	if err != nil {
		return nil, &MalformedError{
			Reason:  err.Error(),
			Excerpt: utils.TruncateString(strings.TrimSpace(raw), excerptLen),
		}
	}

	if err := parsed.Validate(gradingEnabled); err != nil {
		return nil, &MalformedError{
			Reason:  fmt.Sprintf("shape invariant violated: %v", err),
			Excerpt: utils.TruncateString(strings.TrimSpace(raw), excerptLen),
		}
	}

	return &parsed, nil
}

// Decode parses raw text into T, tolerating extraneous prose around a JSON
// body and minor JSON syntax damage. The full text is tried first; when
// that fails, the substring between the first '{' and the last '}' is
// tried. Each attempt falls back to a jsonrepair pass before giving up.
func Decode[T any](raw string) (T, error) {
	var zero T

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return zero, fmt.Errorf("empty output")
	}

	parsed, directErr := unmarshalWithRepair[T](trimmed)
	if directErr == nil {
		return parsed, nil
	}

	body, ok := sliceObject(trimmed)
	if !ok {
		return zero, fmt.Errorf("no JSON object found: %w", directErr)
	}

	parsed, sliceErr := unmarshalWithRepair[T](body)
	if sliceErr != nil {
		return zero, fmt.Errorf("embedded JSON object is unparseable: %w", sliceErr)
	}
	return parsed, nil
}

// unmarshalWithRepair attempts a direct unmarshal and, on failure, repairs
// the JSON with jsonrepair and retries once.
func unmarshalWithRepair[T any](content string) (T, error) {
	var parsed T

	err := json.Unmarshal([]byte(content), &parsed)
	if err == nil {
		return parsed, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return parsed, fmt.Errorf("unmarshal error: %w, repair error: %v", err, repairErr)
	}

	// The repair library happily "fixes" plain prose into a JSON string.
	// Only object output is acceptable here.
	if !strings.HasPrefix(strings.TrimSpace(repaired), "{") {
		return parsed, fmt.Errorf("repaired content is not a JSON object: %w", err)
	}

	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return parsed, fmt.Errorf("unmarshal of repaired JSON failed: %w", err)
	}
	return parsed, nil
}

// sliceObject returns the substring spanning the first '{' and the last '}'
// of s. It recovers JSON embedded in conversational padding.
func sliceObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
