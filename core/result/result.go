package result

import (
	"fmt"
	"regexp"

	"github.com/frogg-app/prompt-assistant/internal/jsonschema"
)

// Kind identifies which of the three terminal shapes a StructuredResult
// carries. Exactly one kind applies to every valid result.
type Kind string

const (
	// KindNeedsClarification means the provider could not proceed without
	// answers to the attached clarification items.
	KindNeedsClarification Kind = "needs_clarification"

	// KindExcellent means the rough prompt was already excellent; only
	// reachable when grading (learning mode) is enabled.
	KindExcellent Kind = "excellent"

	// KindImproved means the provider produced a refined prompt.
	KindImproved Kind = "improved"
)

// ClarificationType enumerates the input widgets a clarification item can
// request from the user.
type ClarificationType string

const (
	ClarificationSingleSelect ClarificationType = "single_select"
	ClarificationMultiSelect  ClarificationType = "multi_select"
	ClarificationShortText    ClarificationType = "short_text"
	ClarificationLongText     ClarificationType = "long_text"
	ClarificationNumber       ClarificationType = "number"
	ClarificationBoolean      ClarificationType = "boolean"
)

// ClarificationItem is one question the provider needs answered before it
// can refine the prompt. Items are produced by a provider call and never
// persisted.
type ClarificationItem struct {
	ID          string            `json:"id" jsonschema:"required,description=stable snake_case identifier for this question"`
	Question    string            `json:"question" jsonschema:"required"`
	WhyRequired string            `json:"why_required,omitempty" jsonschema:"description=one sentence on why the answer is needed"`
	Type        ClarificationType `json:"type" jsonschema:"required,enum=single_select,enum=multi_select,enum=short_text,enum=long_text,enum=number,enum=boolean"`
	Options     []string          `json:"options,omitempty"`
	Default     any               `json:"default,omitempty"`
	Validation  string            `json:"validation,omitempty"`
}

// StructuredResult is the provider's structured reply. On the wire it is a
// single JSON object whose populated fields determine the [Kind]; Validate
// rejects objects that populate fields from more than one shape.
type StructuredResult struct {
	Clarifications   []ClarificationItem `json:"clarifications,omitempty"`
	ImprovedPrompt   string              `json:"improved_prompt,omitempty"`
	Assumptions      []string            `json:"assumptions,omitempty"`
	IsExcellent      bool                `json:"is_excellent,omitempty"`
	ExcellenceReason string              `json:"excellence_reason,omitempty"`
	LearningReport   string              `json:"learning_report,omitempty"`
}

// snakeCaseID matches the stable snake_case identifiers clarification items
// must carry.
var snakeCaseID = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// Kind reports which terminal shape the result carries. It assumes the
// result already passed Validate; on an invalid mixed result it prefers
// clarifications.
func (r *StructuredResult) Kind() Kind {
	switch {
	case len(r.Clarifications) > 0:
		return KindNeedsClarification
	case r.IsExcellent:
		return KindExcellent
	default:
		return KindImproved
	}
}

// Validate checks the structural invariant of the tagged union: exactly one
// of {clarifications non-empty, improved_prompt non-null} holds, the
// excellent shape is only legal when grading is enabled, and every
// clarification item is well formed. A nil error means the result is safe to
// surface to callers.
func (r *StructuredResult) Validate(gradingEnabled bool) error {
	hasClarifications := len(r.Clarifications) > 0
	hasPrompt := r.ImprovedPrompt != ""

	if hasClarifications && hasPrompt {
		return fmt.Errorf("both clarifications and improved_prompt are populated")
	}
	if !hasClarifications && !hasPrompt {
		return fmt.Errorf("neither clarifications nor improved_prompt is populated")
	}

	if hasClarifications {
		if r.IsExcellent || r.ExcellenceReason != "" {
			return fmt.Errorf("clarification result carries excellence fields")
		}
		seen := make(map[string]bool, len(r.Clarifications))
		for i, item := range r.Clarifications {
			if err := item.validate(); err != nil {
				return fmt.Errorf("clarification %d: %w", i, err)
			}
			if seen[item.ID] {
				return fmt.Errorf("clarification %d: duplicate id %q", i, item.ID)
			}
			seen[item.ID] = true
		}
		return nil
	}

	if r.IsExcellent || r.ExcellenceReason != "" {
		if !gradingEnabled {
			return fmt.Errorf("excellent result produced while grading is disabled")
		}
		if r.ExcellenceReason == "" {
			return fmt.Errorf("excellent result is missing excellence_reason")
		}
	}

	return nil
}

func (item *ClarificationItem) validate() error {
	if item.ID == "" {
		return fmt.Errorf("missing id")
	}
	if !snakeCaseID.MatchString(item.ID) {
		return fmt.Errorf("id %q is not snake_case", item.ID)
	}
	if item.Question == "" {
		return fmt.Errorf("missing question")
	}
	switch item.Type {
	case ClarificationSingleSelect, ClarificationMultiSelect:
		if len(item.Options) == 0 {
			return fmt.Errorf("select item %q has no options", item.ID)
		}
	case ClarificationShortText, ClarificationLongText, ClarificationNumber, ClarificationBoolean:
	default:
		return fmt.Errorf("item %q has unknown type %q", item.ID, item.Type)
	}
	return nil
}

// Schema returns the JSON schema describing the StructuredResult wire shape.
// CLI transports pass it verbatim as an argument; HTTP transports use it for
// the equivalent structural check after parsing.
func Schema() *jsonschema.Schema {
	return jsonschema.Generate[StructuredResult]()
}
