package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/frogg-app/prompt-assistant/core/result"
)

// PromptType selects the domain-specific refinement guidance baked into the
// system instructions.
type PromptType string

const (
	PromptGeneral  PromptType = "general"
	PromptCoding   PromptType = "coding"
	PromptImage    PromptType = "image"
	PromptResearch PromptType = "research"
	PromptWriting  PromptType = "writing"
)

// ValidPromptType reports whether t is a known prompt type.
func ValidPromptType(t PromptType) bool {
	switch t {
	case PromptGeneral, PromptCoding, PromptImage, PromptResearch, PromptWriting:
		return true
	}
	return false
}

// promptTypeGuidance holds the per-type refinement fragment appended to the
// base instructions.
var promptTypeGuidance = map[PromptType]string{
	PromptGeneral: "Refine the prompt for a general-purpose assistant. " +
		"Make the goal, audience and expected output format explicit.",
	PromptCoding: "Refine the prompt for a coding assistant. " +
		"Pin down the language, runtime or framework versions, the expected input/output, " +
		"error-handling expectations and whether tests are wanted.",
	PromptImage: "Refine the prompt for an image-generation model. " +
		"Specify subject, composition, style, lighting, mood and any negative constraints.",
	PromptResearch: "Refine the prompt for a research task. " +
		"State the research question precisely, the desired depth, the time range that matters " +
		"and how sources should be cited.",
	PromptWriting: "Refine the prompt for a writing task. " +
		"Make the format, tone, audience, length and structure explicit.",
}

const baseContract = `You are a prompt-refinement assistant. The user gives you a rough prompt; you either refine it or ask for the minimum clarification needed.

Rules:
- If the rough prompt is unambiguous enough to refine, return the improved prompt and list every assumption you made.
- Only ask clarification questions whose answers would materially change the improved prompt. Ask all of them at once.
- Each clarification question carries a stable snake_case id, the question text, why the answer is required, an input type (single_select, multi_select, short_text, long_text, number, boolean), and options for the select types.`

const answersFinalContract = `The user has already answered your clarification questions. Treat those answers as final. Do not ask for clarification again unless it is literally impossible to proceed; make reasonable assumptions for anything still ambiguous and list them.`

const gradingContract = `Grading is enabled. If the rough prompt is already excellent as written, do not rewrite it: return it unchanged as the improved prompt, set is_excellent to true, explain why in excellence_reason, and include a learning_report analyzing what makes it strong. For prompts you do improve, include a learning_report explaining what was weak and how the rewrite fixes it.`

// BuildSystemInstructions assembles the full system message for one dispatch
// call: role contract, prompt-type guidance, learning-mode grading contract,
// answer-finality contract when prior answers exist, caller guidance, and the
// JSON-only output directive with the exact schema.
func BuildSystemInstructions(promptType PromptType, learningMode bool, hasPriorAnswers bool, extraGuidance string) string {
	var b strings.Builder
	b.WriteString(baseContract)

	guidance, ok := promptTypeGuidance[promptType]
	if !ok {
		guidance = promptTypeGuidance[PromptGeneral]
	}
	b.WriteString("\n\n")
	b.WriteString(guidance)

	if learningMode {
		b.WriteString("\n\n")
		b.WriteString(gradingContract)
	}
	if hasPriorAnswers {
		b.WriteString("\n\n")
		b.WriteString(answersFinalContract)
	}
	if extraGuidance != "" {
		b.WriteString("\n\nAdditional guidance from the caller:\n")
		b.WriteString(extraGuidance)
	}

	b.WriteString("\n\nRespond with a single JSON object and nothing else. No prose, no code fences. The object must match this schema exactly:\n")
	b.WriteString(result.Schema().String())
	return b.String()
}

// BuildUserContent assembles the user message: the rough prompt, the
// caller's constraints, and the accumulated clarification answers keyed by
// question id.
func BuildUserContent(roughPrompt string, constraints []string, answers map[string]any) string {
	var b strings.Builder
	b.WriteString("Rough prompt:\n")
	b.WriteString(roughPrompt)

	if len(constraints) > 0 {
		b.WriteString("\n\nConstraints:\n")
		for _, c := range constraints {
			b.WriteString("- ")
			b.WriteString(c)
			b.WriteString("\n")
		}
	}

	if len(answers) > 0 {
		b.WriteString("\n\nClarification answers (final):\n")
		for _, id := range sortedKeys(answers) {
			b.WriteString(fmt.Sprintf("- %s: %v\n", id, answers[id]))
		}
	}

	return b.String()
}

// sortedKeys gives the answers a deterministic order so the provider message
// is stable across calls.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
