package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelIDs(models []Model) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		out = append(out, m.ID)
	}
	return out
}

func TestParseEnumeration_InlineList(t *testing.T) {
	text := "Error: unknown model 'definitely-not-a-model'.\n" +
		"Available models: sonnet, opus, haiku\n"

	models := ParseEnumeration(text)
	assert.Equal(t, []string{"sonnet", "opus", "haiku"}, modelIDs(models))
}

func TestParseEnumeration_InlineWithConnectives(t *testing.T) {
	text := "Invalid model. Valid models are: 'gemini-2.5-pro', 'gemini-2.5-flash' or 'gemini-2.0-flash'."

	models := ParseEnumeration(text)
	assert.Equal(t, []string{"gemini-2.5-pro", "gemini-2.5-flash", "gemini-2.0-flash"}, modelIDs(models))
}

func TestParseEnumeration_BulletList(t *testing.T) {
	text := `error: model "definitely-not-a-model" not found
Supported models:
  - gpt-5-codex
  - o4-mini (fast)
  - o3

Run 'codex --help' for more information.
`

	models := ParseEnumeration(text)
	assert.Equal(t, []string{"gpt-5-codex", "o4-mini", "o3"}, modelIDs(models))
}

func TestParseEnumeration_StopsAtFirstNonBulletLine(t *testing.T) {
	text := `Known models:
  * sonnet
  * opus
See the documentation for details.
  * this-is-not-a-model
`

	models := ParseEnumeration(text)
	assert.Equal(t, []string{"sonnet", "opus"}, modelIDs(models))
}

func TestParseEnumeration_DeduplicatesRepeats(t *testing.T) {
	text := "Available models: sonnet, opus, sonnet"

	models := ParseEnumeration(text)
	assert.Equal(t, []string{"sonnet", "opus"}, modelIDs(models))
}

func TestParseEnumeration_NoPatternIsNil(t *testing.T) {
	cases := []string{
		"",
		"Usage: claude [options] [prompt]",
		"error: something went wrong, try again later",
	}
	for _, text := range cases {
		require.Nil(t, ParseEnumeration(text))
	}
}
