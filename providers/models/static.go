package models

// staticLists holds the fixed fallback model list bundled for each builtin
// provider, used when a live fetch fails or a provider does not support
// dynamic listing. Custom providers have no bundled list.
var staticLists = map[string][]Model{
	"openai": {
		{ID: "gpt-4o", Label: "GPT-4o", ContextWindow: 128000},
		{ID: "gpt-4o-mini", Label: "GPT-4o mini", ContextWindow: 128000},
		{ID: "gpt-4.1", Label: "GPT-4.1", ContextWindow: 1047576},
		{ID: "o3-mini", Label: "o3-mini", ContextWindow: 200000},
	},
	"anthropic": {
		{ID: "claude-sonnet-4-20250514", Label: "Claude Sonnet 4", ContextWindow: 200000},
		{ID: "claude-opus-4-20250514", Label: "Claude Opus 4", ContextWindow: 200000},
		{ID: "claude-3-5-haiku-20241022", Label: "Claude 3.5 Haiku", ContextWindow: 200000},
	},
	"gemini": {
		{ID: "gemini-2.0-flash", Label: "Gemini 2.0 Flash", ContextWindow: 1048576},
		{ID: "gemini-2.5-pro", Label: "Gemini 2.5 Pro", ContextWindow: 1048576},
		{ID: "gemini-2.5-flash", Label: "Gemini 2.5 Flash", ContextWindow: 1048576},
	},
	"claude-cli": {
		{ID: "sonnet", Label: "Sonnet (latest)"},
		{ID: "opus", Label: "Opus (latest)"},
		{ID: "haiku", Label: "Haiku (latest)"},
	},
	"gemini-cli": {
		{ID: "gemini-2.5-pro", Label: "Gemini 2.5 Pro"},
		{ID: "gemini-2.5-flash", Label: "Gemini 2.5 Flash"},
	},
	"codex-cli": {
		{ID: "gpt-5-codex", Label: "GPT-5 Codex"},
		{ID: "o4-mini", Label: "o4-mini"},
	},
}

// StaticList returns the bundled fallback list for a provider. The result
// is a copy; callers may mutate it freely.
func StaticList(providerID string) []Model {
	list := staticLists[providerID]
	out := make([]Model, len(list))
	copy(out, list)
	return out
}
