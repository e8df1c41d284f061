// Package setup carries the credential-setup descriptors surfaced to the
// user when a provider is unavailable: which environment variables are
// needed, where the provider documents key creation, and the concrete steps
// to follow. Diagnostics only; dispatch logic never consults this package.
package setup

// Descriptor is the static setup guide for one provider.
type Descriptor struct {
	ProviderID      string
	RequiredEnvVars []string
	DocsURL         string
	Steps           []string
}

var descriptors = map[string]Descriptor{
	"openai": {
		ProviderID:      "openai",
		RequiredEnvVars: []string{"OPENAI_API_KEY"},
		DocsURL:         "https://platform.openai.com/docs/quickstart",
		Steps: []string{
			"Create an API key at https://platform.openai.com/api-keys",
			"Export it: export OPENAI_API_KEY=sk-...",
		},
	},
	"anthropic": {
		ProviderID:      "anthropic",
		RequiredEnvVars: []string{"ANTHROPIC_API_KEY"},
		DocsURL:         "https://docs.anthropic.com/en/api/getting-started",
		Steps: []string{
			"Create an API key at https://console.anthropic.com/settings/keys",
			"Export it: export ANTHROPIC_API_KEY=sk-ant-...",
		},
	},
	"gemini": {
		ProviderID:      "gemini",
		RequiredEnvVars: []string{"GEMINI_API_KEY"},
		DocsURL:         "https://ai.google.dev/gemini-api/docs/api-key",
		Steps: []string{
			"Create an API key in Google AI Studio",
			"Export it: export GEMINI_API_KEY=...",
		},
	},
	"claude-cli": {
		ProviderID: "claude-cli",
		DocsURL:    "https://docs.anthropic.com/en/docs/claude-code/setup",
		Steps: []string{
			"Install the CLI: npm install -g @anthropic-ai/claude-code",
			"Run 'claude' once and complete the login flow",
		},
	},
	"gemini-cli": {
		ProviderID: "gemini-cli",
		DocsURL:    "https://github.com/google-gemini/gemini-cli",
		Steps: []string{
			"Install the CLI: npm install -g @google/gemini-cli",
			"Run 'gemini' once and complete the login flow",
		},
	},
	"codex-cli": {
		ProviderID: "codex-cli",
		DocsURL:    "https://github.com/openai/codex",
		Steps: []string{
			"Install the CLI: npm install -g @openai/codex",
			"Run 'codex login' and complete the login flow",
		},
	},
}

// For returns the setup descriptor for a provider. Custom providers have no
// descriptor.
func For(providerID string) (Descriptor, bool) {
	d, ok := descriptors[providerID]
	return d, ok
}

// All returns every descriptor keyed by provider id.
func All() map[string]Descriptor {
	out := make(map[string]Descriptor, len(descriptors))
	for id, d := range descriptors {
		out[id] = d
	}
	return out
}
