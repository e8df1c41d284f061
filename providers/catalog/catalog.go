package catalog

import (
	"fmt"
	"regexp"
	"sort"
)

// TransportKind is the closed set of mechanisms used to reach a provider.
type TransportKind string

const (
	// TransportHTTP providers are JSON-over-HTTPS chat APIs.
	TransportHTTP TransportKind = "http"
	// TransportCLI providers are locally-invoked command-line tools.
	TransportCLI TransportKind = "cli"
)

// CredentialKind selects which credential-resolution rule applies.
type CredentialKind string

const (
	// CredentialEnvVar: available iff the named variable is set and non-empty.
	CredentialEnvVar CredentialKind = "env_var"
	// CredentialConfigValue: available iff a value was supplied directly
	// (e.g. a pasted key) or via the configured fallback environment variable.
	CredentialConfigValue CredentialKind = "config_value"
	// CredentialFilePresence: available iff at least one candidate path
	// exists on disk. Used for CLI tools whose authentication lives in
	// their own config/session files.
	CredentialFilePresence CredentialKind = "file_presence"
)

// CredentialRule describes how a provider's availability is determined.
// It never carries the secret itself.
type CredentialRule struct {
	Kind CredentialKind

	// EnvVar is the variable checked by CredentialEnvVar, and the fallback
	// variable checked by CredentialConfigValue.
	EnvVar string

	// Paths are the candidate files checked by CredentialFilePresence.
	// Entries may start with "~/" which is expanded to the user home.
	Paths []string
}

// Provider is one catalog entry: an immutable builtin or a validated
// user-added custom provider.
type Provider struct {
	ID                    string
	DisplayName           string
	Transport             TransportKind
	SupportsDynamicModels bool
	Credential            CredentialRule

	// HTTP wiring.
	BaseURL    string
	ChatPath   string
	ModelsPath string

	// CLI wiring: argv prefix (binary plus fixed flags).
	Command []string

	// DefaultModel used when the caller does not pick one.
	DefaultModel string

	// Custom marks user-added entries.
	Custom bool
}

// idPattern enforces the provider id invariant: lowercase alphanumeric with
// dashes, 2-32 characters, no leading or trailing dash.
var idPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// ValidID reports whether id satisfies the provider id invariant.
func ValidID(id string) bool {
	return len(id) >= 2 && len(id) <= 32 && idPattern.MatchString(id)
}

// Builtins returns the immutable provider catalog: three HTTP API providers
// and three locally-installed CLI agents.
func Builtins() []Provider {
	return []Provider{
		{
			ID:                    "openai",
			DisplayName:           "OpenAI",
			Transport:             TransportHTTP,
			SupportsDynamicModels: true,
			Credential:            CredentialRule{Kind: CredentialEnvVar, EnvVar: "OPENAI_API_KEY"},
			BaseURL:               "https://api.openai.com/v1",
			ChatPath:              "/chat/completions",
			ModelsPath:            "/models",
			DefaultModel:          "gpt-4o-mini",
		},
		{
			ID:                    "anthropic",
			DisplayName:           "Anthropic",
			Transport:             TransportHTTP,
			SupportsDynamicModels: true,
			Credential:            CredentialRule{Kind: CredentialEnvVar, EnvVar: "ANTHROPIC_API_KEY"},
			BaseURL:               "https://api.anthropic.com/v1",
			ChatPath:              "/chat/completions",
			ModelsPath:            "/models",
			DefaultModel:          "claude-sonnet-4-20250514",
		},
		{
			ID:                    "gemini",
			DisplayName:           "Google Gemini",
			Transport:             TransportHTTP,
			SupportsDynamicModels: true,
			Credential:            CredentialRule{Kind: CredentialEnvVar, EnvVar: "GEMINI_API_KEY"},
			BaseURL:               "https://generativelanguage.googleapis.com/v1beta/openai",
			ChatPath:              "/chat/completions",
			ModelsPath:            "/models",
			DefaultModel:          "gemini-2.0-flash",
		},
		{
			ID:                    "claude-cli",
			DisplayName:           "Claude Code CLI",
			Transport:             TransportCLI,
			SupportsDynamicModels: true,
			Credential: CredentialRule{
				Kind:  CredentialFilePresence,
				Paths: []string{"~/.claude/.credentials.json", "~/.claude.json"},
			},
			Command:      []string{"claude", "-p"},
			DefaultModel: "sonnet",
		},
		{
			ID:                    "gemini-cli",
			DisplayName:           "Gemini CLI",
			Transport:             TransportCLI,
			SupportsDynamicModels: true,
			Credential: CredentialRule{
				Kind:  CredentialFilePresence,
				Paths: []string{"~/.gemini/oauth_creds.json", "~/.gemini/settings.json"},
			},
			Command:      []string{"gemini"},
			DefaultModel: "gemini-2.5-pro",
		},
		{
			ID:                    "codex-cli",
			DisplayName:           "Codex CLI",
			Transport:             TransportCLI,
			SupportsDynamicModels: true,
			Credential: CredentialRule{
				Kind:  CredentialFilePresence,
				Paths: []string{"~/.codex/auth.json"},
			},
			Command:      []string{"codex", "exec"},
			DefaultModel: "gpt-5-codex",
		},
	}
}

// Registry holds the provider catalog: builtins plus registered custom
// entries. A Registry is safe for concurrent reads after construction;
// registration is not synchronized and belongs in setup code.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry returns a Registry seeded with the builtin catalog.
func NewRegistry() *Registry {
	r := &Registry{providers: map[string]Provider{}}
	for _, p := range Builtins() {
		r.providers[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

// Get returns the provider with the given id.
func (r *Registry) Get(id string) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// List returns all providers, builtins first in catalog order, then custom
// entries sorted by id.
func (r *Registry) List() []Provider {
	builtinCount := len(Builtins())
	customIDs := append([]string{}, r.order[min(builtinCount, len(r.order)):]...)
	sort.Strings(customIDs)

	out := make([]Provider, 0, len(r.order))
	for _, id := range r.order[:min(builtinCount, len(r.order))] {
		out = append(out, r.providers[id])
	}
	for _, id := range customIDs {
		out = append(out, r.providers[id])
	}
	return out
}

// Register validates and adds a custom provider. Builtin ids cannot be
// shadowed.
func (r *Registry) Register(p Provider) error {
	if err := ValidateCustom(p); err != nil {
		return err
	}
	if existing, ok := r.providers[p.ID]; ok && !existing.Custom {
		return fmt.Errorf("provider id %q is reserved by a builtin provider", p.ID)
	}
	if _, ok := r.providers[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.providers[p.ID] = p
	return nil
}
