package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// CustomConfig is the caller-facing description of a user-added provider.
// Custom providers are always HTTP, OpenAI-compatible. APIKey is used for
// availability resolution only and is not retained in the registry entry.
type CustomConfig struct {
	ID           string
	Name         string
	BaseURL      string
	EnvVar       string
	DefaultModel string
}

// NewCustom builds a registry entry from a custom provider config. The
// entry uses the config-value credential rule with the config's environment
// variable as fallback.
func NewCustom(cfg CustomConfig) (Provider, error) {
	p := Provider{
		ID:                    cfg.ID,
		DisplayName:           cfg.Name,
		Transport:             TransportHTTP,
		SupportsDynamicModels: true,
		Credential:            CredentialRule{Kind: CredentialConfigValue, EnvVar: cfg.EnvVar},
		BaseURL:               strings.TrimRight(cfg.BaseURL, "/"),
		ChatPath:              "/chat/completions",
		ModelsPath:            "/models",
		DefaultModel:          cfg.DefaultModel,
		Custom:                true,
	}
	if err := ValidateCustom(p); err != nil {
		return Provider{}, err
	}
	return p, nil
}

// ValidateCustom checks the invariants of a user-added provider entry:
// well-formed id, non-empty display name, HTTP transport, and a base URL
// restricted to http/https schemes so the registry cannot be steered into
// fetching model lists from arbitrary URL schemes.
func ValidateCustom(p Provider) error {
	if !ValidID(p.ID) {
		return fmt.Errorf("invalid provider id %q: must be lowercase alphanumeric with dashes, 2-32 chars", p.ID)
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return fmt.Errorf("provider %q: display name is required", p.ID)
	}
	if p.Transport != TransportHTTP {
		return fmt.Errorf("provider %q: custom providers must use the HTTP transport", p.ID)
	}
	if err := validateBaseURL(p.BaseURL); err != nil {
		return fmt.Errorf("provider %q: %w", p.ID, err)
	}
	return nil
}

func validateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("base URL is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("base URL is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base URL scheme %q is not allowed, use http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base URL has no host")
	}
	return nil
}
