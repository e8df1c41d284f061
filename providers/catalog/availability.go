package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Availability is the outcome of a credential-resolution check. Reason is
// human-readable and always populated, for available and unavailable
// providers alike.
type Availability struct {
	Available bool
	Reason    string
}

// ResolveAvailability determines whether the provider can currently be
// dispatched to. suppliedCredential is a directly-provided value (pasted
// key) and only participates in the CredentialConfigValue rule; secrets are
// never read from the registry itself.
func ResolveAvailability(p Provider, suppliedCredential string) Availability {
	switch p.Credential.Kind {
	case CredentialEnvVar:
		if strings.TrimSpace(os.Getenv(p.Credential.EnvVar)) == "" {
			return Availability{Reason: fmt.Sprintf("environment variable %s is not set", p.Credential.EnvVar)}
		}
		return Availability{Available: true, Reason: fmt.Sprintf("environment variable %s is set", p.Credential.EnvVar)}

	case CredentialConfigValue:
		if suppliedCredential != "" {
			return Availability{Available: true, Reason: "api key supplied in provider config"}
		}
		if p.Credential.EnvVar != "" && strings.TrimSpace(os.Getenv(p.Credential.EnvVar)) != "" {
			return Availability{Available: true, Reason: fmt.Sprintf("fallback environment variable %s is set", p.Credential.EnvVar)}
		}
		return Availability{Reason: "no api key configured"}

	case CredentialFilePresence:
		for _, candidate := range p.Credential.Paths {
			if _, err := os.Stat(expandHome(candidate)); err == nil {
				return Availability{Available: true, Reason: fmt.Sprintf("found %s", candidate)}
			}
		}
		return Availability{Reason: fmt.Sprintf("none of the credential files exist: %s", strings.Join(p.Credential.Paths, ", "))}

	default:
		return Availability{Reason: fmt.Sprintf("unknown credential rule %q", p.Credential.Kind)}
	}
}

// ResolveCredential returns the secret to use for a dispatch call, or empty
// when the rule carries none (file-presence providers authenticate through
// their own session files).
func ResolveCredential(p Provider, suppliedCredential string) string {
	switch p.Credential.Kind {
	case CredentialEnvVar:
		return os.Getenv(p.Credential.EnvVar)
	case CredentialConfigValue:
		if suppliedCredential != "" {
			return suppliedCredential
		}
		if p.Credential.EnvVar != "" {
			return os.Getenv(p.Credential.EnvVar)
		}
	}
	return ""
}

// expandHome resolves a leading "~/" against the current user's home
// directory. Unresolvable paths are returned unchanged.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
