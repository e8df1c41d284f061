// Package transport defines the normalized call contract shared by every
// provider transport. Adapters never see provider-specific option names:
// they receive a [Request] with already-resolved instructions, content,
// model id and credential, and return the provider's raw text reply.
//
// Two adapter implementations exist, one per transport kind:
// [httpapi.Adapter] for JSON-over-HTTPS chat APIs and [clirun.Adapter] for
// locally-invoked command-line tools.
package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frogg-app/prompt-assistant/internal/jsonschema"
)

// ErrTimeout is wrapped by adapters when a call exceeded its wall-clock
// deadline. For subprocess transports the process is always terminated
// before this error is returned.
var ErrTimeout = errors.New("transport: call timed out")

// AuthError reports that the provider rejected the supplied credential.
// It is surfaced immediately and never retried.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("transport: authentication rejected (status %d): %s", e.StatusCode, e.Body)
}

// Request carries the normalized inputs for one provider call. Exactly one
// attempt is made per Request; retry is a caller decision.
type Request struct {
	SystemInstructions string
	UserContent        string
	ModelID            string
	Credential         string

	// OutputSchema describes the exact JSON shape the provider must
	// produce. CLI adapters pass it verbatim on the argument vector; HTTP
	// adapters request the provider's JSON-only response mode instead and
	// rely on post-parse validation.
	OutputSchema *jsonschema.Schema

	// HTTP wiring.
	BaseURL  string
	ChatPath string

	// CLI wiring. Command is the argv prefix (binary plus fixed flags);
	// DefaultModelID suppresses the --model flag when ModelID matches it.
	Command        []string
	DefaultModelID string
	ExtraEnv       []string

	// WorkingDirectory for subprocess calls. Empty means a neutral
	// non-project directory (os.TempDir).
	WorkingDirectory string

	// Timeout is the hard wall-clock limit for the call. Zero means the
	// adapter's default.
	Timeout time.Duration
}

// Invoker is implemented once per transport kind. Invoke performs a single
// provider call and returns the raw text reply; it never parses it.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (string, error)
}
