package engine

import (
	"errors"
	"fmt"

	"github.com/frogg-app/prompt-assistant/core/coerce"
	"github.com/frogg-app/prompt-assistant/providers/transport/clirun"
	"github.com/frogg-app/prompt-assistant/providers/transport"
)

// ErrorKind is the closed taxonomy of dispatch failures. Callers branch on
// the kind; the wrapped cause is kept for diagnostics.
type ErrorKind string

const (
	// KindCredentialMissing: the provider's credential rule resolved to
	// unavailable, or the provider rejected the credential. Raised before
	// any I/O when resolution already fails.
	KindCredentialMissing ErrorKind = "credential_missing"

	// KindTransportTimeout: the call exceeded its wall-clock limit. For
	// subprocess transports the process was terminated before this was
	// raised.
	KindTransportTimeout ErrorKind = "transport_timeout"

	// KindTransportFailure: network error, non-2xx status or non-zero exit.
	KindTransportFailure ErrorKind = "transport_failure"

	// KindMalformedOutput: the raw reply could not be coerced into a valid
	// structured result.
	KindMalformedOutput ErrorKind = "malformed_output"

	// KindUnsupportedProvider: unknown provider id or unknown transport.
	KindUnsupportedProvider ErrorKind = "unsupported_provider"

	// KindClarificationLoop: the provider kept requesting clarification
	// past the hard round cap.
	KindClarificationLoop ErrorKind = "clarification_loop_exceeded"
)

// DispatchError is the single error type surfaced by Dispatch. Excerpt, when
// present, is a bounded slice of the raw provider output.
type DispatchError struct {
	Kind     ErrorKind
	Provider string
	Excerpt  string
	Err      error
}

func (e *DispatchError) Error() string {
	msg := fmt.Sprintf("dispatch to %s failed (%s)", e.Provider, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DispatchError) Unwrap() error { return e.Err }

// KindOf extracts the ErrorKind from an error chain, or "" when err is not a
// dispatch error.
func KindOf(err error) ErrorKind {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// classifyTransportError maps the typed errors the adapters return onto the
// dispatch taxonomy.
func classifyTransportError(providerID string, err error) *DispatchError {
	var authErr *transport.AuthError
	if errors.As(err, &authErr) {
		return &DispatchError{
			Kind:     KindCredentialMissing,
			Provider: providerID,
			Excerpt:  authErr.Body,
			Err:      err,
		}
	}

	if errors.Is(err, transport.ErrTimeout) {
		return &DispatchError{Kind: KindTransportTimeout, Provider: providerID, Err: err}
	}

	var exitErr *clirun.ExitError
	if errors.As(err, &exitErr) {
		return &DispatchError{
			Kind:     KindTransportFailure,
			Provider: providerID,
			Excerpt:  exitErr.Message,
			Err:      err,
		}
	}

	return &DispatchError{Kind: KindTransportFailure, Provider: providerID, Err: err}
}

// classifyCoerceError wraps a coercion failure, carrying its raw excerpt up.
func classifyCoerceError(providerID string, err error) *DispatchError {
	de := &DispatchError{Kind: KindMalformedOutput, Provider: providerID, Err: err}
	var malformed *coerce.MalformedError
	if errors.As(err, &malformed) {
		de.Excerpt = malformed.Excerpt
	}
	return de
}
