// Package engine composes the provider catalog, the transport adapters and
// the response coercer behind one dispatch contract used regardless of
// provider. Every call is at-most-once: no retry happens anywhere below the
// caller.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/frogg-app/prompt-assistant/core/coerce"
	"github.com/frogg-app/prompt-assistant/core/result"
	"github.com/frogg-app/prompt-assistant/internal/utils"
	"github.com/frogg-app/prompt-assistant/providers/catalog"
	"github.com/frogg-app/prompt-assistant/providers/transport"
	"github.com/frogg-app/prompt-assistant/providers/transport/clirun"
	"github.com/frogg-app/prompt-assistant/providers/transport/httpapi"
)

// DispatchContext carries the per-call environment explicitly instead of
// reading it from the process environment at arbitrary depths: the
// directly-supplied credential, the working directory for subprocess calls,
// and the wall-clock timeout. Zero values fall back to the adapters'
// defaults.
type DispatchContext struct {
	// Credential is a directly-supplied secret (e.g. a pasted key). It only
	// participates for providers whose rule is config-value; env-var and
	// file-presence providers resolve their own.
	Credential string

	WorkingDirectory string
	Timeout          time.Duration
}

// Request is the provider-agnostic dispatch call contract.
type Request struct {
	ProviderID string

	// ModelID selects the model; empty means the provider's default.
	ModelID string

	RoughPrompt  string
	Constraints  []string
	PromptType   PromptType
	LearningMode bool

	// ClarificationAnswers accumulates the user's answers across rounds,
	// keyed by clarification item id. Nil on the first round.
	ClarificationAnswers map[string]any

	ExtraSystemGuidance string
}

// Engine resolves a provider, checks its credential, invokes the right
// transport and coerces the reply. It is safe for concurrent use.
type Engine struct {
	registry *catalog.Registry
	http     transport.Invoker
	cli      transport.Invoker
	logger   *slog.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithHTTPInvoker replaces the HTTP transport. Test hook.
func WithHTTPInvoker(inv transport.Invoker) Option {
	return func(e *Engine) { e.http = inv }
}

// WithCLIInvoker replaces the CLI transport. Test hook.
func WithCLIInvoker(inv transport.Invoker) Option {
	return func(e *Engine) { e.cli = inv }
}

// WithHTTPClient sets the http.Client backing the HTTP transport.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) { e.http = httpapi.New(client) }
}

// WithLogger sets the structured logger. Nil means slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an Engine over the given registry with real transports.
func New(registry *catalog.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		http:     httpapi.New(nil),
		cli:      clirun.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dispatch performs one provider call: resolve → credential check → build
// instructions → invoke → coerce → validate. Credential failures are raised
// before any I/O. Every error is a *DispatchError.
func (e *Engine) Dispatch(ctx context.Context, dctx DispatchContext, req Request) (*result.StructuredResult, error) {
	provider, ok := e.registry.Get(req.ProviderID)
	if !ok {
		return nil, &DispatchError{
			Kind:     KindUnsupportedProvider,
			Provider: req.ProviderID,
			Err:      fmt.Errorf("unknown provider id %q", req.ProviderID),
		}
	}

	availability := catalog.ResolveAvailability(provider, dctx.Credential)
	if !availability.Available {
		return nil, &DispatchError{
			Kind:     KindCredentialMissing,
			Provider: provider.ID,
			Err:      fmt.Errorf("%s", availability.Reason),
		}
	}

	invoker, derr := e.invokerFor(provider)
	if derr != nil {
		return nil, derr
	}

	modelID := req.ModelID
	if modelID == "" {
		modelID = provider.DefaultModel
	}
	hasPriorAnswers := len(req.ClarificationAnswers) > 0

	treq := transport.Request{
		SystemInstructions: BuildSystemInstructions(req.PromptType, req.LearningMode, hasPriorAnswers, req.ExtraSystemGuidance),
		UserContent:        BuildUserContent(req.RoughPrompt, req.Constraints, req.ClarificationAnswers),
		ModelID:            modelID,
		Credential:         catalog.ResolveCredential(provider, dctx.Credential),
		OutputSchema:       result.Schema(),
		BaseURL:            provider.BaseURL,
		ChatPath:           provider.ChatPath,
		Command:            provider.Command,
		DefaultModelID:     provider.DefaultModel,
		WorkingDirectory:   dctx.WorkingDirectory,
		Timeout:            dctx.Timeout,
	}

	e.logger.InfoContext(ctx, "dispatch",
		slog.String("provider", provider.ID),
		slog.String("model", modelID),
		slog.String("transport", string(provider.Transport)),
		slog.Bool("clarification_round", hasPriorAnswers),
	)

	start := time.Now()
	raw, err := invoker.Invoke(ctx, treq)
	duration := time.Since(start)
	if err != nil {
		de := classifyTransportError(provider.ID, err)
		e.logger.ErrorContext(ctx, "dispatch failed",
			slog.String("provider", provider.ID),
			slog.String("model", modelID),
			slog.Duration("duration", duration),
			slog.String("kind", string(de.Kind)),
			slog.String("error", err.Error()),
		)
		return nil, de
	}

	structured, err := coerce.Result(raw, req.LearningMode)
	if err != nil {
		de := classifyCoerceError(provider.ID, err)
		e.logger.ErrorContext(ctx, "dispatch produced malformed output",
			slog.String("provider", provider.ID),
			slog.String("model", modelID),
			slog.Duration("duration", duration),
			slog.String("raw", utils.TruncateString(raw, utils.DefaultMaxStringLength)),
		)
		return nil, de
	}

	e.logger.InfoContext(ctx, "dispatch completed",
		slog.String("provider", provider.ID),
		slog.String("model", modelID),
		slog.Duration("duration", duration),
		slog.String("outcome", string(structured.Kind())),
	)
	return structured, nil
}

// invokerFor picks the transport adapter for a provider's transport kind.
func (e *Engine) invokerFor(p catalog.Provider) (transport.Invoker, *DispatchError) {
	switch p.Transport {
	case catalog.TransportHTTP:
		return e.http, nil
	case catalog.TransportCLI:
		return e.cli, nil
	default:
		return nil, &DispatchError{
			Kind:     KindUnsupportedProvider,
			Provider: p.ID,
			Err:      fmt.Errorf("unknown transport kind %q", p.Transport),
		}
	}
}
