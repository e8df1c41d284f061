package models

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/frogg-app/prompt-assistant/internal/utils"
	"github.com/frogg-app/prompt-assistant/providers/catalog"
	"github.com/frogg-app/prompt-assistant/providers/transport"
	"github.com/frogg-app/prompt-assistant/providers/transport/clirun"
)

// Fetcher performs a live model-list fetch for one provider. The cache
// calls it on misses, stale entries and forced refreshes.
type Fetcher interface {
	ListModels(ctx context.Context, p catalog.Provider, credential string) ([]Model, error)
}

// probeTimeout bounds the invalid-model CLI invocation used for model-list
// inference. Usage errors print fast; anything slower is a broken install.
const probeTimeout = 15 * time.Second

// LiveFetcher reaches real providers: the models endpoint for HTTP
// providers, and the invalid-model usage probe for CLI providers.
type LiveFetcher struct {
	client *http.Client
	cli    *clirun.Adapter
}

// NewLiveFetcher returns a fetcher backed by the given HTTP client (nil
// means http.DefaultClient).
func NewLiveFetcher(client *http.Client) *LiveFetcher {
	return &LiveFetcher{client: client, cli: clirun.New()}
}

// ListModels dispatches to the transport-appropriate listing strategy.
func (f *LiveFetcher) ListModels(ctx context.Context, p catalog.Provider, credential string) ([]Model, error) {
	switch p.Transport {
	case catalog.TransportHTTP:
		return f.listHTTP(ctx, p, credential)
	case catalog.TransportCLI:
		return f.probeCLI(ctx, p)
	default:
		return nil, fmt.Errorf("models: provider %q has unknown transport %q", p.ID, p.Transport)
	}
}

// modelListResponse is the OpenAI-compatible models endpoint payload.
type modelListResponse struct {
	Data []struct {
		ID            string `json:"id"`
		ContextLength int    `json:"context_length"`
	} `json:"data"`
}

func (f *LiveFetcher) listHTTP(ctx context.Context, p catalog.Provider, credential string) ([]Model, error) {
	if p.BaseURL == "" || p.ModelsPath == "" {
		return nil, fmt.Errorf("models: provider %q has no models endpoint", p.ID)
	}

	headers := map[string]string{}
	if credential != "" {
		headers["Authorization"] = "Bearer " + credential
	}

	_, parsed, err := utils.DoGetSync[modelListResponse](ctx, f.client, p.BaseURL+p.ModelsPath, headers)
	if err != nil {
		return nil, fmt.Errorf("models: listing %s: %w", p.ID, err)
	}

	out := make([]Model, 0, len(parsed.Data))
	for _, entry := range parsed.Data {
		out = append(out, Model{ID: entry.ID, Label: entry.ID, ContextWindow: entry.ContextLength})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("models: provider %q returned an empty model list", p.ID)
	}
	return dedupe(out), nil
}

// probeCLI infers the model list by invoking the CLI with a deliberately
// invalid model identifier and parsing the usage/error text that enumerates
// the valid choices.
func (f *LiveFetcher) probeCLI(ctx context.Context, p catalog.Provider) ([]Model, error) {
	req := transport.Request{
		Command:     p.Command,
		UserContent: "ping",
		ModelID:     invalidModelID,
		Timeout:     probeTimeout,
	}

	out, err := f.cli.Invoke(ctx, req)

	// The probe is expected to fail: the usage text lives in the error.
	var usageText string
	var exitErr *clirun.ExitError
	switch {
	case errors.As(err, &exitErr):
		usageText = exitErr.Message
	case err != nil:
		return nil, fmt.Errorf("models: probing %s: %w", p.ID, err)
	default:
		// Some tools print usage on stdout and still exit zero.
		usageText = out
	}

	models := ParseEnumeration(usageText)
	if len(models) == 0 {
		return nil, fmt.Errorf("models: probe output for %q did not enumerate models", p.ID)
	}
	return models, nil
}
