package setup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const (
	// docsTimeout bounds the documentation fetch.
	docsTimeout = 30 * time.Second
	// docsUserAgent identifies the fetcher.
	docsUserAgent = "prompt-assistant-setup/1.0"
	// maxDocsSize caps the fetched page body (5MB).
	maxDocsSize = 5 * 1024 * 1024
)

// FetchDocs retrieves a provider's setup documentation page and converts it
// to Markdown for terminal display. client nil means http.DefaultClient.
func FetchDocs(ctx context.Context, client *http.Client, providerID string) (string, error) {
	descriptor, ok := For(providerID)
	if !ok {
		return "", fmt.Errorf("setup: no descriptor for provider %q", providerID)
	}
	if descriptor.DocsURL == "" {
		return "", fmt.Errorf("setup: provider %q has no documentation URL", providerID)
	}
	return fetchMarkdown(ctx, client, descriptor.DocsURL)
}

// fetchMarkdown GETs a page and renders it as Markdown.
func fetchMarkdown(ctx context.Context, client *http.Client, url string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, docsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("setup: building request: %w", err)
	}
	req.Header.Set("User-Agent", docsUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("setup: fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("setup: fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxDocsSize))
	if err != nil {
		return "", fmt.Errorf("setup: reading %s: %w", url, err)
	}
	if len(htmlBytes) == maxDocsSize {
		return "", fmt.Errorf("setup: %s exceeds %d bytes", url, maxDocsSize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(htmlBytes))
	if err != nil {
		return "", fmt.Errorf("setup: converting %s to markdown: %w", url, err)
	}
	return markdown, nil
}
