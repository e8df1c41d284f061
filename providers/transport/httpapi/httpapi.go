// Package httpapi implements the HTTP transport adapter: a single POST per
// call to an OpenAI-compatible chat-completions endpoint, with a fixed low
// temperature, a system+user message pair and the provider's JSON-only
// response mode requested.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/frogg-app/prompt-assistant/internal/utils"
	"github.com/frogg-app/prompt-assistant/providers/transport"
)

const (
	// temperature is fixed and low: prompt refinement wants determinism,
	// not creative sampling.
	temperature = 0.2

	// DefaultTimeout bounds a chat call when the request does not set one.
	DefaultTimeout = 120 * time.Second

	// DefaultChatPath is the OpenAI-compatible chat completions path used
	// when the request leaves ChatPath empty.
	DefaultChatPath = "/chat/completions"
)

// Adapter performs HTTP chat calls. The zero value is not usable; construct
// with [New].
type Adapter struct {
	client *http.Client
}

// New returns an Adapter backed by the given HTTP client. A nil client
// falls back to http.DefaultClient.
func New(client *http.Client) *Adapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Adapter{client: client}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Invoke issues exactly one POST to the provider's chat endpoint and
// returns the assistant message content. Authentication rejections (401,
// 403) are returned as a *transport.AuthError; deadline expiry wraps
// transport.ErrTimeout. There is no retry on any path.
func (a *Adapter) Invoke(ctx context.Context, req transport.Request) (string, error) {
	if req.BaseURL == "" {
		return "", fmt.Errorf("httpapi: base URL is empty")
	}

	chatPath := req.ChatPath
	if chatPath == "" {
		chatPath = DefaultChatPath
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	messages := make([]chatMessage, 0, 2)
	if req.SystemInstructions != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemInstructions})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserContent})

	body := chatRequest{
		Model:          req.ModelID,
		Messages:       messages,
		Temperature:    temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	headers := map[string]string{}
	if req.Credential != "" {
		headers["Authorization"] = "Bearer " + req.Credential
	}

	_, parsed, err := utils.DoPostSync[chatResponse](ctx, a.client, req.BaseURL+chatPath, headers, body)
	if err != nil {
		return "", classify(ctx, err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("httpapi: response contains no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// classify maps low-level HTTP failures onto the transport error taxonomy.
func classify(ctx context.Context, err error) error {
	var httpErr *utils.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
			return &transport.AuthError{StatusCode: httpErr.StatusCode, Body: utils.TruncateString(httpErr.Body, 300)}
		}
		return err
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", transport.ErrTimeout, err)
	}
	return err
}
