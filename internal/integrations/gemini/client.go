// Package gemini adapts the Google Gemini API to the single-completion model
// contract used by the interpretation pipeline.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Client returns raw text completions from Gemini.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
}

type Option func(*options)

type options struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

func WithModel(model string) Option {
	return func(o *options) {
		if m := strings.TrimSpace(model); m != "" {
			o.model = m
		}
	}
}

func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// NewClient builds a client for apiKey. The key is held for the lifetime of
// the client and never read from the environment.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	o := options{model: defaultModel}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
	}
	if o.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{client: client, model: o.model, temperature: 0.1}, nil
}

// Complete sends prompt as a single user turn and returns the response text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := c.temperature
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", classifyUpstream(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

// classifyUpstream rewords API status errors so the pipeline can tell
// credential problems and timeouts apart from other failures.
func classifyUpstream(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNAUTHENTICATED"), strings.Contains(msg, "PERMISSION_DENIED"), strings.Contains(msg, "API_KEY_INVALID"):
		return fmt.Errorf("gemini: API key rejected: %w", err)
	case strings.Contains(msg, "DEADLINE_EXCEEDED"):
		return fmt.Errorf("gemini: upstream timeout: %w", err)
	default:
		return fmt.Errorf("gemini: generate content: %w", err)
	}
}
