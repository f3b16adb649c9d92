// Package openai provides the upstream provider adapter over the OpenAI
// HTTP API. It implements the domain.Provider interface: the Responses API
// (non-streaming and streaming), image generation, audio, and file storage.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/davidbz/hearth/internal/domain"
	"github.com/davidbz/hearth/internal/observability"
)

// Provider implements the domain.Provider interface for OpenAI.
type Provider struct {
	apiKey  string
	baseURL string
	name    string

	// httpClient carries the request timeout for unary calls; streamClient
	// has none, since an SSE response outlives any fixed timeout and is
	// bounded by the request context instead.
	httpClient   *http.Client
	streamClient *http.Client
}

// NewProvider creates a new OpenAI provider.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &Provider{
		apiKey:  config.APIKey,
		baseURL: baseURL,
		name:    "openai",
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
		streamClient: &http.Client{},
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// apiError is the error envelope returned by the API on non-2xx statuses.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// newJSONRequest builds an authenticated JSON request.
func (p *Provider) newJSONRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// decodeError turns a non-2xx response into an error, preferring the API's
// own message over the raw body.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, envelope.Error.Message)
	}
	return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
}

// doJSON executes a request and decodes a JSON response into out.
func (p *Provider) doJSON(req *http.Request, out any) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// CreateResponse executes a non-streaming Responses API request.
func (p *Provider) CreateResponse(ctx context.Context, req *domain.ResponseRequest) (*domain.ResponseSnapshot, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling responses API")

	body := *req
	body.Stream = false

	httpReq, err := p.newJSONRequest(ctx, http.MethodPost, "/responses", &body)
	if err != nil {
		return nil, err
	}

	var snapshot domain.ResponseSnapshot
	if err := p.doJSON(httpReq, &snapshot); err != nil {
		logger.Error("responses API call failed", observability.Error(err))
		return nil, err
	}

	return &snapshot, nil
}

// StreamResponse opens a streaming Responses API request and returns a
// pull-based event stream over the SSE body. The stream's lifetime is tied
// to ctx: cancelling the context tears the connection down.
func (p *Provider) StreamResponse(ctx context.Context, req *domain.ResponseRequest) (domain.EventStream, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("opening responses API stream")

	body := *req
	body.Stream = true

	httpReq, err := p.newJSONRequest(ctx, http.MethodPost, "/responses", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.streamClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := decodeError(resp)
		_ = resp.Body.Close()
		return nil, err
	}

	return newEventStream(resp.Body), nil
}
