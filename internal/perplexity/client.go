// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package perplexity implements the client for the Perplexity
// chat-completions API.
//
// Two transport modes are provided: Chat performs a single buffered request
// and ChatStream consumes server-sent events. Neither retries; every failure
// is returned as a typed error for the caller to classify.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the Perplexity chat completions URL.
	DefaultEndpoint = "https://api.perplexity.ai/chat/completions"

	// DefaultTimeout bounds a single buffered request. Streaming requests
	// are bounded by their context instead.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize caps the buffered response body read.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// Sentinel errors for common API failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("Perplexity API key not configured")

	// ErrAuthFailed indicates the API key was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrInsufficientCredits indicates the account balance is exhausted.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")
)

// APIError is a non-2xx response that did not map to a sentinel error.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("perplexity error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("perplexity error (HTTP %d): %s", e.Status, e.Message)
}

// ShapeError indicates the response body lacked an expected field. A missing
// field is always an error, never an empty-string answer.
type ShapeError struct {
	Field string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("malformed response: missing %s", e.Field)
}

// NetworkError wraps a transport-level failure (DNS, connect, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// apiErrorResponse is the API's error body shape.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Perplexity chat completions endpoint.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	// streamClient has no client timeout; streaming lifetime is bounded by
	// the request context.
	streamClient *http.Client
}

// NewClient creates a client with the given API key. An empty key yields a
// client whose requests fail with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:       strings.TrimSpace(apiKey),
		endpoint:     DefaultEndpoint,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		streamClient: &http.Client{},
	}
}

// WithEndpoint sets a custom endpoint URL. Used by tests.
func (c *Client) WithEndpoint(url string) *Client {
	c.endpoint = strings.TrimSuffix(url, "/")
	return c
}

// WithTimeout sets the buffered request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "hi/1.0")
}

// =============================================================================
// BUFFERED MODE
// =============================================================================

// Chat performs one buffered chat completion request. There is no retry; the
// first failure is returned.
func (c *Client) Chat(ctx context.Context, reqBody *ChatRequest) (*ChatResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.post(ctx, c.httpClient, reqBody, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &chatResp, nil
}

// ValidateKey probes the API with a one-token request against the default
// model. A nil error means the key is accepted.
func (c *Client) ValidateKey(ctx context.Context, probeModel string) error {
	req := &ChatRequest{
		Model:     probeModel,
		Messages:  []ChatMessage{{Role: "user", Content: "hi"}},
		MaxTokens: 1,
	}
	_, err := c.Chat(ctx, req)
	return err
}

// post marshals reqBody and issues the POST. stream selects the
// timeout-free client.
func (c *Client) post(ctx context.Context, hc *http.Client, reqBody *ChatRequest, stream bool) (*http.Response, error) {
	reqBody.Stream = stream

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return resp, nil
}

// readResponse reads the body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// classifyStatus converts a non-2xx response into a typed error.
func classifyStatus(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthFailed, msg)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %s", ErrInsufficientCredits, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrModelNotFound, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	default:
		return &APIError{Status: statusCode, Code: apiErr.Error.Code, Message: msg}
	}
}
