// Package client talks to a running coldopen generation service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marcus/coldopen/internal/types"
)

// DefaultTimeout bounds a full generation round trip. Each URL may involve
// scraping, web research, and an LLM call, so the ceiling is generous.
const DefaultTimeout = 120 * time.Second

// maxErrorBody caps how much of an error reply is read when hunting for a
// detail message.
const maxErrorBody = 1 << 20

// ServiceError is a non-2xx reply from the generation service. Detail holds
// the service's own message when one was sent, otherwise a generic
// "Server error <status>" placeholder.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service returned %d: %s", e.StatusCode, e.Detail)
}

// TransportError means the service could not be reached at all.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not reach generation service: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Client issues requests against one service base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: DefaultTimeout})
}

// NewWithHTTPClient creates a client with a caller-supplied HTTP client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Generate submits a batch request and returns the per-URL results.
func (c *Client) Generate(ctx context.Context, req types.GenerationRequest) ([]types.GenerationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeServiceError(resp)
	}

	var out types.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding generation response: %w", err)
	}
	return out.Results, nil
}

// Health reports whether the service is up and has an LLM key configured.
func (c *Client) Health(ctx context.Context) (types.HealthStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return types.HealthStatus{}, fmt.Errorf("building health request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return types.HealthStatus{}, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.HealthStatus{}, decodeServiceError(resp)
	}

	var status types.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return types.HealthStatus{}, fmt.Errorf("decoding health response: %w", err)
	}
	return status, nil
}

// decodeServiceError extracts the {"detail": "..."} body the service sends
// with error statuses, falling back to a generic message when the body is
// missing or not JSON.
func decodeServiceError(resp *http.Response) *ServiceError {
	svcErr := &ServiceError{
		StatusCode: resp.StatusCode,
		Detail:     fmt.Sprintf("Server error %d", resp.StatusCode),
	}

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err == nil && body.Detail != "" {
		svcErr.Detail = body.Detail
	}
	return svcErr
}
