// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend root; every path is resolved under BaseURL + "/api".
	BaseURL string

	// Timeout bounds every request except uploads (default: 60s)
	Timeout time.Duration

	// UploadTimeout bounds document uploads (default: 5m)
	UploadTimeout time.Duration

	// RequestsPerSecond and Burst shape outgoing traffic (default: 20/20)
	RequestsPerSecond float64
	Burst             int

	// Logger receives one debug line per request (default: no-op)
	Logger *zap.Logger

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8000",
		Timeout:           60 * time.Second,
		UploadTimeout:     5 * time.Minute,
		RequestsPerSecond: 20,
		Burst:             20,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the document question-answering backend.
//
// Every call applies its own deadline, so a backend that never answers still
// resolves as a timeout error. The Client is safe for concurrent use.
//
// Example:
//
//	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "http://localhost:8000"})
//	docs, err := client.ListDocuments(ctx)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	root       string
}

// NewClient creates a client for baseURL with default settings.
func NewClient(baseURL string) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.UploadTimeout <= 0 {
		config.UploadTimeout = defaults.UploadTimeout
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if config.Burst <= 0 {
		config.Burst = defaults.Burst
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		// Deadlines come from per-request contexts, not the transport.
		httpClient = &http.Client{}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		logger:     logger.Named("api"),
		root:       strings.TrimRight(config.BaseURL, "/") + "/api",
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// ListDocuments fetches every indexed document.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var out documentsResponse
	if err := c.doJSON(ctx, "list documents", http.MethodGet, "/documents", nil, &out); err != nil {
		return nil, err
	}
	if out.Documents == nil {
		return []Document{}, nil
	}
	return out.Documents, nil
}

// ListCollections fetches the distinct collection names.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	var out collectionsResponse
	if err := c.doJSON(ctx, "list collections", http.MethodGet, "/collections", nil, &out); err != nil {
		return nil, err
	}
	if out.Collections == nil {
		return []string{}, nil
	}
	return out.Collections, nil
}

// UploadDocument posts a multipart form with the raw file bytes under "file"
// and the collection label under "collection".
func (c *Client) UploadDocument(ctx context.Context, filename string, content io.Reader, collection string) (*UploadResponse, error) {
	const op = "upload document"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload form", Cause: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to read upload content", Cause: err}
	}
	if err := mw.WriteField("collection", collection); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload form", Cause: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload form", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.UploadTimeout)
	defer cancel()

	var out UploadResponse
	if err := c.do(ctx, op, http.MethodPost, "/documents/upload", &body, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDocument removes a document. Any 2xx status counts as success.
func (c *Client) DeleteDocument(ctx context.Context, id DocumentID) error {
	path := "/documents/" + url.PathEscape(id.String())
	return c.doJSON(ctx, "delete document", http.MethodDelete, path, nil, nil)
}

// =============================================================================
// CHAT AND PROMPTS
// =============================================================================

// Chat sends one query and returns the answer with its sources.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.doJSON(ctx, "chat", http.MethodPost, "/chat", req, &out); err != nil {
		return nil, err
	}
	if out.Sources == nil {
		out.Sources = []string{}
	}
	return &out, nil
}

// ListPrompts fetches the prompt templates.
func (c *Client) ListPrompts(ctx context.Context) ([]PromptTemplate, error) {
	var out promptsResponse
	if err := c.doJSON(ctx, "list prompts", http.MethodGet, "/prompts", nil, &out); err != nil {
		return nil, err
	}
	if out.Prompts == nil {
		return []PromptTemplate{}, nil
	}
	return out.Prompts, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// doJSON applies the regular timeout and encodes in as a JSON body when non-nil.
func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal " + op + " request", Cause: err}
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, body, contentType, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return classifyTransport(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.root+path, body)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	log := c.logger.With(zap.String("op", op), zap.String("method", method),
		zap.String("path", path), zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		clientErr := classifyTransport(op, err)
		log.Debug("request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(clientErr))
		return clientErr
	}
	defer drainAndClose(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(op, err)
	}
	log.Debug("request finished", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backendError(op, resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "malformed " + op + " response", Cause: err}
	}
	return nil
}

// Helper to drain response body
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
