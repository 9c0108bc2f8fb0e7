// Package api implements the gateway to the vocabulary backend: a thin
// wrapper over HTTP that attaches the bearer token, classifies failures into
// the client error taxonomy, and validates response payloads.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"vocabapp/internal/config"
	"vocabapp/internal/observability"
	contextutils "vocabapp/internal/utils"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenSource supplies the current bearer token, empty when logged out.
type TokenSource interface {
	Token() string
}

// AuthFailureHandler is invoked when the server rejects the bearer token.
// Implementations must be idempotent: concurrent requests can all see 401.
type AuthFailureHandler func(ctx context.Context)

// Client is the sole point of outbound network contact. Every call resolves
// to exactly one of: decoded data, auth failure, server error, or connection
// error - never both a value and an error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *observability.Logger
	schemas    *SchemaValidator

	mu            sync.RWMutex
	onAuthFailure AuthFailureHandler
}

// NewClient builds a gateway for the configured backend.
func NewClient(cfg *config.Config, tokens TokenSource, logger *observability.Logger) (*Client, error) {
	schemas, err := NewSchemaValidator()
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.Client.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Client.RequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens:  tokens,
		logger:  logger,
		schemas: schemas,
	}, nil
}

// SetAuthFailureHandler registers the forced-logout hook fired on HTTP 401.
func (c *Client) SetAuthFailureHandler(h AuthFailureHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAuthFailure = h
}

type requestOptions struct {
	// authenticated requests treat 401 as a session failure and trigger the
	// forced-logout hook; public requests treat it as invalid credentials.
	authenticated bool
	contentType   string
	schemaName    string
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, opts requestOptions, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return contextutils.WrapError(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if opts.contentType != "" {
		req.Header.Set("Content-Type", opts.contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return contextutils.NewAppErrorWithCause(contextutils.ErrorCodeConnection, contextutils.SeverityError,
			"connection error", err.Error(), err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn(ctx, "Failed to close response body", map[string]interface{}{"error": cerr.Error(), "path": path})
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return contextutils.NewAppErrorWithCause(contextutils.ErrorCodeConnection, contextutils.SeverityError,
			"connection error", err.Error(), err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if opts.authenticated {
			c.mu.RLock()
			handler := c.onAuthFailure
			c.mu.RUnlock()
			if handler != nil {
				handler(ctx)
			}
			return contextutils.ErrAuthFailure
		}
		return contextutils.NewAppError(contextutils.ErrorCodeInvalidCredentials, contextutils.SeverityWarn,
			"invalid credentials", decodeDetail(data))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn(ctx, "Server returned error status", map[string]interface{}{
			"status": resp.StatusCode,
			"path":   path,
		})
		return contextutils.NewAppError(contextutils.ErrorCodeServer, contextutils.SeverityError,
			fmt.Sprintf("server returned status %d", resp.StatusCode), decodeDetail(data))
	}

	if out == nil {
		return nil
	}

	if opts.schemaName != "" {
		if err := c.schemas.Validate(opts.schemaName, data); err != nil {
			return err
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return contextutils.NewAppErrorWithCause(contextutils.ErrorCodeConnection, contextutils.SeverityError,
			"failed to parse server response", err.Error(), err)
	}
	return nil
}

// doText fetches a non-JSON resource (HTML partial templates).
func (c *Client) doText(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", contextutils.WrapError(err, "failed to build request")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", contextutils.NewAppErrorWithCause(contextutils.ErrorCodeConnection, contextutils.SeverityError,
			"connection error", err.Error(), err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn(ctx, "Failed to close response body", map[string]interface{}{"error": cerr.Error(), "path": path})
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", contextutils.NewAppErrorWithCause(contextutils.ErrorCodeConnection, contextutils.SeverityError,
			"connection error", err.Error(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", contextutils.NewAppError(contextutils.ErrorCodeServer, contextutils.SeverityError,
			fmt.Sprintf("server returned status %d", resp.StatusCode), "")
	}
	return string(data), nil
}

// decodeDetail extracts the server-supplied error detail. FastAPI-style
// backends send either {"detail": "msg"} or {"detail": [{"msg": ...}, ...]}.
func decodeDetail(data []byte) string {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return ""
	}
	if len(envelope.Detail) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, ", ")
		}
	}
	return envelope.Message
}
