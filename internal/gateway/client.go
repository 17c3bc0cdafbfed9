// Package gateway is the typed HTTP client the console uses to reach the
// portal API. Every call goes through the server's response envelope.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// APIError is an error answered by the server, carrying its envelope code.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// IsUnauthorized reports whether err means the session is gone.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

// Client talks to the portal API on behalf of one signed-in user.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("component", "gateway").Logger() }
}

// WithToken starts the client with an existing session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the API rooted at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current session token, or "" when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// doJSON sends body as JSON and decodes the envelope data into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	return c.do(ctx, method, path, "application/json", reader, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("API call")

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		if res.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: res.StatusCode, Code: "HTTP_ERROR", Message: res.Status}
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	if env.Error != nil || res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: res.StatusCode, Code: "HTTP_ERROR", Message: res.Status}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Fields = env.Error.Fields
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}
