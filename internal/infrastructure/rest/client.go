// Package rest talks to the remote project-management backend over its REST
// interface. The backend owns all domain data; this package only shuttles
// JSON and maps failures onto domain.APIError so the stores can surface the
// server's detail message when one exists.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fullstacktime/projectman/internal/core/domain"
)

const (
	defaultTimeout   = 10 * time.Second
	maxErrorBodySize = 64 << 10
)

// TokenSource supplies the bearer credential for protected calls. Keeping it
// a function keeps the gateways free of direct credential-storage access and
// makes them trivially testable.
type TokenSource func(ctx context.Context) (string, error)

// Client is the shared HTTP plumbing for the auth and project gateways.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// doJSON performs one request/response cycle. A non-2xx status is decoded
// into a domain.APIError carrying the backend's detail message when present.
// When out is nil the response body is discarded.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, err := c.tokens(ctx)
		if err != nil {
			return fmt.Errorf("read access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend unreachable")
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.apiError(resp)
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("path", path).
			Str("detail", apiErr.Detail).
			Msg("backend rejected request")
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError extracts the backend's error payload. The backend answers with
// {"detail": "..."} on most failures; field-validation failures come back as
// a map of field names to message lists, which is flattened to one line.
func (c *Client) apiError(resp *http.Response) *domain.APIError {
	apiErr := &domain.APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return apiErr
	}

	if detail, ok := payload["detail"].(string); ok {
		apiErr.Detail = detail
		return apiErr
	}
	apiErr.Detail = flattenFieldErrors(payload)
	return apiErr
}

func flattenFieldErrors(payload map[string]any) string {
	fields := make([]string, 0, len(payload))
	for name := range payload {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var parts []string
	for _, name := range fields {
		switch v := payload[name].(type) {
		case string:
			parts = append(parts, name+": "+v)
		case []any:
			for _, msg := range v {
				if s, ok := msg.(string); ok {
					parts = append(parts, name+": "+s)
				}
			}
		}
	}
	return strings.Join(parts, "; ")
}
