// Package api implements the REST client for the finance-tracker backend.
//
// All protected calls carry `Authorization: Bearer <token>` when a token is
// available from the TokenSource; absence simply omits the header and lets
// the backend reject the call. The client performs no retries and no
// backoff: failures surface as *Error values carrying the backend's detail
// text.
package api

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

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as plain JSON numbers, matching the backend's float
	// fields.
	decimal.MarshalJSONWithoutQuotes = true
}

// TokenSource supplies the current bearer token, or "" when the user is not
// authenticated.
type TokenSource interface {
	Token() string
}

// Client is the gateway to the backend REST API. The zero value is not
// usable; construct with New.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
}

// Error is a non-2xx backend response.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
}

// IsUnauthorized reports whether err is a 401 from the backend, the signal
// that the session token is missing, invalid or expired.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// New creates a client for the given base URL. tokens may be nil for
// unauthenticated use.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// decodeError extracts the backend's error detail. The backend answers with
// {"detail": "..."} on rejected requests; anything else falls back to the
// status text.
func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}
