package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Client performs JSON requests against REST providers.
type Client struct {
	http      *http.Client
	userAgent string
}

// New creates a reusable client with the given timeout.
func New(timeout time.Duration, userAgent string) *Client {
	return NewWithHTTP(&http.Client{Timeout: timeout}, userAgent)
}

// NewWithHTTP wraps an existing http.Client.
func NewWithHTTP(client *http.Client, userAgent string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{http: client, userAgent: userAgent}
}

// Get issues a GET with the query appended and decodes the JSON body into v.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, headers map[string]string, v any) error {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	return c.do(req, headers, v)
}

// Post marshals payload, posts it and decodes the JSON body into v.
func (c *Client) Post(ctx context.Context, endpoint string, payload any, headers map[string]string, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, headers, v)
}

func (c *Client) do(req *http.Request, headers map[string]string, v any) error {
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
