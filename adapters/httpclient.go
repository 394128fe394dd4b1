package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client is the shared HTTP client for live adapters. Transient failures
// (network errors, 429, 5xx) are retried with bounded exponential backoff;
// everything else surfaces immediately.
type Client struct {
	http       *http.Client
	maxRetries uint64
}

// NewClient builds a Client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http:       &http.Client{Timeout: timeout},
		maxRetries: 4,
	}
}

// DoJSON sends a JSON request and decodes the JSON response into out.
// body and out may be nil.
func (c *Client) DoJSON(ctx context.Context, method, url string, headers map[string]string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	operation := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, truncate(string(respBytes), 200)))
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBytes, out); err != nil {
			return backoff.Permanent(fmt.Errorf("parse response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	return backoff.Retry(operation, policy)
}

// GetBytes fetches a raw payload (e.g. a rendered video download URL).
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
