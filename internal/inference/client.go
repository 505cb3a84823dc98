// Package inference provides HTTP adapters for the managed model
// endpoints: transaction classification, spending prediction, and
// training job control. The wire contract is the hosted-model invoke
// shape: a JSON object {"instances": [...]} in, {"predictions": [...]}
// out. Adapters perform no retries; retry policy belongs to callers.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/sixjars/jarflow/internal/config"
)

// Client is a low-level invoker for one managed endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates an endpoint client. When client-credentials auth is
// configured, requests carry tokens fetched from the auth server;
// otherwise the endpoint is called directly.
func NewClient(endpoint string, cfg config.EndpointsConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	if cfg.Auth.TokenURL != "" {
		creds := clientcredentials.Config{
			TokenURL:     cfg.Auth.TokenURL,
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
		}
		authed := creds.Client(context.Background())
		authed.Timeout = timeout
		httpClient = authed
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// Endpoint returns the endpoint URL this client targets.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// invokeRequest is the standard hosted-model request envelope.
type invokeRequest struct {
	Instances []any `json:"instances"`
}

// invoke POSTs one instance to the endpoint and decodes the first
// prediction into out. Transport failures and non-2xx statuses are
// returned as *invokeError so callers can classify them.
func (c *Client) invoke(ctx context.Context, instance any, out any) error {
	body, err := json.Marshal(invokeRequest{Instances: []any{instance}})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &invokeError{endpoint: c.endpoint, err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &invokeError{endpoint: c.endpoint, err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &invokeError{
			endpoint: c.endpoint,
			status:   resp.StatusCode,
			err:      fmt.Errorf("endpoint error: %s", string(respBody)),
		}
	}

	var envelope struct {
		Predictions []json.RawMessage `json:"predictions"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return &invokeError{endpoint: c.endpoint, err: fmt.Errorf("malformed response body: %w", err)}
	}
	if len(envelope.Predictions) == 0 {
		return &invokeError{endpoint: c.endpoint, err: fmt.Errorf("response contains no predictions")}
	}
	if err := json.Unmarshal(envelope.Predictions[0], out); err != nil {
		return &invokeError{endpoint: c.endpoint, err: fmt.Errorf("malformed prediction: %w", err)}
	}

	return nil
}

// invokeError is a transport, status, or decode failure from an endpoint.
type invokeError struct {
	err      error
	endpoint string
	status   int
}

func (e *invokeError) Error() string {
	if e.status != 0 {
		return fmt.Sprintf("invoke %s failed (status %d): %v", e.endpoint, e.status, e.err)
	}
	return fmt.Sprintf("invoke %s failed: %v", e.endpoint, e.err)
}

func (e *invokeError) Unwrap() error {
	return e.err
}
