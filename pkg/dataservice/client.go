// Package dataservice is the HTTP client for the metric data service: a
// remote store addressable by metric name, returning unordered datapoint
// collections and accepting datapoint ingestion and deletion.
package dataservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/impulsehq/impulse/pkg/core"
	"github.com/impulsehq/impulse/pkg/logger"
	"github.com/jpillora/backoff"
)

// TokenHeader carries the capability token when one is configured. A
// missing token is not an error at this layer; the service decides
// authorization.
const TokenHeader = "X-Data-Token"

// Client talks to the metric data service
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
	attempts   int
}

// Option defines a function type for configuring a Client instance
type Option func(*Client)

// WithToken sets the capability token attached to every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRetry sets how many times a request is attempted when the service is
// unreachable. Only transport failures are retried; a response from the
// service, success or rejection, is always final.
func WithRetry(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
	}
}

// NewClient creates a data service client for the given base URL
func NewClient(baseURL string, log logger.Logger, options ...Option) *Client {
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
		attempts:   1,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// GetMetric fetches all datapoints for a metric by name. The returned
// collection is unordered; callers are responsible for sorting.
func (c *Client) GetMetric(ctx context.Context, name string) ([]core.Datapoint, error) {
	var datapoints []core.Datapoint
	if err := c.do(ctx, http.MethodGet, "/data/"+url.PathEscape(name), nil, &datapoints); err != nil {
		return nil, err
	}
	return datapoints, nil
}

// ListMetrics returns the names of all metrics known to the service
func (c *Client) ListMetrics(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, http.MethodGet, "/data", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// AddDatapoints ingests new datapoints for a metric
func (c *Client) AddDatapoints(ctx context.Context, name string, datapoints []core.Datapoint) error {
	return c.do(ctx, http.MethodPost, "/data/"+url.PathEscape(name), datapoints, nil)
}

// DeleteMetric removes a metric and all of its datapoints
func (c *Client) DeleteMetric(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/data/"+url.PathEscape(name), nil, nil)
}

// do performs one logical request, retrying transport failures with
// exponential backoff, and normalizes the response into out
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	wait := &backoff.Backoff{
		Min:    250 * time.Millisecond,
		Max:    5 * time.Second,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(wait.Duration()):
			case <-ctx.Done():
				return core.NewTransportError(ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set(TokenHeader, c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.WithError(err).WithField("path", path).Debug("data service unreachable")
			lastErr = err
			continue
		}

		return c.handleResponse(resp, out)
	}

	return core.NewTransportError(lastErr)
}
