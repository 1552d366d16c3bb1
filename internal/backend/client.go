// Package backend talks to the remote system of record. Every call goes to
// one endpoint and is dispatched by a "method" parameter: GET requests
// carry it in the query string, POST requests in the JSON body.
package backend

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

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/metrics"
)

const maxResponseSize = 32 << 20

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type Client struct {
	endpoints EndpointStore
	http      *http.Client
	timeout   time.Duration
	breaker   *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(endpoints EndpointStore, timeout time.Duration) *Client {
	return &Client{
		endpoints: endpoints,
		http:      &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout:   timeout,
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "backend",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Endpoints exposes the store so configuration changes go through the
// same value the client reads.
func (c *Client) Endpoints() EndpointStore {
	return c.endpoints
}

func (c *Client) get(ctx context.Context, method string, params url.Values, out any) error {
	return c.call(ctx, method, out, func(ctx context.Context, base string) (*http.Request, error) {
		u, err := url.Parse(base)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				if v != "" {
					q.Add(k, v)
				}
			}
		}
		q.Set("method", method)
		u.RawQuery = q.Encode()
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	})
}

func (c *Client) post(ctx context.Context, method string, payload any, out any) error {
	body, err := dispatchBody(method, payload)
	if err != nil {
		return err
	}
	return c.call(ctx, method, out, func(ctx context.Context, base string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, base, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

// dispatchBody flattens payload into one JSON object next to "method".
func dispatchBody(method string, payload any) ([]byte, error) {
	fields := map[string]any{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload failed: %w", method, err)
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%s payload must be an object: %w", method, err)
		}
	}
	fields["method"] = method
	return json.Marshal(fields)
}

func (c *Client) call(ctx context.Context, method string, out any, build func(context.Context, string) (*http.Request, error)) error {
	base, err := c.endpoints.Get(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := build(ctx, base)
		if err != nil {
			return nil, fmt.Errorf("%w: build %s request: %v", ErrUnavailable, method, err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, method, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("%w: %s: status %d", ErrUnavailable, method, resp.StatusCode)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: read body: %v", ErrUnavailable, method, err)
		}
		return data, nil
	})
	metrics.BackendLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %s: %v", ErrUnavailable, method, err)
	}
	if err != nil {
		metrics.BackendCalls.WithLabelValues(method, "unavailable").Inc()
		logger.FromContext(ctx).Warn("backend call failed", "method", method, "err", err)
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		metrics.BackendCalls.WithLabelValues(method, "bad_response").Inc()
		return fmt.Errorf("%w: %s: %v", ErrBadResponse, method, err)
	}
	if !env.Success {
		metrics.BackendCalls.WithLabelValues(method, "rejected").Inc()
		return &APIError{Method: method, Message: env.Error}
	}

	metrics.BackendCalls.WithLabelValues(method, "ok").Inc()
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadResponse, method, err)
	}
	return nil
}
