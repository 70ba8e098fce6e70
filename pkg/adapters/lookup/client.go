package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/aretw0/concierge/pkg/domain"
)

const (
	defaultRetries = 2
	defaultBackoff = 200 * time.Millisecond
	userAgent      = "concierge/1.0"
)

// Option configures an HTTP lookup client.
type Option func(*client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(url string) Option {
	return func(c *client) {
		c.baseURL = url
	}
}

// WithRateLimit caps outgoing requests to rps per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

// WithRetries sets how many times a failed GET is retried and the initial backoff.
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *client) {
		c.retries = max(n, 0)
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

type client struct {
	service string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retries int
	backoff time.Duration
}

func newClient(service, baseURL string, opts []Option) client {
	c := client{
		service: service,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		retries: defaultRetries,
		backoff: defaultBackoff,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// statusError is returned for non-2xx responses.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// decodeError marks a successful response whose body could not be decoded.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.err)
}

func (e *decodeError) Unwrap() error {
	return e.err
}

// retryable reports whether another attempt may succeed: transport errors, 429 and 5xx.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.retryable()
	}
	var de *decodeError
	return !errors.As(err, &de)
}

// getJSON performs a GET and decodes the JSON body into out. GETs are idempotent, so
// transport errors, 429 and 5xx responses are retried with exponential backoff.
func (c *client) getJSON(ctx context.Context, op, url string, out any) error {
	backoff := c.backoff
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return c.fail(ctx, op, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return c.fail(ctx, op, err)
		}

		lastErr = c.do(ctx, url, out)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	return c.fail(ctx, op, lastErr)
}

func (c *client) do(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}

func (c *client) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return &domain.ExternalServiceError{Service: c.service, Op: op, Err: err}
}
