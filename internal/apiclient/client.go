// Package apiclient is the Go client for the verification API. Every call
// returns a result.Result; failures are classified into the domain error
// taxonomy and the client never panics on bad input or bad responses.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/Harshitk-cp/veritas/internal/buildconfig"
	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/result"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultTimeout        = 30 * time.Second
	DefaultMaxAttempts    = 3
	BaseRetryDelay        = 500 * time.Millisecond
	MaxRetryDelay         = 10 * time.Second
	RetryJitterPercentage = 0.1

	maxResponseBytes = 4 << 20
)

// RequestSpec describes one API call. Timeout bounds each attempt; zero
// means the client default.
type RequestSpec struct {
	Method  string
	Path    string
	Body    any
	Timeout time.Duration
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	validate    *validator.Validate
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient replaces the transport. Per-attempt timeouts are applied
// through the request context, so the client's own Timeout can stay zero.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the default per-attempt timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxAttempts caps the total number of attempts, including the first
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the first retry delay and the ceiling it doubles up to
func WithBackoff(base, max time.Duration) Option {
	return func(c *Client) {
		if base > 0 {
			c.baseDelay = base
		}
		if max >= base {
			c.maxDelay = max
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{},
		timeout:     DefaultTimeout,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   BaseRetryDelay,
		maxDelay:    MaxRetryDelay,
		validate:    newValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type attemptResult struct {
	status int
	body   []byte
	err    error
}

// Do performs spec against the API and decodes a successful body into T.
//
// Transport failures, attempt timeouts, 429 and 5xx responses are retried
// with exponential backoff and jitter up to the client's max attempts. Other
// 4xx responses, and 5xx bodies carrying CONFIG_ERROR or VALIDATION_ERROR,
// are returned at once. Cancelling ctx resolves to CANCELLED.
func Do[T any](ctx context.Context, c *Client, spec RequestSpec) result.Result[T] {
	if err := ctx.Err(); err != nil {
		return result.Fail[T](contextError(err))
	}

	var payload []byte
	if spec.Body != nil {
		b, err := json.Marshal(spec.Body)
		if err != nil {
			return result.Fail[T](domain.NewValidationError("request body could not be encoded"))
		}
		payload = b
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	var lastErr *domain.Error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, c.retryDelay(attempt-1)); err != nil {
				return result.Fail[T](contextError(err))
			}
		}

		res := c.attempt(ctx, spec, payload, timeout)
		switch {
		case res.err != nil:
			if err := ctx.Err(); err != nil {
				return result.Fail[T](contextError(err))
			}
			var de *domain.Error
			if errors.As(res.err, &de) {
				return result.Fail[T](de)
			}
			if errors.Is(res.err, context.DeadlineExceeded) {
				lastErr = domain.NewTimeoutError("the request timed out, please try again", res.err)
			} else {
				lastErr = domain.NewUpstreamError("the service could not be reached, please try again", res.err)
			}
			continue
		case res.status >= http.StatusInternalServerError || res.status == http.StatusTooManyRequests:
			lastErr = errorFromResponse(res.status, res.body)
			if !retryable(lastErr) {
				return result.Fail[T](lastErr)
			}
			continue
		case res.status >= http.StatusBadRequest:
			return result.Fail[T](errorFromResponse(res.status, res.body))
		}

		return decode[T](c.validate, res.body)
	}

	return result.Fail[T](lastErr)
}

func (c *Client) attempt(ctx context.Context, spec RequestSpec, payload []byte, timeout time.Duration) attemptResult {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(actx, spec.Method, c.baseURL+spec.Path, body)
	if err != nil {
		return attemptResult{err: domain.NewValidationError(fmt.Sprintf("invalid request: %v", err))}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildconfig.UserAgent())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return attemptResult{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return attemptResult{status: resp.StatusCode, err: fmt.Errorf("read response: %w", err)}
	}
	return attemptResult{status: resp.StatusCode, body: respBody}
}

// retryDelay calculates the delay for exponential backoff with jitter.
func (c *Client) retryDelay(retry int) time.Duration {
	delay := c.baseDelay << retry
	if delay > c.maxDelay || delay <= 0 {
		delay = c.maxDelay
	}

	jitter := int64(float64(delay) * RetryJitterPercentage)
	if jitter > 0 {
		//nolint:gosec // math/rand is fine for retry jitter
		delay += time.Duration(rand.Int64N(2*jitter) - jitter)
	}
	if delay < 0 {
		return c.baseDelay
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// contextError maps the caller's context failure. A caller deadline is a
// TIMEOUT; anything else is a cancellation.
func contextError(err error) *domain.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTimeoutError("the request timed out, please try again", err)
	}
	return domain.NewCancelledError(err)
}

func errorFromResponse(status int, body []byte) *domain.Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	msg := strings.TrimSpace(eb.Error)
	if msg == "" {
		msg = http.StatusText(status)
	}

	code := domain.ErrorCode(eb.Code)
	switch code {
	case domain.CodeValidation, domain.CodeUpstream, domain.CodeDecode,
		domain.CodeTimeout, domain.CodeCancelled, domain.CodeConfig:
	default:
		switch {
		case status == http.StatusGatewayTimeout:
			code = domain.CodeTimeout
		case status >= http.StatusInternalServerError || status == http.StatusTooManyRequests:
			code = domain.CodeUpstream
		default:
			code = domain.CodeValidation
		}
	}

	return &domain.Error{Code: code, Message: msg, Err: fmt.Errorf("status %d", status)}
}

// retryable reports whether a server-side failure can succeed on a later
// attempt. Missing credentials and rejected input will not.
func retryable(err *domain.Error) bool {
	switch err.Code {
	case domain.CodeConfig, domain.CodeValidation:
		return false
	}
	return true
}

func decode[T any](v *validator.Validate, body []byte) result.Result[T] {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return result.Fail[T](domain.NewDecodeError("response could not be decoded", err))
	}
	if reflect.Indirect(reflect.ValueOf(&out)).Kind() == reflect.Struct {
		if err := v.Struct(&out); err != nil {
			return result.Fail[T](domain.NewDecodeError("response is missing required fields", err))
		}
	}
	return result.Ok(out)
}
