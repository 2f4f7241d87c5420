// Package fetchretry wraps an HTTP client with a per-attempt timeout and
// bounded fixed-delay retries for transient failures.
package fetchretry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxErrorBody caps how much of a failed response is kept for decoding.
const maxErrorBody = 64 << 10

// Config controls timeouts and retries.
type Config struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns a 10s timeout with 3 retries one second apart.
func DefaultConfig() Config {
	return Config{
		Timeout:    10 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// Client executes requests with retries.
type Client struct {
	http   *http.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a Client. A nil httpClient uses http.DefaultClient; zero
// config fields take their defaults.
func New(httpClient *http.Client, cfg Config, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	return &Client{http: httpClient, cfg: cfg, logger: logger}
}

// Do sends req, retrying timeouts, transport failures and 502/503/504/429
// responses. Other non-2xx responses come back as *StatusError without a
// retry. On success the caller must close the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	parent := req.Context()
	ctx, span := tracer.Start(parent, "fetchretry.Do", trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL.String()),
	))
	defer span.End()

	if err := bufferBody(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	attempts := c.cfg.MaxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.attempt(ctx, req)
		span.SetAttributes(attribute.Int("fetch.attempts", attempt))
		if err == nil {
			attemptsTotal.WithLabelValues("ok").Inc()
			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
			return resp, nil
		}
		if parent.Err() != nil {
			span.RecordError(parent.Err())
			span.SetStatus(codes.Error, parent.Err().Error())
			return nil, parent.Err()
		}

		attemptsTotal.WithLabelValues(outcome(err)).Inc()
		lastErr = err
		if !retryable(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if attempt == attempts {
			break
		}

		retriesTotal.Inc()
		if c.logger != nil {
			c.logger.Debug("retrying store request",
				"method", req.Method,
				"url", req.URL.String(),
				"attempt", attempt,
				"error", err)
		}
		if err := sleep(parent, c.cfg.RetryDelay); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	err := fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, lastErr)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if c.logger != nil {
		c.logger.Warn("store request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"attempts", attempts,
			"error", lastErr)
	}
	return nil, err
}

// attempt runs one try under its own deadline. A successful response keeps
// the deadline alive until its body is closed.
func (c *Client) attempt(ctx context.Context, req *http.Request) (*http.Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)

	r := req.Clone(attemptCtx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to replay request body: %w", err)
		}
		r.Body = body
	}

	resp, err := c.http.Do(r)
	if err != nil {
		timedOut := errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
		cancel()
		if timedOut {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		cancel()
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func retryable(err error) bool {
	return IsConnection(err)
}

func outcome(err error) string {
	var se *StatusError
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.As(err, &se) && se.Transient():
		return "transient"
	default:
		return "status"
	}
}

// bufferBody makes a one-shot body replayable.
func bufferBody(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return nil
	}
	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	req.Body, _ = req.GetBody()
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
