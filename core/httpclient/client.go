// Package httpclient provides the retrying JSON transport used by source adapters.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrInvalidJSON is returned when an upstream answers with a body that is not JSON.
var ErrInvalidJSON = errors.New("invalid json body")

// StatusError is returned for non-2xx responses that survived all retries.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, body)
}

// Client resolves to a parsed JSON body or fails after its retries are exhausted.
type Client struct {
	http      *retryablehttp.Client
	userAgent string
}

// New creates a Client. Retries cover network errors, 429 and 5xx responses
// with exponential backoff between RetryWaitMin and RetryWaitMax.
func New(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = time.Duration(cfg.RetryWaitMinMillis) * time.Millisecond
	rc.RetryWaitMax = time.Duration(cfg.RetryWaitMaxMillis) * time.Millisecond
	rc.Backoff = retryablehttp.DefaultBackoff
	rc.CheckRetry = retryablehttp.DefaultRetryPolicy
	rc.HTTPClient.Timeout = time.Duration(timeout) * time.Second
	// Hand the final response back so the status can be reported.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if logger != nil {
		rc.Logger = leveledLogger{logger.Named("http").Sugar()}
	} else {
		rc.Logger = nil
	}

	return &Client{http: rc, userAgent: cfg.UserAgent}
}

// GetJSON performs a GET and parses the body.
func (c *Client) GetJSON(ctx context.Context, url string) (gjson.Result, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gjson.Result{}, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("GET %s: %w", url, ErrInvalidJSON)
	}

	return gjson.ParseBytes(body), nil
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
