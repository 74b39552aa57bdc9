// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id the service can log.
const RequestIDHeader = "X-Request-ID"

// Options configures a [Client].
type Options struct {
	// BaseURL is the ticketing service root, e.g. http://localhost:8080.
	// Relative request paths are resolved against it.
	BaseURL string

	// Token is the bearer token. Empty means unauthenticated requests.
	Token string

	// Timeout bounds each request. Zero means no client-side timeout
	// beyond the caller's context.
	Timeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string

	// Logger receives one debug record per completed request. Nil
	// discards.
	Logger *slog.Logger
}

// Client calls the ticketing service REST API. Each call is a single
// attempt: there are no retries and no request deduplication. Safe for
// concurrent use.
type Client struct {
	http   *resty.Client
	logger *slog.Logger

	mutex sync.RWMutex
	token string
}

// New creates a client from options.
func New(options Options) *Client {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(options.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json, text/plain, */*").
		SetRetryCount(0).
		SetLogger(restyLogger{logger: logger})
	if options.Timeout > 0 {
		httpClient.SetTimeout(options.Timeout)
	}
	if options.UserAgent != "" {
		httpClient.SetHeader("User-Agent", options.UserAgent)
	}

	client := &Client{
		http:   httpClient,
		logger: logger,
		token:  options.Token,
	}
	httpClient.OnAfterResponse(client.logResponse)
	return client
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// SetToken replaces the bearer token used by subsequent requests.
func (c *Client) SetToken(token string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.token
}

// APIError is a non-success HTTP response. Message is the service's
// JSON "message" field when it sent one, otherwise the generic
// "Request failed: <status>".
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// IsStatus reports whether err is an [APIError] with the given status.
func IsStatus(err error, status int) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == status
}

// newRequest prepares a request carrying the context, bearer token,
// and a fresh request id.
func (c *Client) newRequest(ctx context.Context) *resty.Request {
	request := c.http.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString())
	if token := c.Token(); token != "" {
		request.SetAuthToken(token)
	}
	return request
}

// do executes request and decodes a JSON response body into result
// (when non-nil and the body is non-empty).
func (c *Client) do(request *resty.Request, method, path string, result any) error {
	response, err := c.execute(request, method, path)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return decodeBody(method, path, response.Body(), result)
}

// execute sends request once and converts transport failures and
// non-success statuses into errors.
func (c *Client) execute(request *resty.Request, method, path string) (*resty.Response, error) {
	response, err := request.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if response.IsError() {
		return nil, newAPIError(method, path, response)
	}
	return response, nil
}

func decodeBody(method, path string, body []byte, result any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}

func newAPIError(method, path string, response *resty.Response) *APIError {
	apiError := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: response.StatusCode(),
		Message:    fmt.Sprintf("Request failed: %d", response.StatusCode()),
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(response.Body(), &body); err == nil && body.Message != "" {
		apiError.Message = body.Message
	}
	return apiError
}

func (c *Client) logResponse(_ *resty.Client, response *resty.Response) error {
	request := response.Request
	c.logger.Debug("api request",
		"method", request.Method,
		"url", request.URL,
		"status", response.StatusCode(),
		"duration", response.Time(),
		"request_id", request.Header.Get(RequestIDHeader),
	)
	return nil
}

// Get issues a GET to path and decodes a JSON response into result.
// path may be relative to the base URL or an absolute URL.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.do(c.newRequest(ctx), http.MethodGet, path, result)
}

// Post issues a POST with body encoded as JSON and decodes a JSON
// response into result (when non-nil).
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.do(c.newRequest(ctx).SetBody(body), http.MethodPost, path, result)
}

// Put issues a PUT. A nil body sends no payload.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	request := c.newRequest(ctx)
	if body != nil {
		request.SetBody(body)
	}
	return c.do(request, http.MethodPut, path, result)
}

// restyLogger routes resty's own diagnostics (such as the warning for
// bearer tokens over plain HTTP) into slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, args ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l restyLogger) Warnf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l restyLogger) Debugf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
