// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/segmento/resolve/lib/apiclient"
	"github.com/segmento/resolve/lib/schema/ticket"
)

// ErrorCategory classifies command errors so scripts can decide whether
// to fix input, log in again, or retry without parsing message text.
type ErrorCategory string

const (
	// CategoryValidation indicates invalid input: missing required
	// flags, wrong argument count, a form that fails validation.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced ticket or user does not
	// exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden indicates the session's role may not run the
	// command, or there is no usable session.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict indicates the request conflicts with existing
	// state, such as registering an email twice.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient indicates a failure that may pass on retry:
	// the service is unreachable, slow, or answered 5xx.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected failure: local I/O, an
	// undecodable response.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized command error. It wraps the underlying
// error, so errors.Is and errors.As see through it.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is an optional next step printed after the message.
	Hint string
}

func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode maps the category to the process exit status, so scripts
// can branch on the kind of failure.
func (e *ToolError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryForbidden:
		return 3
	case CategoryNotFound:
		return 4
	case CategoryConflict:
		return 5
	case CategoryTransient:
		return 6
	}
	return 1
}

// WithHint sets the hint and returns e for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// FromAPIError categorizes an error returned by the API client. The
// message is left as the service wrote it. A nil error stays nil and
// an error that is already categorized is returned unchanged.
func FromAPIError(err error) error {
	if err == nil {
		return nil
	}

	var toolError *ToolError
	if errors.As(err, &toolError) {
		return err
	}

	var formError *ticket.FormError
	if errors.As(err, &formError) {
		return &ToolError{Category: CategoryValidation, Err: err}
	}

	var apiError *apiclient.APIError
	if errors.As(err, &apiError) {
		return &ToolError{Category: categoryForStatus(apiError.StatusCode), Err: err, Hint: hintForStatus(apiError.StatusCode)}
	}

	var urlError *url.Error
	if errors.As(err, &urlError) || errors.Is(err, context.DeadlineExceeded) {
		return &ToolError{Category: CategoryTransient, Err: err}
	}
	return &ToolError{Category: CategoryInternal, Err: err}
}

func categoryForStatus(status int) ErrorCategory {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return CategoryValidation
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CategoryForbidden
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status == http.StatusConflict:
		return CategoryConflict
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500:
		return CategoryTransient
	}
	return CategoryInternal
}

func hintForStatus(status int) string {
	if status == http.StatusUnauthorized {
		return "The service rejected the saved session. Run 'resolve login' to sign in again."
	}
	return ""
}
