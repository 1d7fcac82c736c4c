// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package apperror defines the error taxonomy shared by every handler and
// service. Each failure a request can produce maps to exactly one Error with
// a machine-readable code and an HTTP status. Wrapped causes are kept for
// server-side logging and never serialized to clients.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Machine-readable error codes carried in the response envelope.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeStorage        = "STORAGE_ERROR"
	CodeMetadata       = "METADATA_ERROR"
	CodeCompletion     = "COMPLETION_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

// Error is a categorized failure. It carries everything the centralized
// handler needs to format a response and log the cause.
type Error struct {
	Code      string
	Message   string
	Status    int
	Timestamp time.Time
	Details   map[string]string
	cause     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the wrapped low-level failure, or nil. Logged, never sent
// to clients.
func (e *Error) Cause() error {
	return e.cause
}

func newError(code, message string, status int, cause error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Status:    status,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// Validation returns a 400 error with a field->message details map.
func Validation(message string, details map[string]string) *Error {
	e := newError(CodeValidation, message, http.StatusBadRequest, nil)
	e.Details = details
	return e
}

// Authentication returns a 401 error.
func Authentication(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return newError(CodeAuthentication, message, http.StatusUnauthorized, nil)
}

// NotFound returns a 404 error. Used both for genuinely missing resources
// and for ownership mismatches, which must be indistinguishable.
func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return newError(CodeNotFound, message, http.StatusNotFound, nil)
}

// Storage wraps an object-store failure as a 500 error.
func Storage(message string, cause error) *Error {
	return newError(CodeStorage, message, http.StatusInternalServerError, cause)
}

// Metadata wraps a metadata-store failure as a 500 error.
func Metadata(message string, cause error) *Error {
	return newError(CodeMetadata, message, http.StatusInternalServerError, cause)
}

// Completion wraps a completion-API failure as a 500 error.
func Completion(message string, cause error) *Error {
	return newError(CodeCompletion, message, http.StatusInternalServerError, cause)
}

// Internal wraps an unclassified failure as a generic 500 error.
func Internal(cause error) *Error {
	return newError(CodeInternal, "Internal server error", http.StatusInternalServerError, cause)
}

// From normalizes any error into an *Error. Taxonomy errors pass through
// unchanged; anything else becomes an Internal error.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
