// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the JSON shapes of the HTTP surface: the uniform
// response envelope and per-endpoint request/response payloads.
package schema

// Envelope is the uniform response shape. Every endpoint, success or
// failure, serializes exactly one of these.
type Envelope struct {
	Status    string            `json:"status"` // "ok" or "error"
	Message   string            `json:"message,omitempty"`
	Data      any               `json:"data,omitempty"`
	Count     *int              `json:"count,omitempty"`
	ErrorCode string            `json:"errorCode,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Errors    []FieldError      `json:"errors,omitempty"`
	Path      string            `json:"path,omitempty"`
}

// FieldError is one validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
