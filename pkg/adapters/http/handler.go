// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package http implements the HTTP adapter: route registration, auth
// middleware, and the uniform response envelope. Handlers delegate all
// domain logic to the services layer and never format error JSON
// themselves; every failure funnels through writeAppError.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytrix/bytrix-gw/pkg/core/apperror"
	"github.com/bytrix/bytrix-gw/pkg/core/auth"
	"github.com/bytrix/bytrix-gw/pkg/core/schema"
	"github.com/bytrix/bytrix-gw/pkg/core/services"
	"github.com/bytrix/bytrix-gw/pkg/core/validate"
	"github.com/bytrix/bytrix-gw/pkg/observability/logging"
)

const (
	serviceName    = "Bytrix Gateway"
	serviceVersion = "1.0.0"
)

// Options configures the route prefixes and upload limit of the handler.
type Options struct {
	// APIBasePath serves the service descriptor, e.g. "/api/v1".
	APIBasePath string
	// FilesBasePath prefixes the file management routes.
	FilesBasePath string
	// GPTBasePath prefixes the generation and actions routes.
	GPTBasePath string
	// DownloadBasePath prefixes the public vanity download route.
	DownloadBasePath string
	// MaxFileSize bounds multipart upload memory. Zero means 100MB.
	MaxFileSize int64
}

// Handler implements the HTTP adapter.
type Handler struct {
	logger     *logging.Logger
	resolver   *auth.Resolver
	files      *services.FileService
	generation *services.GenerationService
	mux        *http.ServeMux
	opts       Options
}

// New creates a new HTTP handler and registers all routes.
func New(logger *logging.Logger, resolver *auth.Resolver, files *services.FileService, generation *services.GenerationService, opts Options) *Handler {
	if opts.APIBasePath == "" {
		opts.APIBasePath = "/api/v1"
	}
	if opts.FilesBasePath == "" {
		opts.FilesBasePath = opts.APIBasePath + "/files"
	}
	if opts.GPTBasePath == "" {
		opts.GPTBasePath = opts.APIBasePath + "/gpt"
	}
	if opts.DownloadBasePath == "" {
		opts.DownloadBasePath = "/file"
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = 100 * 1024 * 1024
	}

	h := &Handler{
		logger:     logger,
		resolver:   resolver,
		files:      files,
		generation: generation,
		mux:        http.NewServeMux(),
		opts:       opts,
	}

	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET "+opts.APIBasePath, h.handleInfo)

	// File management
	h.mux.HandleFunc("POST "+opts.FilesBasePath+"/upload", h.requireAuth(h.handleUploadFile))
	h.mux.HandleFunc("GET "+opts.FilesBasePath+"/{id}", h.optionalAuth(h.handleGetFile))
	h.mux.HandleFunc("GET "+opts.FilesBasePath, h.requireAuth(h.handleListFiles))
	h.mux.HandleFunc("DELETE "+opts.FilesBasePath+"/{id}", h.requireAuth(h.handleDeleteFile))

	// Public vanity download
	h.mux.HandleFunc("GET "+opts.DownloadBasePath+"/{id}", h.optionalAuth(h.handleDownloadFile))

	// Generation
	h.mux.HandleFunc("POST "+opts.GPTBasePath+"/generate", h.requireAuth(h.handleGenerate))

	// Agent file actions
	h.mux.HandleFunc("POST "+opts.GPTBasePath+"/actions/files/list", h.requireAuth(h.handleActionList))
	h.mux.HandleFunc("POST "+opts.GPTBasePath+"/actions/files/get", h.requireAuth(h.handleActionGet))
	h.mux.HandleFunc("POST "+opts.GPTBasePath+"/actions/files/delete", h.requireAuth(h.handleActionDelete))
	h.mux.HandleFunc("POST "+opts.GPTBasePath+"/actions/files/info", h.requireAuth(h.handleActionInfo))
	h.mux.HandleFunc("POST "+opts.GPTBasePath+"/actions/query", h.requireAuth(h.handleActionQuery))

	// Everything else gets the envelope-shaped 404
	h.mux.HandleFunc("/", h.handleNotFound)

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.logger.Info("Request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	h.mux.ServeHTTP(w, r)
}

// handleHealth handles liveness checks.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, schema.Envelope{
		Status:    "ok",
		Message:   "Service is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleInfo serves the service descriptor at the API base path.
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, schema.Envelope{
		Status: "ok",
		Data: map[string]any{
			"name":        serviceName,
			"version":     serviceVersion,
			"description": "Backend service for file management with GPT integration",
			"endpoints": map[string]string{
				"files": h.opts.FilesBasePath,
				"gpt":   h.opts.GPTBasePath,
			},
		},
	})
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusNotFound, schema.Envelope{
		Status:    "error",
		Message:   "Endpoint not found",
		ErrorCode: apperror.CodeNotFound,
		Path:      r.URL.Path,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

// writeData writes the 200 success envelope.
func (h *Handler) writeData(w http.ResponseWriter, message string, data any) {
	h.writeJSON(w, http.StatusOK, schema.Envelope{
		Status:  "ok",
		Message: message,
		Data:    data,
	})
}

// writeCollection writes a success envelope with a result count.
func (h *Handler) writeCollection(w http.ResponseWriter, data []schema.FileSummary, count int) {
	h.writeJSON(w, http.StatusOK, schema.Envelope{
		Status: "ok",
		Data:   data,
		Count:  &count,
	})
}

// writeAppError maps any error onto the envelope. The wrapped cause is
// logged server-side and never serialized.
func (h *Handler) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)

	attrs := []any{
		"errorCode", appErr.Code,
		"statusCode", appErr.Status,
		"path", r.URL.Path,
		"method", r.Method,
	}
	if cause := appErr.Cause(); cause != nil {
		attrs = append(attrs, "cause", cause.Error())
	}
	h.logger.Error(appErr.Message, attrs...)

	h.writeJSON(w, appErr.Status, schema.Envelope{
		Status:    "error",
		Message:   appErr.Message,
		ErrorCode: appErr.Code,
		Timestamp: appErr.Timestamp.Format(time.RFC3339),
		Details:   appErr.Details,
	})
}

// writeValidationFailed writes the 400 envelope enumerating every violation.
func (h *Handler) writeValidationFailed(w http.ResponseWriter, violations []validate.Violation) {
	fieldErrors := make([]schema.FieldError, 0, len(violations))
	for _, v := range violations {
		fieldErrors = append(fieldErrors, schema.FieldError{Field: v.Field, Message: v.Message})
	}
	h.writeJSON(w, http.StatusBadRequest, schema.Envelope{
		Status:    "error",
		Message:   "Validation failed",
		ErrorCode: apperror.CodeValidation,
		Errors:    fieldErrors,
	})
}

// decodeBody parses a JSON object body. An empty body is treated as an
// empty object so that bodyless action calls validate cleanly.
func (h *Handler) decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, apperror.Validation("Invalid JSON body", nil)
	}
	return body, nil
}
