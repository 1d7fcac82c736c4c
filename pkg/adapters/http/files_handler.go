// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"io"
	"net/http"

	"github.com/bytrix/bytrix-gw/pkg/core/apperror"
	"github.com/bytrix/bytrix-gw/pkg/core/schema"
)

// handleUploadFile handles POST {files}/upload. The file arrives as the
// multipart field "file" and is buffered fully in memory; the configured
// size cap bounds that buffer.
func (h *Handler) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxFileSize+1024*1024)
	if err := r.ParseMultipartForm(h.opts.MaxFileSize); err != nil {
		h.writeAppError(w, r, apperror.Validation("Failed to parse multipart form", map[string]string{
			"file": "Request must be multipart/form-data with a \"file\" field",
		}))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeAppError(w, r, apperror.Validation("File is required", map[string]string{
			"file": "No file provided",
		}))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.writeAppError(w, r, apperror.Internal(err))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	result, err := h.files.Upload(r.Context(), principal.ID, header.Filename, mimeType, content)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	h.writeData(w, "File uploaded successfully", result)
}

// handleGetFile handles GET {files}/{id}. No auth: possession of the file ID
// grants read access, matching the public retrieval contract.
func (h *Handler) handleGetFile(w http.ResponseWriter, r *http.Request) {
	result, err := h.files.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	h.writeData(w, "File retrieved successfully", result)
}

// handleDownloadFile handles GET {download}/{id}: the vanity URL that
// redirects to a freshly signed object URL.
func (h *Handler) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	result, err := h.files.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	http.Redirect(w, r, result.SignedURL, http.StatusFound)
}

// handleListFiles handles GET {files}. Reserved surface; listing is served
// through the actions API.
func (h *Handler) handleListFiles(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, "This endpoint is available for future implementation", []schema.FileSummary{})
}

// handleDeleteFile handles DELETE {files}/{id}. Reserved surface; deletion
// is served through the actions API.
func (h *Handler) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, "This endpoint is available for future implementation", map[string]string{
		"id": r.PathValue("id"),
	})
}
