// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"
	"time"

	"github.com/bytrix/bytrix-gw/pkg/core/validate"
	"github.com/bytrix/bytrix-gw/pkg/metadata"
)

var fileIDSchema = validate.Schema{
	"file_id": {
		Type:     validate.String,
		Required: true,
		Format:   validate.FormatUUID,
	},
}

var querySchema = validate.Schema{
	"filename": {Type: validate.String},
	"mimetype": {Type: validate.String},
	"size_min": {Type: validate.Number, Min: validate.Num(0)},
	"size_max": {Type: validate.Number, Min: validate.Num(0)},
	"after_date": {
		Type:   validate.String,
		Format: validate.FormatDate,
	},
}

// validatedBody decodes the JSON body and applies the schema, writing the
// error response itself on failure.
func (h *Handler) validatedBody(w http.ResponseWriter, r *http.Request, s validate.Schema) (map[string]any, bool) {
	body, err := h.decodeBody(r)
	if err != nil {
		h.writeAppError(w, r, err)
		return nil, false
	}
	normalized, violations := s.Apply(body)
	if len(violations) > 0 {
		h.writeValidationFailed(w, violations)
		return nil, false
	}
	return normalized, true
}

// handleActionList handles POST {gpt}/actions/files/list.
func (h *Handler) handleActionList(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	results, err := h.files.List(r.Context(), principal.ID)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	h.writeCollection(w, results, len(results))
}

// handleActionGet handles POST {gpt}/actions/files/get.
func (h *Handler) handleActionGet(w http.ResponseWriter, r *http.Request) {
	body, ok := h.validatedBody(w, r, fileIDSchema)
	if !ok {
		return
	}

	result, err := h.files.ActionGet(r.Context(), principalFrom(r.Context()), stringField(body, "file_id"))
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	h.writeData(w, "", result)
}

// handleActionDelete handles POST {gpt}/actions/files/delete.
func (h *Handler) handleActionDelete(w http.ResponseWriter, r *http.Request) {
	body, ok := h.validatedBody(w, r, fileIDSchema)
	if !ok {
		return
	}

	fileID := stringField(body, "file_id")
	if err := h.files.ActionDelete(r.Context(), principalFrom(r.Context()), fileID); err != nil {
		h.writeAppError(w, r, err)
		return
	}
	h.writeData(w, "File deleted successfully", map[string]string{"id": fileID})
}

// handleActionInfo handles POST {gpt}/actions/files/info.
func (h *Handler) handleActionInfo(w http.ResponseWriter, r *http.Request) {
	body, ok := h.validatedBody(w, r, fileIDSchema)
	if !ok {
		return
	}

	result, err := h.files.ActionInfo(r.Context(), principalFrom(r.Context()), stringField(body, "file_id"))
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	h.writeData(w, "", result)
}

// handleActionQuery handles POST {gpt}/actions/query.
func (h *Handler) handleActionQuery(w http.ResponseWriter, r *http.Request) {
	body, ok := h.validatedBody(w, r, querySchema)
	if !ok {
		return
	}

	filter := metadata.Filter{
		Filename: stringField(body, "filename"),
		MimeType: stringField(body, "mimetype"),
	}
	if min := floatField(body, "size_min"); min != nil {
		v := int64(*min)
		filter.SizeMin = &v
	}
	if max := floatField(body, "size_max"); max != nil {
		v := int64(*max)
		filter.SizeMax = &v
	}
	if after := stringField(body, "after_date"); after != "" {
		// Format already validated; midnight UTC of the given day.
		t, err := time.Parse("2006-01-02", after)
		if err == nil {
			filter.AfterDate = &t
		}
	}

	principal := principalFrom(r.Context())
	results, err := h.files.Query(r.Context(), principal.ID, filter)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	h.writeCollection(w, results, len(results))
}
