// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"

	"github.com/bytrix/bytrix-gw/pkg/core/schema"
	"github.com/bytrix/bytrix-gw/pkg/core/validate"
)

// generateSchema bounds every generation parameter. The prompt cap keeps a
// single request inside one completion context window.
var generateSchema = validate.Schema{
	"prompt": {
		Type:     validate.String,
		Required: true,
		MinLen:   1,
		MaxLen:   4000,
	},
	"temperature": {
		Type: validate.Number,
		Min:  validate.Num(0),
		Max:  validate.Num(2),
	},
	"max_tokens": {
		Type: validate.Number,
		Min:  validate.Num(1),
		Max:  validate.Num(4096),
	},
	"model": {
		Type: validate.String,
	},
	"top_p": {
		Type: validate.Number,
		Min:  validate.Num(0),
		Max:  validate.Num(1),
	},
	"frequency_penalty": {
		Type: validate.Number,
		Min:  validate.Num(-2),
		Max:  validate.Num(2),
	},
	"presence_penalty": {
		Type: validate.Number,
		Min:  validate.Num(-2),
		Max:  validate.Num(2),
	},
	"include_actions": {
		Type: validate.Bool,
	},
}

// handleGenerate handles POST {gpt}/generate.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	body, err := h.decodeBody(r)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	normalized, violations := generateSchema.Apply(body)
	if len(violations) > 0 {
		h.writeValidationFailed(w, violations)
		return
	}

	req := &schema.GenerateRequest{
		Prompt:           stringField(normalized, "prompt"),
		Model:            stringField(normalized, "model"),
		Temperature:      floatField(normalized, "temperature"),
		MaxTokens:        intField(normalized, "max_tokens"),
		TopP:             floatField(normalized, "top_p"),
		FrequencyPenalty: floatField(normalized, "frequency_penalty"),
		PresencePenalty:  floatField(normalized, "presence_penalty"),
		IncludeActions:   boolField(normalized, "include_actions"),
	}

	result, err := h.generation.Generate(r.Context(), req)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, schema.Envelope{
		Status: "ok",
		Data:   result,
	})
}

// Typed accessors for validator-normalized maps. Absent fields yield zero
// values or nil pointers.

func stringField(m map[string]any, name string) string {
	s, _ := m[name].(string)
	return s
}

func boolField(m map[string]any, name string) bool {
	b, _ := m[name].(bool)
	return b
}

func floatField(m map[string]any, name string) *float64 {
	f, ok := m[name].(float64)
	if !ok {
		return nil
	}
	return &f
}

func intField(m map[string]any, name string) *int {
	f, ok := m[name].(float64)
	if !ok {
		return nil
	}
	i := int(f)
	return &i
}
