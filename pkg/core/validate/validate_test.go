// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"testing"
)

func promptSchema() Schema {
	return Schema{
		"prompt":      {Type: String, Required: true, MinLen: 1, MaxLen: 4000},
		"temperature": {Type: Number, Min: Num(0), Max: Num(2)},
		"max_tokens":  {Type: Number, Min: Num(1), Max: Num(4096)},
		"model":       {Type: String, Default: "gpt-3.5-turbo"},
	}
}

func TestApplyCollectsAllViolations(t *testing.T) {
	// Three independent violations must yield exactly three entries.
	input := map[string]any{
		"prompt":      "",
		"temperature": 3.5,
		"max_tokens":  0.0,
	}
	_, violations := promptSchema().Apply(input)
	if len(violations) != 3 {
		t.Fatalf("got %d violations, want 3: %v", len(violations), violations)
	}

	fields := map[string]bool{}
	for _, v := range violations {
		fields[v.Field] = true
	}
	for _, want := range []string{"prompt", "temperature", "max_tokens"} {
		if !fields[want] {
			t.Errorf("missing violation for field %q", want)
		}
	}
}

func TestApplyStripsUnknownAndAppliesDefaults(t *testing.T) {
	input := map[string]any{
		"prompt":  "hi",
		"unknown": "field",
		"extra":   42.0,
	}
	out, violations := promptSchema().Apply(input)
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if _, ok := out["unknown"]; ok {
		t.Error("unknown field not stripped")
	}
	if out["model"] != "gpt-3.5-turbo" {
		t.Errorf("model default = %v, want gpt-3.5-turbo", out["model"])
	}
}

func TestApplyRequired(t *testing.T) {
	_, violations := promptSchema().Apply(map[string]any{})
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1", len(violations))
	}
	if violations[0].Field != "prompt" {
		t.Errorf("field = %q, want prompt", violations[0].Field)
	}
}

func TestApplyTypeMismatch(t *testing.T) {
	_, violations := promptSchema().Apply(map[string]any{
		"prompt":      42.0,
		"temperature": "hot",
	})
	if len(violations) != 2 {
		t.Fatalf("got %d violations, want 2: %v", len(violations), violations)
	}
}

func TestStringBounds(t *testing.T) {
	long := make([]byte, 4001)
	for i := range long {
		long[i] = 'a'
	}
	_, violations := promptSchema().Apply(map[string]any{"prompt": string(long)})
	if len(violations) != 1 || violations[0].Field != "prompt" {
		t.Fatalf("violations = %v, want single prompt length violation", violations)
	}
}

func TestFormats(t *testing.T) {
	schema := Schema{
		"file_id":    {Type: String, Required: true, Format: FormatUUID},
		"after_date": {Type: String, Format: FormatDate},
	}

	t.Run("valid", func(t *testing.T) {
		_, violations := schema.Apply(map[string]any{
			"file_id":    "8b7f7f9e-4f9f-4a56-9c30-1de9f0a4a3a1",
			"after_date": "2024-01-31",
		})
		if len(violations) != 0 {
			t.Errorf("unexpected violations: %v", violations)
		}
	})

	t.Run("invalid uuid", func(t *testing.T) {
		_, violations := schema.Apply(map[string]any{"file_id": "not-a-uuid"})
		if len(violations) != 1 || violations[0].Field != "file_id" {
			t.Errorf("violations = %v, want file_id uuid violation", violations)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		_, violations := schema.Apply(map[string]any{
			"file_id":    "8b7f7f9e-4f9f-4a56-9c30-1de9f0a4a3a1",
			"after_date": "31/01/2024",
		})
		if len(violations) != 1 || violations[0].Field != "after_date" {
			t.Errorf("violations = %v, want after_date violation", violations)
		}
	})
}

func TestNegativePenaltyBounds(t *testing.T) {
	schema := Schema{
		"frequency_penalty": {Type: Number, Min: Num(-2), Max: Num(2)},
	}
	if _, v := schema.Apply(map[string]any{"frequency_penalty": -2.0}); len(v) != 0 {
		t.Errorf("-2 should be allowed, got %v", v)
	}
	if _, v := schema.Apply(map[string]any{"frequency_penalty": -2.5}); len(v) != 1 {
		t.Errorf("-2.5 should be rejected, got %v", v)
	}
}
