// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestTaxonomyStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    *Error
		code   string
		status int
	}{
		{"validation", Validation("bad input", nil), CodeValidation, http.StatusBadRequest},
		{"authentication", Authentication("nope"), CodeAuthentication, http.StatusUnauthorized},
		{"not found", NotFound("gone"), CodeNotFound, http.StatusNotFound},
		{"storage", Storage("put failed", errors.New("timeout")), CodeStorage, http.StatusInternalServerError},
		{"metadata", Metadata("insert failed", errors.New("conn reset")), CodeMetadata, http.StatusInternalServerError},
		{"completion", Completion("backend down", errors.New("503")), CodeCompletion, http.StatusInternalServerError},
		{"internal", Internal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("code = %q, want %q", tc.err.Code, tc.code)
			}
			if tc.err.Status != tc.status {
				t.Errorf("status = %d, want %d", tc.err.Status, tc.status)
			}
			if tc.err.Timestamp.IsZero() {
				t.Error("timestamp not set")
			}
		})
	}
}

func TestFromPassesThroughTaxonomyErrors(t *testing.T) {
	orig := NotFound("file abc not found")

	got := From(orig)
	if got != orig {
		t.Errorf("From() = %v, want the original error unchanged", got)
	}

	wrapped := fmt.Errorf("handler: %w", orig)
	got = From(wrapped)
	if got != orig {
		t.Errorf("From(wrapped) = %v, want the original error", got)
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	got := From(errors.New("disk on fire"))
	if got.Code != CodeInternal {
		t.Errorf("code = %q, want %q", got.Code, CodeInternal)
	}
	if got.Message != "Internal server error" {
		t.Errorf("message = %q, want generic message", got.Message)
	}
	if got.Cause() == nil || got.Cause().Error() != "disk on fire" {
		t.Errorf("cause = %v, want original error retained", got.Cause())
	}
}

func TestCauseNeverInMessage(t *testing.T) {
	e := Storage("Failed to upload file", errors.New("x-amz-id-2: secret internals"))
	if e.Message != "Failed to upload file" {
		t.Errorf("message = %q, must not include cause", e.Message)
	}
	if !errors.Is(e, e.Cause()) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
}
