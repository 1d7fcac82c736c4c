// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestServiceKeyVerifier(t *testing.T) {
	v := NewServiceKeyVerifier("super-secret")

	p, err := v.Attempt(context.Background(), "super-secret")
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if p.ID != ServicePrincipalID || p.Role != RoleService {
		t.Errorf("principal = %+v, want service-role/service", p)
	}
	if !p.IsService() {
		t.Error("IsService() = false, want true")
	}

	if _, err := v.Attempt(context.Background(), "super-secret2"); err == nil {
		t.Error("expected mismatch error")
	}
	if _, err := v.Attempt(context.Background(), ""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestServiceKeyVerifierDisabled(t *testing.T) {
	v := NewServiceKeyVerifier("")
	if _, err := v.Attempt(context.Background(), ""); err == nil {
		t.Error("empty secret must never match")
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLocalTokenVerifierClaimPriority(t *testing.T) {
	v := NewLocalTokenVerifier("signing-secret")
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	cases := []struct {
		name   string
		claims jwt.MapClaims
		wantID string
	}{
		{"explicit id wins", jwt.MapClaims{"id": "a", "user_id": "b", "sub": "c", "exp": exp}, "a"},
		{"user_id next", jwt.MapClaims{"user_id": "b", "sub": "c", "exp": exp}, "b"},
		{"sub last", jwt.MapClaims{"sub": "c", "exp": exp}, "c"},
		{"dev-user fallback", jwt.MapClaims{"exp": exp}, DevUserID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := v.Attempt(context.Background(), signToken(t, "signing-secret", tc.claims))
			if err != nil {
				t.Fatalf("Attempt: %v", err)
			}
			if p.ID != tc.wantID {
				t.Errorf("id = %q, want %q", p.ID, tc.wantID)
			}
			if p.Role != RoleAuthenticated {
				t.Errorf("role = %q, want %q", p.Role, RoleAuthenticated)
			}
		})
	}
}

func TestLocalTokenVerifierRoleClaim(t *testing.T) {
	v := NewLocalTokenVerifier("signing-secret")
	token := signToken(t, "signing-secret", jwt.MapClaims{"sub": "u9", "role": "admin"})
	p, err := v.Attempt(context.Background(), token)
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if p.Role != "admin" {
		t.Errorf("role = %q, want admin", p.Role)
	}
}

func TestLocalTokenVerifierRejects(t *testing.T) {
	v := NewLocalTokenVerifier("signing-secret")

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"sub": "u1"})
		if _, err := v.Attempt(context.Background(), token); err == nil {
			t.Error("expected signature error")
		}
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, "signing-secret", jwt.MapClaims{
			"sub": "u1",
			"exp": jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		})
		if _, err := v.Attempt(context.Background(), token); err == nil {
			t.Error("expected expiry error")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := v.Attempt(context.Background(), "not.a.jwt"); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		disabled := NewLocalTokenVerifier("")
		token := signToken(t, "signing-secret", jwt.MapClaims{"sub": "u1"})
		if _, err := disabled.Attempt(context.Background(), token); err == nil {
			t.Error("expected error when secret unconfigured")
		}
	})
}

func TestHTTPIdentityClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("path = %q, want /auth/v1/user", r.URL.Path)
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("apikey header = %q", r.Header.Get("apikey"))
		}
		switch r.Header.Get("Authorization") {
		case "Bearer valid-token":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(IdentityUser{ID: "user-123", Email: "a@b.c"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	client := NewHTTPIdentityClient(server.URL, "anon-key", time.Second)
	verifier := NewIdentityVerifier(client)

	p, err := verifier.Attempt(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if p.ID != "user-123" || p.Role != RoleAuthenticated {
		t.Errorf("principal = %+v", p)
	}

	if _, err := verifier.Attempt(context.Background(), "bad-token"); err == nil {
		t.Error("expected error for rejected token")
	}
}

func TestIdentityVerifierUnconfigured(t *testing.T) {
	v := NewIdentityVerifier(nil)
	if _, err := v.Attempt(context.Background(), "tok"); err == nil {
		t.Error("expected error when identity client is nil")
	}
}
