// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
	"net/http"

	"github.com/bytrix/bytrix-gw/pkg/core/auth"
)

type contextKey string

const principalKey contextKey = "principal"

// requireAuth resolves the caller's credential before the wrapped handler
// runs. An unresolvable credential short-circuits with the 401 envelope.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := h.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}
		next(w, r.WithContext(withPrincipal(r.Context(), principal)))
	}
}

// optionalAuth resolves the credential when one is presented but never
// rejects the request. Public read routes use it so logs can attribute
// access without requiring a token.
func (h *Handler) optionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if principal := h.resolver.ResolveOptional(r.Context(), r.Header.Get("Authorization")); principal != nil {
			r = r.WithContext(withPrincipal(r.Context(), principal))
		}
		next(w, r)
	}
}

func withPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// principalFrom returns the principal stored by requireAuth. Handlers
// registered behind requireAuth can rely on it being present.
func principalFrom(ctx context.Context) *auth.Principal {
	p, _ := ctx.Value(principalKey).(*auth.Principal)
	return p
}
