// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"strings"

	"github.com/bytrix/bytrix-gw/pkg/core/apperror"
	"github.com/bytrix/bytrix-gw/pkg/observability/logging"
)

const bearerPrefix = "Bearer "

// Verifier attempts to authenticate a bearer token under one credential
// scheme. A nil Principal with a nil error means the scheme does not apply
// to this token; an error means the scheme matched but verification failed.
// Either way the resolver moves on to the next verifier.
type Verifier interface {
	Name() string
	Attempt(ctx context.Context, token string) (*Principal, error)
}

// Resolver runs an ordered list of verifiers and returns the first
// Principal produced. It holds no per-request state and is safe for
// concurrent use.
type Resolver struct {
	verifiers []Verifier
	logger    *logging.Logger
}

// NewResolver creates a Resolver with the given verifier chain. Order is
// significant: the first verifier to produce a Principal wins and later
// verifiers are never attempted.
func NewResolver(logger *logging.Logger, verifiers ...Verifier) *Resolver {
	return &Resolver{verifiers: verifiers, logger: logger}
}

// Resolve authenticates the raw Authorization header value. Scheme-level
// failure reasons are logged but deliberately not surfaced: callers only
// learn that the token was invalid, not which scheme rejected it or why.
func (r *Resolver) Resolve(ctx context.Context, authHeader string) (*Principal, error) {
	token, ok := bearerToken(authHeader)
	if !ok {
		return nil, apperror.Authentication("Missing or invalid authorization header")
	}

	for _, v := range r.verifiers {
		principal, err := v.Attempt(ctx, token)
		if err != nil {
			r.logger.Debug("Credential scheme rejected token", "scheme", v.Name(), "error", err)
			continue
		}
		if principal != nil {
			r.logger.Debug("User authenticated", "scheme", v.Name(), "user_id", principal.ID)
			return principal, nil
		}
	}

	r.logger.Warn("Authentication failed: no credential scheme accepted the token")
	return nil, apperror.Authentication("Invalid authentication token")
}

// ResolveOptional is Resolve with failures swallowed: a missing or invalid
// credential yields (nil, nil) and the route proceeds unauthenticated.
func (r *Resolver) ResolveOptional(ctx context.Context, authHeader string) *Principal {
	if _, ok := bearerToken(authHeader); !ok {
		return nil
	}
	principal, err := r.Resolve(ctx, authHeader)
	if err != nil {
		r.logger.Debug("Optional authentication skipped", "error", err)
		return nil
	}
	return principal
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}
