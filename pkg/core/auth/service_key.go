// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
)

// ServiceKeyVerifier matches the token against the configured shared
// service secret. A match grants the trusted service principal.
type ServiceKeyVerifier struct {
	secret []byte
}

// NewServiceKeyVerifier creates the verifier. An empty secret disables the
// scheme entirely.
func NewServiceKeyVerifier(secret string) *ServiceKeyVerifier {
	return &ServiceKeyVerifier{secret: []byte(secret)}
}

// Name implements Verifier.
func (v *ServiceKeyVerifier) Name() string { return "service_key" }

// Attempt implements Verifier. The comparison is constant-time so that the
// shared secret cannot be probed byte-by-byte through response timing.
func (v *ServiceKeyVerifier) Attempt(_ context.Context, token string) (*Principal, error) {
	if len(v.secret) == 0 {
		return nil, errors.New("service key not configured")
	}
	if subtle.ConstantTimeCompare([]byte(token), v.secret) != 1 {
		return nil, errors.New("token does not match service key")
	}
	return &Principal{ID: ServicePrincipalID, Role: RoleService}, nil
}
