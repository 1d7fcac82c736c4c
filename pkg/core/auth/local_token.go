// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DevUserID is the fallback identifier for locally signed tokens whose
// payload carries no recognizable identity claim.
const DevUserID = "dev-user"

// LocalTokenVerifier verifies HS256 session tokens signed with the local
// secret. The identifier is taken from the first of the "id", "user_id"
// and "sub" claims that is present.
type LocalTokenVerifier struct {
	secret []byte
}

// NewLocalTokenVerifier creates the verifier. An empty secret disables the
// scheme.
func NewLocalTokenVerifier(secret string) *LocalTokenVerifier {
	return &LocalTokenVerifier{secret: []byte(secret)}
}

// Name implements Verifier.
func (v *LocalTokenVerifier) Name() string { return "local_token" }

// Attempt implements Verifier.
func (v *LocalTokenVerifier) Attempt(_ context.Context, token string) (*Principal, error) {
	if len(v.secret) == 0 {
		return nil, errors.New("local signing secret not configured")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	id := DevUserID
	for _, key := range []string{"id", "user_id", "sub"} {
		if s, ok := claims[key].(string); ok && s != "" {
			id = s
			break
		}
	}

	role := RoleAuthenticated
	if s, ok := claims["role"].(string); ok && s != "" {
		role = s
	}

	return &Principal{ID: id, Role: role}, nil
}
