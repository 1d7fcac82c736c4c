// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// IdentityUser is the user object returned by the external identity
// service.
type IdentityUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// IdentityClient verifies an externally issued access token and returns
// the user it belongs to.
type IdentityClient interface {
	VerifyToken(ctx context.Context, token string) (*IdentityUser, error)
}

// HTTPIdentityClient verifies tokens against a GoTrue-style identity
// endpoint (GET {base}/auth/v1/user with the token as bearer).
type HTTPIdentityClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPIdentityClient creates an identity client for the given base URL.
func NewHTTPIdentityClient(baseURL, apiKey string, timeout time.Duration) *HTTPIdentityClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPIdentityClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// VerifyToken implements IdentityClient.
func (c *HTTPIdentityClient) VerifyToken(ctx context.Context, token string) (*IdentityUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("identity service returned %d: %s", resp.StatusCode, body)
	}

	var user IdentityUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	if user.ID == "" {
		return nil, errors.New("identity response missing user id")
	}
	return &user, nil
}

// IdentityVerifier authenticates tokens by delegating to the external
// identity collaborator.
type IdentityVerifier struct {
	client IdentityClient
}

// NewIdentityVerifier creates the verifier.
func NewIdentityVerifier(client IdentityClient) *IdentityVerifier {
	return &IdentityVerifier{client: client}
}

// Name implements Verifier.
func (v *IdentityVerifier) Name() string { return "identity" }

// Attempt implements Verifier.
func (v *IdentityVerifier) Attempt(ctx context.Context, token string) (*Principal, error) {
	if v.client == nil {
		return nil, errors.New("identity service not configured")
	}
	user, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &Principal{ID: user.ID, Role: RoleAuthenticated}, nil
}
