// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth resolves request credentials into a Principal. Three
// credential schemes are tried in priority order: the shared service key,
// an externally issued identity token, and a locally signed session token.
package auth

// Roles a Principal can carry.
const (
	RoleService       = "service"
	RoleAuthenticated = "authenticated"
)

// ServicePrincipalID is the fixed identifier of the service principal.
const ServicePrincipalID = "service-role"

// Principal is the resolved caller identity, constructed fresh per request
// and never persisted.
type Principal struct {
	ID   string
	Role string
}

// IsService reports whether the principal is the trusted service identity,
// which owns nothing and bypasses ownership checks.
func (p *Principal) IsService() bool {
	return p != nil && p.Role == RoleService
}
