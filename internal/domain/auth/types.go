package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authoritative principal as resolved by the
// authorization backend. It is derived per request and never persisted;
// the backend is the single source of truth for roles.
type Identity struct {
	Username     string   `json:"user_name"`
	BackendRoles []string `json:"backend_roles"`
	IsAnonymous  bool     `json:"is_anonymous_auth,omitempty"`
}

// HasRole reports whether the identity holds the given backend role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.BackendRoles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the identity holds at least one of the given roles.
// An empty role set never matches: no roles means no privileges.
func (i Identity) HasAnyRole(roles []string) bool {
	for _, r := range roles {
		if i.HasRole(r) {
			return true
		}
	}
	return false
}

// Session is the minimal identity snapshot we keep in the encrypted session
// cookie between requests. Exactly one strategy writes it; the authorization
// gate only reads it and may clear it wholesale, never partially.
type Session struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	IsAnonymousAuth bool      `json:"isAnonymousAuth"`
	AuthType        string    `json:"auth_type"`

	// AuthHeader is the value the owning strategy assigns to the outbound
	// authorization header on each request (e.g. "Basic ..." or "Bearer ...").
	AuthHeader string `json:"auth_header,omitempty"`

	// BackendRoles is a strategy-private snapshot used only by header-trust
	// strategies to re-inject role headers. Authorization decisions never
	// trust it; they go through the backend.
	BackendRoles []string `json:"backend_roles,omitempty"`

	// Tenant is the multitenancy selection, when enabled.
	Tenant string `json:"tenant,omitempty"`

	IssuedAt time.Time `json:"issued_at"`

	// ExpiresAt zero means the session lives until the browser discards the
	// cookie; no server-side durability is implied either way.
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// IsExpired reports whether the session has passed its absolute expiry.
// Sessions without an expiry never expire server-side.
func (s Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
