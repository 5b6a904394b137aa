package service

// Package service holds strategy resolution: the pure function that turns the
// raw configuration tree into an immutable StrategyConfig snapshot.

import (
	"github.com/seclens/dashgate/config"
)

// StrategyConfig is the resolved, immutable strategy selection. It is
// produced exactly once at startup; downstream consumers (systeminfo
// endpoint, frontend) observe the normalized type through it rather than
// through mutated global configuration.
type StrategyConfig struct {
	// Type is the resolved strategy type, never AuthTypeUnset.
	Type config.AuthType

	// NormalizedFromLegacy is true when Type came from a deprecated boolean
	// flag rather than an explicit AUTH_TYPE. Callers log a deprecation
	// warning once at startup.
	NormalizedFromLegacy bool

	// AnonymousAuthEnabled marks sessions established without credentials.
	AnonymousAuthEnabled bool

	// UnauthenticatedRoutes are skipped by the authentication phase.
	UnauthenticatedRoutes []string
}

// ResolveStrategy resolves the strategy type from configuration.
// Priority order, first match wins:
//  1. explicit AUTH_TYPE
//  2. deprecated BASICAUTH_ENABLED
//  3. deprecated JWT_ENABLED
//  4. none (pass-through session handling only)
//
// When AUTH_TYPE is set, the legacy flags are ignored regardless of value.
func ResolveStrategy(cfg *config.AppConfig) StrategyConfig {
	resolved := StrategyConfig{
		Type:                  cfg.Auth.Type,
		AnonymousAuthEnabled:  cfg.Auth.AnonymousAuthEnabled,
		UnauthenticatedRoutes: append([]string(nil), cfg.Auth.UnauthenticatedRoutes...),
	}

	if resolved.Type != config.AuthTypeUnset {
		return resolved
	}

	switch {
	case cfg.BasicAuth.Enabled:
		resolved.Type = config.AuthTypeBasicAuth
		resolved.NormalizedFromLegacy = true
	case cfg.JWT.Enabled:
		resolved.Type = config.AuthTypeJWT
		resolved.NormalizedFromLegacy = true
	default:
		resolved.Type = config.AuthTypeNone
	}
	return resolved
}
