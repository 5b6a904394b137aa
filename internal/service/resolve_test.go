package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seclens/dashgate/config"
)

func TestResolveStrategy(t *testing.T) {
	tests := []struct {
		name           string
		cfg            config.AppConfig
		wantType       config.AuthType
		wantNormalized bool
	}{
		{
			name: "explicit type wins",
			cfg: config.AppConfig{
				Auth:      config.AuthConfig{Type: config.AuthTypeOpenID},
				BasicAuth: config.BasicAuthConfig{Enabled: true},
				JWT:       config.JWTConfig{Enabled: true},
			},
			wantType: config.AuthTypeOpenID,
		},
		{
			name: "explicit none ignores legacy flags",
			cfg: config.AppConfig{
				Auth:      config.AuthConfig{Type: config.AuthTypeNone},
				BasicAuth: config.BasicAuthConfig{Enabled: true},
			},
			wantType: config.AuthTypeNone,
		},
		{
			name: "legacy basicauth flag",
			cfg: config.AppConfig{
				BasicAuth: config.BasicAuthConfig{Enabled: true},
			},
			wantType:       config.AuthTypeBasicAuth,
			wantNormalized: true,
		},
		{
			name: "legacy basicauth flag beats legacy jwt flag",
			cfg: config.AppConfig{
				BasicAuth: config.BasicAuthConfig{Enabled: true},
				JWT:       config.JWTConfig{Enabled: true},
			},
			wantType:       config.AuthTypeBasicAuth,
			wantNormalized: true,
		},
		{
			name: "legacy jwt flag",
			cfg: config.AppConfig{
				JWT: config.JWTConfig{Enabled: true},
			},
			wantType:       config.AuthTypeJWT,
			wantNormalized: true,
		},
		{
			name:     "nothing set resolves to none",
			cfg:      config.AppConfig{},
			wantType: config.AuthTypeNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := ResolveStrategy(&tt.cfg)
			require.Equal(t, tt.wantType, resolved.Type)
			require.Equal(t, tt.wantNormalized, resolved.NormalizedFromLegacy)
		})
	}
}

func TestResolveStrategyCopiesRoutes(t *testing.T) {
	cfg := config.AppConfig{
		Auth: config.AuthConfig{
			Type:                  config.AuthTypeBasicAuth,
			AnonymousAuthEnabled:  true,
			UnauthenticatedRoutes: []string{"/api/status", "/healthz"},
		},
	}

	resolved := ResolveStrategy(&cfg)
	require.True(t, resolved.AnonymousAuthEnabled)
	require.Equal(t, []string{"/api/status", "/healthz"}, resolved.UnauthenticatedRoutes)

	// Mutating the source must not leak into the snapshot.
	cfg.Auth.UnauthenticatedRoutes[0] = "/changed"
	require.Equal(t, "/api/status", resolved.UnauthenticatedRoutes[0])
}
