package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication type and per-strategy parameters
//   - cookie.go: Session and preference cookie configuration
//   - backend.go: Authorization backend client configuration
//   - gate.go: Post-authorization gate policy
//   - restricted.go: Restricted path rules
//   - multitenancy.go: Multitenancy collaborator flags
//   - http.go: HTTP server configuration
type AppConfig struct {
	// IsDev controls development mode behavior (relaxed cookie security warnings, etc.)
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication type selection
	Auth AuthConfig `envPrefix:"AUTH_"`

	// Per-strategy configuration, mirroring the top-level layout of the
	// legacy configuration tree
	BasicAuth  BasicAuthConfig  `envPrefix:"BASICAUTH_"`
	JWT        JWTConfig        `envPrefix:"JWT_"`
	OpenID     OpenIDConfig     `envPrefix:"OPENID_"`
	SAML       SAMLConfig       `envPrefix:"SAML_"`
	ProxyCache ProxyCacheConfig `envPrefix:"PROXYCACHE_"`

	// Cookie and session configuration
	Cookie      CookieConfig      `envPrefix:"COOKIE_"`
	Preferences PreferencesConfig `envPrefix:"PREFERENCES_"`
	Session     SessionConfig     `envPrefix:"SESSION_"`

	// Authorization backend client configuration
	Backend BackendConfig `envPrefix:"BACKEND_"`

	// Post-authorization gate configuration
	Gate       GateConfig       `envPrefix:"GATE_"`
	Restricted RestrictedConfig `envPrefix:"RESTRICTED_"`

	// Multitenancy collaborator configuration
	Multitenancy MultitenancyConfig `envPrefix:"MULTITENANCY_"`

	// Redis, used by the proxycache strategy's identity cache
	Redis RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig `envPrefix:"HTTP_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Backend.Sanitize()
	c.Gate.Sanitize()
	c.Session.Sanitize()
}

// RedisConfig configures the Redis client backing the proxycache identity cache.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"       envDefault:"0"`
}
