package config

import "time"

// DefaultCookiePassword is the shipped default for the session cookie
// password. Running with it produces a startup warning.
const DefaultCookiePassword = "dashgate_cookie_default_password"

// MinCookiePasswordLen is the recommended minimum cookie password length.
// Shorter passwords are accepted with a startup warning to preserve
// operability during migration.
const MinCookiePasswordLen = 32

// CookieConfig configures the identity session cookie. The cookie payload is
// encrypted and signed; its contents are trusted by the authorization gate.
type CookieConfig struct {
	Name     string `env:"NAME"     envDefault:"dashgate_authentication"`
	Password string `env:"PASSWORD" envDefault:"dashgate_cookie_default_password"`

	// TTL zero means the cookie lives until the browser terminates.
	TTL time.Duration `env:"TTL" envDefault:"1h"`

	Secure bool `env:"SECURE" envDefault:"false"`
}

// PreferencesConfig configures the UI preference cookie. It is an independent
// store with a lower trust level: long fixed TTL, not secure, not http-only.
// Identity decisions never read it.
type PreferencesConfig struct {
	Name string `env:"NAME" envDefault:"dashgate_preferences"`
}

// SessionConfig configures server-observed session lifetime behavior.
type SessionConfig struct {
	// TTL is the session validity window recorded in the session payload.
	TTL time.Duration `env:"TTL" envDefault:"1h"`

	// Keepalive slides the expiry forward on each authenticated request.
	Keepalive bool `env:"KEEPALIVE" envDefault:"true"`
}

// Sanitize applies guardrails to session configuration.
func (c *SessionConfig) Sanitize() {
	if c.TTL < 0 {
		c.TTL = 0
	}
}
