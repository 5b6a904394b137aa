package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthType selects the authentication strategy. Exactly one strategy is
// instantiated per process.
type AuthType string

const (
	// AuthTypeUnset defers strategy selection to the legacy boolean flags.
	AuthTypeUnset AuthType = ""
	// AuthTypeBasicAuth authenticates with username/password against the backend.
	AuthTypeBasicAuth AuthType = "basicauth"
	// AuthTypeJWT authenticates with a bearer token supplied by the caller.
	AuthTypeJWT AuthType = "jwt"
	// AuthTypeOpenID authenticates through an OpenID Connect provider.
	AuthTypeOpenID AuthType = "openid"
	// AuthTypeSAML authenticates through a backend-brokered SAML handshake.
	AuthTypeSAML AuthType = "saml"
	// AuthTypeProxyCache trusts identity headers set by a fronting proxy.
	AuthTypeProxyCache AuthType = "proxycache"
	// AuthTypeNone installs no interactive authentication layer, only
	// pass-through session handling.
	AuthTypeNone AuthType = "none"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthType.
// An unknown value is a startup failure naming the invalid value.
func (a *AuthType) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch AuthType(v) {
	case AuthTypeUnset, AuthTypeBasicAuth, AuthTypeJWT, AuthTypeOpenID,
		AuthTypeSAML, AuthTypeProxyCache, AuthTypeNone:
		*a = AuthType(v)
		return nil
	default:
		return fmt.Errorf("invalid auth type: %q (valid options: basicauth, jwt, openid, saml, proxycache, none)", v)
	}
}

// AuthConfig selects the authentication type and routes exempt from it.
type AuthConfig struct {
	// Type selects the strategy directly. When empty, the deprecated
	// BASICAUTH_ENABLED and JWT_ENABLED flags are consulted in that order.
	Type AuthType `env:"TYPE" envDefault:""`

	// AnonymousAuthEnabled marks sessions established without credentials.
	AnonymousAuthEnabled bool `env:"ANONYMOUS_AUTH_ENABLED" envDefault:"false"`

	// UnauthenticatedRoutes are request paths the strategy's authentication
	// phase skips entirely.
	UnauthenticatedRoutes []string `env:"UNAUTHENTICATED_ROUTES" envSeparator:";" envDefault:"/api/status"`
}

// BasicAuthConfig configures the basicauth strategy.
type BasicAuthConfig struct {
	// Enabled is deprecated; set AUTH_TYPE=basicauth instead. Retained for
	// backward compatibility and consulted only when AUTH_TYPE is empty.
	Enabled bool `env:"ENABLED" envDefault:"true"`

	// ForbiddenUsernames are rejected at login before the backend is consulted.
	ForbiddenUsernames []string `env:"FORBIDDEN_USERNAMES" envSeparator:";"`

	// HeaderTrumpsSession lets a request-supplied Authorization header win
	// over an existing session.
	HeaderTrumpsSession bool `env:"HEADER_TRUMPS_SESSION" envDefault:"false"`

	// LoginRate and LoginBurst throttle login attempts per client IP.
	LoginRate  float64 `env:"LOGIN_RATE"  envDefault:"4"`
	LoginBurst int     `env:"LOGIN_BURST" envDefault:"8"`
}

// JWTConfig configures the jwt strategy.
type JWTConfig struct {
	// Enabled is deprecated; set AUTH_TYPE=jwt instead.
	Enabled bool `env:"ENABLED" envDefault:"false"`

	// URLParam is the query parameter a token may arrive in.
	URLParam string `env:"URL_PARAM" envDefault:"authorization"`

	// Header is the request header a token may arrive in, and the outbound
	// header the backend expects it on.
	Header string `env:"HEADER" envDefault:"Authorization"`

	// LoginEndpoint is an external URL unauthenticated browsers are sent to.
	LoginEndpoint string `env:"LOGIN_ENDPOINT"`
}

// OpenIDConfig configures the openid strategy.
// ConnectURL and ClientID are required when the strategy is selected.
type OpenIDConfig struct {
	ConnectURL      string `env:"CONNECT_URL"`
	ClientID        string `env:"CLIENT_ID"`
	ClientSecret    string `env:"CLIENT_SECRET"`
	Scope           string `env:"SCOPE" envDefault:"openid profile email"`
	Header          string `env:"HEADER" envDefault:"Authorization"`
	BaseRedirectURL string `env:"BASE_REDIRECT_URL"`
	LogoutURL       string `env:"LOGOUT_URL"`
}

// SAMLConfig configures the saml strategy. The handshake itself is brokered
// by the authorization backend, so only the outbound header is configurable.
type SAMLConfig struct {
	Header string `env:"HEADER" envDefault:"Authorization"`
}

// ProxyCacheConfig configures the proxycache strategy.
// UserHeader and RolesHeader are required when the strategy is selected.
type ProxyCacheConfig struct {
	UserHeader  string `env:"USER_HEADER"`
	RolesHeader string `env:"ROLES_HEADER"`

	// LoginEndpoint is an external URL unauthenticated browsers are sent to.
	LoginEndpoint string `env:"LOGIN_ENDPOINT"`

	// CacheTTL bounds how long a resolved identity stays in the cache.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}
