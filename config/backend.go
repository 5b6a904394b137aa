package config

import (
	"strings"
	"time"
)

// BackendConfig configures the authorization backend client. The authinfo
// call is the core's sole wire dependency on the backend.
type BackendConfig struct {
	// URL is the backend base URL.
	URL string `env:"URL" envDefault:"https://localhost:9200"`

	// AuthInfoPath is the backend route resolving the caller's identity.
	AuthInfoPath string `env:"AUTHINFO_PATH" envDefault:"/_dashgate/authinfo"`

	// Timeout bounds each backend call.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`

	// HeaderAllowList are the request headers forwarded to the backend.
	// When multitenancy is enabled, the tenant header must be listed here.
	HeaderAllowList []string `env:"HEADER_ALLOWLIST" envSeparator:";" envDefault:"authorization;cookie;sgtenant"`

	// InsecureSkipTLSVerify disables certificate verification for the
	// backend connection. Development only.
	InsecureSkipTLSVerify bool `env:"INSECURE_SKIP_TLS_VERIFY" envDefault:"false"`
}

// AllowsHeader reports whether the named header is forwarded to the backend.
func (c BackendConfig) AllowsHeader(name string) bool {
	for _, h := range c.HeaderAllowList {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}

// Sanitize applies guardrails to backend configuration.
func (c *BackendConfig) Sanitize() {
	const minTimeout = time.Second
	if c.Timeout < minTimeout {
		c.Timeout = minTimeout
	}
}
