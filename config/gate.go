package config

import (
	"fmt"
	"strings"
	"time"
)

// FailurePolicy decides what the authorization gate does when it cannot
// evaluate a request (backend outage, internal fault).
type FailurePolicy string

const (
	// FailOpen lets the request continue. A backend outage must not make the
	// entire UI unreachable; the restriction is temporarily bypassed. This is
	// the deliberate, auditable default.
	FailOpen FailurePolicy = "open"
	// FailClosed denies the request when evaluation is impossible.
	FailClosed FailurePolicy = "closed"
)

// UnmarshalText implements encoding.TextUnmarshaler for FailurePolicy.
func (p *FailurePolicy) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch FailurePolicy(v) {
	case FailOpen, FailClosed:
		*p = FailurePolicy(v)
		return nil
	default:
		return fmt.Errorf("invalid gate failure policy: %q (valid options: open, closed)", v)
	}
}

// ViolationMode decides what happens to a request that violates a
// restricted-path rule.
type ViolationMode string

const (
	// ViolationClear clears the session and lets the request complete,
	// matching the historically observed behavior.
	ViolationClear ViolationMode = "clear"
	// ViolationBlock clears the session and short-circuits the request with
	// a redirect to the login page before it reaches downstream handlers.
	ViolationBlock ViolationMode = "block"
)

// UnmarshalText implements encoding.TextUnmarshaler for ViolationMode.
func (m *ViolationMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch ViolationMode(v) {
	case ViolationClear, ViolationBlock:
		*m = ViolationMode(v)
		return nil
	default:
		return fmt.Errorf("invalid gate violation mode: %q (valid options: clear, block)", v)
	}
}

// GateConfig configures the post-authorization gate.
type GateConfig struct {
	FailurePolicy FailurePolicy `env:"FAILURE_POLICY" envDefault:"open"`
	ViolationMode ViolationMode `env:"VIOLATION_MODE" envDefault:"clear"`

	// LoginPath is where blocked browser requests are redirected.
	LoginPath string `env:"LOGIN_PATH" envDefault:"/login"`

	// BackendTimeout bounds the gate's identity resolution call. On timeout
	// roles are treated as unresolved (empty set).
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"5s"`
}

// Sanitize applies guardrails to gate configuration.
func (c *GateConfig) Sanitize() {
	if c.BackendTimeout <= 0 {
		c.BackendTimeout = 5 * time.Second
	}
	if c.LoginPath == "" {
		c.LoginPath = "/login"
	}
}
