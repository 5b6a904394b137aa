package config

// MultitenancyConfig configures the multitenancy collaborator boundary.
// Tenant selection itself is out of scope here; what matters to the core is
// the header ordering guarantee and the startup allow-list check.
type MultitenancyConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`

	// TenantHeader is the outbound header carrying the tenant selection.
	// It must appear in BACKEND_HEADER_ALLOWLIST when multitenancy is on;
	// startup fails otherwise.
	TenantHeader string `env:"TENANT_HEADER" envDefault:"sgtenant"`

	// PreferredTenants are tried in order when the user has no selection.
	PreferredTenants []string `env:"PREFERRED" envSeparator:";"`
}
