package config

// RestrictedConfig declares the restricted-path rule source. Rules are loaded
// once at startup and immutable thereafter.
//
// The simple form builds one rule per entry in Paths, sharing ExemptRoles and
// AssetExemptions across all of them. RulesFile, when set, points at a JSON
// file of full rule objects and takes precedence.
type RestrictedConfig struct {
	// Paths are path fragments restricted to the exempt roles.
	Paths []string `env:"PATHS" envSeparator:";"`

	// ExemptRoles bypass every rule built from Paths.
	ExemptRoles []string `env:"EXEMPT_ROLES" envSeparator:";" envDefault:"admin"`

	// AssetExemptions are path substrings never subject to restriction, so a
	// redirected user's page chrome keeps rendering.
	AssetExemptions []string `env:"ASSET_EXEMPTIONS" envSeparator:";" envDefault:"bundles;assets;index.css"`

	// RulesFile is an optional JSON file of rule objects
	// ({"path", "exempt_roles", "asset_exemptions"}). Takes precedence over Paths.
	RulesFile string `env:"RULES_FILE"`
}
