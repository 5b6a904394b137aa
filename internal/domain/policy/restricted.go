package policy

// Package policy evaluates restricted-path rules against request paths and
// backend role sets. The rule table is built once at startup and is immutable,
// so concurrent evaluation needs no synchronization.

import (
	"strings"
)

// RestrictedRule maps a path fragment to the roles allowed through it.
type RestrictedRule struct {
	// PathFragment is matched as a substring of the request path.
	PathFragment string `json:"path"`

	// ExemptRoles bypass the rule entirely.
	ExemptRoles []string `json:"exempt_roles"`

	// AssetExemptions are path substrings that are never restricted, so page
	// chrome (bundles, stylesheets, static assets) keeps loading for a user
	// who lost access to the app itself.
	AssetExemptions []string `json:"asset_exemptions"`
}

// Matches reports whether the rule restricts the given path for the given
// role set. A rule matches when the path contains the fragment, the path
// contains none of the asset exemptions, and the role set holds none of the
// exempt roles. An empty role set carries no privileges.
func (r RestrictedRule) Matches(path string, roles []string) bool {
	if !strings.Contains(path, r.PathFragment) {
		return false
	}
	for _, asset := range r.AssetExemptions {
		if asset != "" && strings.Contains(path, asset) {
			return false
		}
	}
	for _, role := range roles {
		for _, exempt := range r.ExemptRoles {
			if role == exempt {
				return false
			}
		}
	}
	return true
}

// Decision is the outcome of evaluating a path against the rule table.
type Decision struct {
	Violated bool
	// Rule is the first rule that matched. Rules are independent (OR across
	// the table), so which one reports first does not change the outcome.
	Rule RestrictedRule
}

// Policy is the immutable rule table.
type Policy struct {
	rules []RestrictedRule
}

// New builds a Policy from the given rules. Rules with an empty path fragment
// are dropped; they would otherwise match every request.
func New(rules []RestrictedRule) *Policy {
	kept := make([]RestrictedRule, 0, len(rules))
	for _, r := range rules {
		if strings.TrimSpace(r.PathFragment) == "" {
			continue
		}
		kept = append(kept, r)
	}
	return &Policy{rules: kept}
}

// Rules returns a copy of the rule table.
func (p *Policy) Rules() []RestrictedRule {
	out := make([]RestrictedRule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Evaluate checks the path against every rule for the given role set.
func (p *Policy) Evaluate(path string, roles []string) Decision {
	for _, r := range p.rules {
		if r.Matches(path, roles) {
			return Decision{Violated: true, Rule: r}
		}
	}
	return Decision{}
}
