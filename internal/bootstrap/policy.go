package bootstrap

import (
	"encoding/json"
	"os"

	"github.com/seclens/dashgate/config"
	"github.com/seclens/dashgate/internal/domain/policy"
	apperrors "github.com/seclens/dashgate/internal/errors"
)

// LoadRestrictedPolicy builds the restricted-path rule table. A rules file
// takes precedence; otherwise one rule per configured path fragment is built,
// sharing the configured exempt roles and asset exemptions.
func LoadRestrictedPolicy(cfg config.RestrictedConfig) (*policy.Policy, error) {
	if cfg.RulesFile != "" {
		raw, err := os.ReadFile(cfg.RulesFile)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeStartupConfig, "read restricted rules file %q", cfg.RulesFile)
		}
		var rules []policy.RestrictedRule
		if err := json.Unmarshal(raw, &rules); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeStartupConfig, "parse restricted rules file %q", cfg.RulesFile)
		}
		return policy.New(rules), nil
	}

	rules := make([]policy.RestrictedRule, 0, len(cfg.Paths))
	for _, fragment := range cfg.Paths {
		rules = append(rules, policy.RestrictedRule{
			PathFragment:    fragment,
			ExemptRoles:     cfg.ExemptRoles,
			AssetExemptions: cfg.AssetExemptions,
		})
	}
	return policy.New(rules), nil
}
