package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seclens/dashgate/config"
	apperrors "github.com/seclens/dashgate/internal/errors"
)

func TestLoadRestrictedPolicyFromPaths(t *testing.T) {
	pol, err := LoadRestrictedPolicy(config.RestrictedConfig{
		Paths:           []string{"upload-panel", "secret-app"},
		ExemptRoles:     []string{"admin"},
		AssetExemptions: []string{"bundles", "assets", "index.css"},
	})
	require.NoError(t, err)

	rules := pol.Rules()
	require.Len(t, rules, 2)
	require.Equal(t, "upload-panel", rules[0].PathFragment)
	require.Equal(t, []string{"admin"}, rules[0].ExemptRoles)

	require.True(t, pol.Evaluate("/app/upload-panel", []string{"viewer"}).Violated)
	require.False(t, pol.Evaluate("/app/upload-panel", []string{"admin"}).Violated)
}

func TestLoadRestrictedPolicyFromRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"path": "upload-panel", "exempt_roles": ["operator"], "asset_exemptions": ["bundles"]}
	]`), 0o600))

	pol, err := LoadRestrictedPolicy(config.RestrictedConfig{
		// Paths are ignored when a rules file is set.
		Paths:     []string{"other-app"},
		RulesFile: path,
	})
	require.NoError(t, err)

	rules := pol.Rules()
	require.Len(t, rules, 1)
	require.Equal(t, []string{"operator"}, rules[0].ExemptRoles)
	require.False(t, pol.Evaluate("/app/other-app", nil).Violated)
}

func TestLoadRestrictedPolicyFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRestrictedPolicy(config.RestrictedConfig{RulesFile: "/does/not/exist.json"})
		require.Error(t, err)
		require.True(t, apperrors.IsStartupConfig(err))
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

		_, err := LoadRestrictedPolicy(config.RestrictedConfig{RulesFile: path})
		require.Error(t, err)
		require.True(t, apperrors.IsStartupConfig(err))
	})
}

func TestLoadRestrictedPolicyEmptyConfig(t *testing.T) {
	pol, err := LoadRestrictedPolicy(config.RestrictedConfig{})
	require.NoError(t, err)
	require.Empty(t, pol.Rules())
	require.False(t, pol.Evaluate("/anything", nil).Violated)
}
