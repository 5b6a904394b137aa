package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdentityHasAnyRole(t *testing.T) {
	id := Identity{Username: "alice", BackendRoles: []string{"viewer", "editor"}}

	require.True(t, id.HasRole("viewer"))
	require.False(t, id.HasRole("admin"))
	require.True(t, id.HasAnyRole([]string{"admin", "editor"}))
	require.False(t, id.HasAnyRole([]string{"admin"}))
	require.False(t, id.HasAnyRole(nil), "empty role set never matches")

	empty := Identity{Username: "bob"}
	require.False(t, empty.HasAnyRole([]string{"admin"}))
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Now()

	expiring := Session{ExpiresAt: now.Add(time.Minute)}
	require.False(t, expiring.IsExpired(now))
	require.True(t, expiring.IsExpired(now.Add(2*time.Minute)))

	browserSession := Session{}
	require.False(t, browserSession.IsExpired(now.Add(100*365*24*time.Hour)))
}
