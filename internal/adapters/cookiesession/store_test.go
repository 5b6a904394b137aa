package cookiesession

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seclens/dashgate/config"
	domainauth "github.com/seclens/dashgate/internal/domain/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(ttl time.Duration) *Store {
	return NewStore(config.CookieConfig{
		Name:     "dashgate_authentication",
		Password: "a-long-enough-cookie-password-for-tests",
		TTL:      ttl,
	}, testLogger())
}

// requestWithCookies replays the Set-Cookie headers of a response onto a
// fresh request, like a browser would.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/app/home", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

func TestStoreWriteRead(t *testing.T) {
	store := testStore(time.Hour)

	sess := domainauth.Session{
		ID:       "sess-1",
		Username: "alice",
		AuthType: "basicauth",
		IssuedAt: time.Now().Truncate(time.Second),
	}

	rec := httptest.NewRecorder()
	require.NoError(t, store.Write(rec, sess))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	require.Equal(t, int(time.Hour.Seconds()), cookies[0].MaxAge)

	got, ok := store.Read(requestWithCookies(t, rec))
	require.True(t, ok)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, "basicauth", got.AuthType)
	require.True(t, store.IsAuthenticated(requestWithCookies(t, rec)))
}

func TestStoreBrowserSessionCookieHasNoMaxAge(t *testing.T) {
	store := testStore(0)

	rec := httptest.NewRecorder()
	require.NoError(t, store.Write(rec, domainauth.Session{Username: "alice"}))
	require.Equal(t, 0, rec.Result().Cookies()[0].MaxAge)
}

func TestStoreReadMisses(t *testing.T) {
	store := testStore(time.Hour)

	t.Run("no cookie", func(t *testing.T) {
		_, ok := store.Read(httptest.NewRequest(http.MethodGet, "/", nil))
		require.False(t, ok)
	})

	t.Run("garbage cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "dashgate_authentication", Value: "garbage"})
		_, ok := store.Read(req)
		require.False(t, ok)
		require.False(t, store.IsAuthenticated(req))
	})

	t.Run("expired session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, store.Write(rec, domainauth.Session{
			Username:  "alice",
			ExpiresAt: time.Now().Add(-time.Minute),
		}))
		_, ok := store.Read(requestWithCookies(t, rec))
		require.False(t, ok)
	})

	t.Run("cookie from another password", func(t *testing.T) {
		other := NewStore(config.CookieConfig{
			Name:     "dashgate_authentication",
			Password: "a-different-password-entirely-here",
		}, testLogger())
		rec := httptest.NewRecorder()
		require.NoError(t, other.Write(rec, domainauth.Session{Username: "mallory"}))
		_, ok := store.Read(requestWithCookies(t, rec))
		require.False(t, ok)
	})
}

func TestStoreClearIsIdempotent(t *testing.T) {
	store := testStore(time.Hour)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		store.Clear(rec)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, -1, cookies[0].MaxAge)
		require.Empty(t, cookies[0].Value)
	}
}

func TestPreferencesStoreIndependence(t *testing.T) {
	sessions := testStore(time.Hour)
	prefs := NewPreferencesStore(config.PreferencesConfig{Name: "dashgate_preferences"},
		"a-long-enough-cookie-password-for-tests", testLogger())

	rec := httptest.NewRecorder()
	require.NoError(t, prefs.Write(rec, Preferences{Tenant: "team-a"}))

	req := requestWithCookies(t, rec)
	got, ok := prefs.Read(req)
	require.True(t, ok)
	require.Equal(t, "team-a", got.Tenant)

	// The preference cookie never reads as a session, even with the shared
	// password.
	require.False(t, sessions.IsAuthenticated(req))

	t.Run("invalid cookie dropped silently", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Cookie", "dashgate_preferences=bad")
		_, ok := prefs.Read(req)
		require.False(t, ok)
	})
}
