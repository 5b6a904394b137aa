package strategies

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/seclens/dashgate/config"
	domainauth "github.com/seclens/dashgate/internal/domain/auth"
	apperrors "github.com/seclens/dashgate/internal/errors"
	httpx "github.com/seclens/dashgate/internal/http"
	mockauth "github.com/seclens/dashgate/internal/mocks/auth"
)

func testDeps(backend *mockauth.MockAuthInfoClient, sessions *mockauth.MemorySessionStore) Deps {
	return Deps{
		Backend:    backend,
		Sessions:   sessions,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		SessionTTL: time.Hour,
	}
}

func loginBody(username, password string) io.Reader {
	raw, _ := json.Marshal(map[string]string{"username": username, "password": password})
	return strings.NewReader(string(raw))
}

func TestBasicAuthLogin(t *testing.T) {
	backend := &mockauth.MockAuthInfoClient{}
	sessions := &mockauth.MemorySessionStore{}
	strategy, err := NewBasicAuth(config.BasicAuthConfig{}, testDeps(backend, sessions))
	require.NoError(t, err)

	r := chi.NewRouter()
	require.NoError(t, strategy.Init(r))

	t.Run("valid credentials establish a session", func(t *testing.T) {
		var seenAuth string
		backend.AuthInfoFunc = func(_ context.Context, headers http.Header) (domainauth.Identity, error) {
			seenAuth = headers.Get("Authorization")
			return domainauth.Identity{Username: "alice", BackendRoles: []string{"viewer"}}, nil
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody("alice", "secret"))
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:secret"))
		require.Equal(t, wantAuth, seenAuth)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "alice", body["username"])
		require.Equal(t, []any{"viewer"}, body["backend_roles"])

		sess, ok := sessions.Read(httptest.NewRequest(http.MethodGet, "/", nil))
		require.True(t, ok)
		require.Equal(t, "alice", sess.Username)
		require.Equal(t, wantAuth, sess.AuthHeader)
		require.Equal(t, "basicauth", sess.AuthType)
	})

	t.Run("rejected credentials return 401", func(t *testing.T) {
		backend.AuthInfoFunc = func(_ context.Context, _ http.Header) (domainauth.Identity, error) {
			return domainauth.Identity{}, apperrors.BackendAuth(http.StatusUnauthorized, "bad credentials")
		}

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody("alice", "wrong")))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("backend outage returns 502", func(t *testing.T) {
		backend.AuthInfoFunc = func(_ context.Context, _ http.Header) (domainauth.Identity, error) {
			return domainauth.Identity{}, apperrors.BackendUnavailable("connection refused")
		}

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody("alice", "secret")))
		require.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("missing credentials return 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody("", "")))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBasicAuthForbiddenUsernames(t *testing.T) {
	backend := &mockauth.MockAuthInfoClient{}
	sessions := &mockauth.MemorySessionStore{}
	strategy, err := NewBasicAuth(config.BasicAuthConfig{
		ForbiddenUsernames: []string{"kibanaserver"},
	}, testDeps(backend, sessions))
	require.NoError(t, err)

	r := chi.NewRouter()
	require.NoError(t, strategy.Init(r))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody("KibanaServer", "secret")))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Zero(t, backend.Calls, "forbidden usernames never reach the backend")
}

func TestBasicAuthLoginThrottle(t *testing.T) {
	backend := &mockauth.MockAuthInfoClient{
		Err: apperrors.BackendAuth(http.StatusUnauthorized, "bad credentials"),
	}
	strategy, err := NewBasicAuth(config.BasicAuthConfig{
		LoginRate:  1,
		LoginBurst: 2,
	}, testDeps(backend, &mockauth.MemorySessionStore{}))
	require.NoError(t, err)

	r := chi.NewRouter()
	require.NoError(t, strategy.Init(r))

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody("alice", "wrong"))
		req.RemoteAddr = "10.0.0.1:4000"
		r.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	require.Equal(t, http.StatusUnauthorized, statuses[0])
	require.Equal(t, http.StatusUnauthorized, statuses[1])
	require.Equal(t, http.StatusTooManyRequests, statuses[2], "burst exhausted")
	require.Equal(t, http.StatusTooManyRequests, statuses[3])

	// A different client IP has its own limiter.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody("bob", "wrong"))
	req.RemoteAddr = "10.0.0.2:4000"
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBasicAuthLogoutClearsSession(t *testing.T) {
	sessions := &mockauth.MemorySessionStore{}
	sessions.Seed(domainauth.Session{Username: "alice"})
	strategy, err := NewBasicAuth(config.BasicAuthConfig{}, testDeps(&mockauth.MockAuthInfoClient{}, sessions))
	require.NoError(t, err)

	r := chi.NewRouter()
	require.NoError(t, strategy.Init(r))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, sessions.Cleared)
}

func TestBasicAuthAuthenticate(t *testing.T) {
	t.Run("session attaches to context", func(t *testing.T) {
		sessions := &mockauth.MemorySessionStore{}
		sessions.Seed(domainauth.Session{Username: "alice", AuthHeader: "Basic abc"})
		strategy, err := NewBasicAuth(config.BasicAuthConfig{}, testDeps(&mockauth.MockAuthInfoClient{}, sessions))
		require.NoError(t, err)

		var got *domainauth.Session
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = httpx.SessionFromContext(r.Context())
		})

		rec := httptest.NewRecorder()
		strategy.Authenticate(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/home", nil))
		require.NotNil(t, got)
		require.Equal(t, "alice", got.Username)
	})

	t.Run("no session passes through unauthenticated", func(t *testing.T) {
		strategy, err := NewBasicAuth(config.BasicAuthConfig{}, testDeps(&mockauth.MockAuthInfoClient{}, &mockauth.MemorySessionStore{}))
		require.NoError(t, err)

		var got *domainauth.Session
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = httpx.SessionFromContext(r.Context())
		})

		rec := httptest.NewRecorder()
		strategy.Authenticate(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/home", nil))
		require.Nil(t, got)
	})

	t.Run("header trumps session skips session resolution", func(t *testing.T) {
		sessions := &mockauth.MemorySessionStore{}
		sessions.Seed(domainauth.Session{Username: "alice", AuthHeader: "Basic abc"})
		strategy, err := NewBasicAuth(config.BasicAuthConfig{HeaderTrumpsSession: true},
			testDeps(&mockauth.MockAuthInfoClient{}, sessions))
		require.NoError(t, err)

		var got *domainauth.Session
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = httpx.SessionFromContext(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/app/home", nil)
		req.Header.Set("Authorization", "Basic caller-supplied")
		strategy.Authenticate(next).ServeHTTP(httptest.NewRecorder(), req)
		require.Nil(t, got, "the caller's header rides through to the backend untouched")
	})

	t.Run("unauthenticated routes are skipped", func(t *testing.T) {
		sessions := &mockauth.MemorySessionStore{}
		sessions.Seed(domainauth.Session{Username: "alice"})
		deps := testDeps(&mockauth.MockAuthInfoClient{}, sessions)
		deps.UnauthenticatedRoutes = []string{"/api/status"}
		strategy, err := NewBasicAuth(config.BasicAuthConfig{}, deps)
		require.NoError(t, err)

		var got *domainauth.Session
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = httpx.SessionFromContext(r.Context())
		})
		strategy.Authenticate(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/status", nil))
		require.Nil(t, got)
	})
}

func TestBasicAuthAssignAuthHeader(t *testing.T) {
	strategy, err := NewBasicAuth(config.BasicAuthConfig{}, testDeps(&mockauth.MockAuthInfoClient{}, &mockauth.MemorySessionStore{}))
	require.NoError(t, err)

	t.Run("session header assigned", func(t *testing.T) {
		var got string
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
		})

		req := httptest.NewRequest(http.MethodGet, "/app/home", nil)
		sess := domainauth.Session{Username: "alice", AuthHeader: "Basic abc"}
		req = req.WithContext(httpx.SetSessionInContext(req.Context(), &sess))

		strategy.AssignAuthHeader(next).ServeHTTP(httptest.NewRecorder(), req)
		require.Equal(t, "Basic abc", got)
	})

	t.Run("caller header never overwritten", func(t *testing.T) {
		var got string
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
		})

		req := httptest.NewRequest(http.MethodGet, "/app/home", nil)
		req.Header.Set("Authorization", "Basic caller")
		sess := domainauth.Session{Username: "alice", AuthHeader: "Basic stored"}
		req = req.WithContext(httpx.SetSessionInContext(req.Context(), &sess))

		strategy.AssignAuthHeader(next).ServeHTTP(httptest.NewRecorder(), req)
		require.Equal(t, "Basic caller", got)
	})
}
