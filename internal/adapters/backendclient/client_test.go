package backendclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seclens/dashgate/config"
	apperrors "github.com/seclens/dashgate/internal/errors"
)

func testConfig(baseURL string) config.BackendConfig {
	return config.BackendConfig{
		URL:             baseURL,
		AuthInfoPath:    "/_dashgate/authinfo",
		Timeout:         2 * time.Second,
		HeaderAllowList: []string{"authorization", "cookie", "sgtenant"},
	}
}

func TestNewRejectsInvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "localhost:9200"} {
		_, err := New(testConfig(raw), Options{})
		require.Error(t, err, raw)
		require.True(t, apperrors.IsStartupConfig(err))
	}
}

func TestAuthInfoSuccess(t *testing.T) {
	var seen http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/_dashgate/authinfo", r.URL.Path)
		seen = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_name":"alice","backend_roles":["viewer","editor"],"is_anonymous_auth":false}`))
	}))
	defer srv.Close()

	client, err := New(testConfig(srv.URL), Options{})
	require.NoError(t, err)

	headers := http.Header{}
	headers.Set("Authorization", "Basic abc")
	headers.Set("sgtenant", "team-a")
	headers.Set("X-Forwarded-For", "10.0.0.1")

	identity, err := client.AuthInfo(context.Background(), headers)
	require.NoError(t, err)
	require.Equal(t, "alice", identity.Username)
	require.Equal(t, []string{"viewer", "editor"}, identity.BackendRoles)

	require.Equal(t, "Basic abc", seen.Get("Authorization"))
	require.Equal(t, "team-a", seen.Get("sgtenant"))
	require.Empty(t, seen.Get("X-Forwarded-For"), "only allow-listed headers are forwarded")
}

func TestAuthInfoBackendRejection(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"no credentials"}`))
		}))

		client, err := New(testConfig(srv.URL), Options{})
		require.NoError(t, err)

		_, err = client.AuthInfo(context.Background(), http.Header{})
		require.True(t, apperrors.IsBackendAuth(err))
		require.Equal(t, status, apperrors.GetStatus(err))
		require.Contains(t, err.Error(), "no credentials")

		srv.Close()
	}
}

func TestAuthInfoBackendFailure(t *testing.T) {
	t.Run("server error is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client, err := New(testConfig(srv.URL), Options{})
		require.NoError(t, err)

		_, err = client.AuthInfo(context.Background(), http.Header{})
		require.True(t, apperrors.IsBackendUnavailable(err))
	})

	t.Run("connection refused is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close() // nothing listens anymore

		client, err := New(testConfig(srv.URL), Options{})
		require.NoError(t, err)

		_, err = client.AuthInfo(context.Background(), http.Header{})
		require.True(t, apperrors.IsBackendUnavailable(err))
	})

	t.Run("slow backend is a timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		cfg := testConfig(srv.URL)
		cfg.Timeout = 50 * time.Millisecond
		client, err := New(cfg, Options{})
		require.NoError(t, err)

		_, err = client.AuthInfo(context.Background(), http.Header{})
		require.True(t, apperrors.IsTimeout(err))
	})

	t.Run("malformed body is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client, err := New(testConfig(srv.URL), Options{})
		require.NoError(t, err)

		_, err = client.AuthInfo(context.Background(), http.Header{})
		require.True(t, apperrors.IsBackendUnavailable(err))
	})
}

func TestSAMLBrokerage(t *testing.T) {
	t.Run("auth request returns location and request id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, samlAuthRequestPath, r.URL.Path)
			_, _ = w.Write([]byte(`{"location":"https://idp.example.com/sso","request_id":"req-1"}`))
		}))
		defer srv.Close()

		client, err := New(testConfig(srv.URL), Options{})
		require.NoError(t, err)

		location, requestID, err := client.SAMLAuthRequest(context.Background())
		require.NoError(t, err)
		require.Equal(t, "https://idp.example.com/sso", location)
		require.Equal(t, "req-1", requestID)
	})

	t.Run("token exchange round trip", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, samlAuthTokenPath, r.URL.Path)
			require.Equal(t, http.MethodPost, r.Method)
			_, _ = w.Write([]byte(`{"authorization":"Bearer saml-token"}`))
		}))
		defer srv.Close()

		client, err := New(testConfig(srv.URL), Options{})
		require.NoError(t, err)

		token, err := client.SAMLAuthToken(context.Background(), "req-1", "assertion")
		require.NoError(t, err)
		require.Equal(t, "Bearer saml-token", token)
	})

	t.Run("rejected assertion", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad assertion"}`))
		}))
		defer srv.Close()

		client, err := New(testConfig(srv.URL), Options{})
		require.NoError(t, err)

		_, err = client.SAMLAuthToken(context.Background(), "req-1", "bad")
		require.True(t, apperrors.IsBackendAuth(err))
	})
}
