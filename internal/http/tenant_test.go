package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seclens/dashgate/config"
	domainauth "github.com/seclens/dashgate/internal/domain/auth"
)

func TestTenantSelection(t *testing.T) {
	cfg := config.MultitenancyConfig{
		Enabled:          true,
		TenantHeader:     "sgtenant",
		PreferredTenants: []string{"fallback-tenant"},
	}

	serve := func(req *http.Request, preferred PreferredTenantFunc) (header, ctxTenant string) {
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			header = r.Header.Get("sgtenant")
			ctxTenant = TenantFromContext(r.Context())
		})
		TenantSelection(cfg, preferred)(next).ServeHTTP(httptest.NewRecorder(), req)
		return header, ctxTenant
	}

	t.Run("explicit header wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app/home", nil)
		req.Header.Set("sgtenant", "explicit")
		sess := domainauth.Session{Username: "alice", Tenant: "from-session"}
		req = req.WithContext(SetSessionInContext(req.Context(), &sess))

		header, ctxTenant := serve(req, func(*http.Request) (string, bool) { return "from-prefs", true })
		require.Equal(t, "explicit", header)
		require.Equal(t, "explicit", ctxTenant)
	})

	t.Run("session tenant beats preference", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app/home", nil)
		sess := domainauth.Session{Username: "alice", Tenant: "from-session"}
		req = req.WithContext(SetSessionInContext(req.Context(), &sess))

		header, _ := serve(req, func(*http.Request) (string, bool) { return "from-prefs", true })
		require.Equal(t, "from-session", header)
	})

	t.Run("preference beats configured fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app/home", nil)
		header, _ := serve(req, func(*http.Request) (string, bool) { return "from-prefs", true })
		require.Equal(t, "from-prefs", header)
	})

	t.Run("configured fallback is last", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app/home", nil)
		header, _ := serve(req, func(*http.Request) (string, bool) { return "", false })
		require.Equal(t, "fallback-tenant", header)
	})

	t.Run("nothing resolved leaves the header alone", func(t *testing.T) {
		bare := config.MultitenancyConfig{Enabled: true, TenantHeader: "sgtenant"}
		var header string
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			header = r.Header.Get("sgtenant")
		})
		TenantSelection(bare, nil)(next).ServeHTTP(httptest.NewRecorder(),
			httptest.NewRequest(http.MethodGet, "/app/home", nil))
		require.Empty(t, header)
	})
}
