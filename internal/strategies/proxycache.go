package strategies

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/seclens/dashgate/config"
	domainauth "github.com/seclens/dashgate/internal/domain/auth"
	apperrors "github.com/seclens/dashgate/internal/errors"
	httpx "github.com/seclens/dashgate/internal/http"
	"github.com/seclens/dashgate/internal/observability/metrics"
	"github.com/seclens/dashgate/internal/ports"
)

// ProxyCache trusts identity headers stamped by a fronting proxy and caches
// the resolved identity so role headers can be re-injected on later requests
// that arrive with only the session cookie.
type ProxyCache struct {
	cfg   config.ProxyCacheConfig
	deps  Deps
	cache ports.IdentityCache
}

var _ ports.Strategy = (*ProxyCache)(nil)

// NewProxyCache constructs the proxycache strategy.
func NewProxyCache(cfg config.ProxyCacheConfig, cache ports.IdentityCache, deps Deps) (*ProxyCache, error) {
	if cfg.UserHeader == "" {
		return nil, apperrors.StartupConfig("missing required parameter proxycache.user_header")
	}
	if cfg.RolesHeader == "" {
		return nil, apperrors.StartupConfig("missing required parameter proxycache.roles_header")
	}
	if cache == nil {
		return nil, apperrors.StartupConfig("proxycache requires an identity cache")
	}
	if deps.Sessions == nil {
		return nil, apperrors.StartupConfig("proxycache requires a session store")
	}
	return &ProxyCache{cfg: cfg, cache: cache, deps: deps}, nil
}

// Type returns the strategy type.
func (s *ProxyCache) Type() string { return string(config.AuthTypeProxyCache) }

// Init registers logout and, when configured, the external login redirect.
func (s *ProxyCache) Init(r chi.Router) error {
	r.Post("/api/v1/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		s.deps.Sessions.Clear(w)
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.cfg.LoginEndpoint != "" {
		r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, s.cfg.LoginEndpoint, http.StatusFound)
		})
	}
	return nil
}

// Authenticate resolves the session, or establishes one from the proxy-set
// identity headers.
func (s *ProxyCache) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.skipAuthentication(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if sess, ok := s.deps.Sessions.Read(r); ok {
			next.ServeHTTP(w, s.deps.establish(w, r, sess))
			return
		}

		username := r.Header.Get(s.cfg.UserHeader)
		if username == "" {
			if s.cfg.LoginEndpoint != "" && acceptsHTML(r) {
				http.Redirect(w, r, s.cfg.LoginEndpoint, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		roles := splitRoles(r.Header.Get(s.cfg.RolesHeader))
		identity := domainauth.Identity{Username: username, BackendRoles: roles}
		if err := s.cache.Set(r.Context(), username, identity, s.cfg.CacheTTL); err != nil {
			s.deps.logger().WarnContext(r.Context(), "identity cache write failed", "error", err)
		}

		sess := s.deps.newSession(s.Type(), identity.Username)
		sess.BackendRoles = identity.BackendRoles
		if err := s.deps.Sessions.Write(w, sess); err != nil {
			s.deps.logger().WarnContext(r.Context(), "write session failed", "error", err)
		}
		metrics.ObserveLoginAttempt(s.Type(), "success")
		next.ServeHTTP(w, s.deps.establish(w, r, sess))
	})
}

// AssignAuthHeader re-injects the proxy identity headers from the session so
// the backend sees the same identity the proxy asserted at login time. A
// request that already carries the headers passes through untouched.
func (s *ProxyCache) AssignAuthHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := httpx.SessionFromContext(r.Context())
		if sess == nil || sess.Username == "" || r.Header.Get(s.cfg.UserHeader) != "" {
			next.ServeHTTP(w, r)
			return
		}

		roles := sess.BackendRoles
		if len(roles) == 0 {
			if id, ok, err := s.cache.Get(r.Context(), sess.Username); err != nil {
				s.deps.logger().WarnContext(r.Context(), "identity cache read failed", "error", err)
			} else if ok {
				roles = id.BackendRoles
			}
		}

		r.Header.Set(s.cfg.UserHeader, sess.Username)
		if len(roles) > 0 {
			r.Header.Set(s.cfg.RolesHeader, strings.Join(roles, ","))
		}
		next.ServeHTTP(w, r)
	})
}

func splitRoles(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	roles := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}
