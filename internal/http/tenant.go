package httpx

import (
	"net/http"

	"github.com/seclens/dashgate/config"
)

// PreferredTenantFunc returns the caller's remembered tenant selection, if
// any. The production implementation reads the preference cookie, which is
// low-trust UI state; a bad value costs nothing because the backend enforces
// tenant access itself.
type PreferredTenantFunc func(r *http.Request) (tenant string, ok bool)

// TenantSelection returns the middleware that pins the tenant header before
// the strategy assigns the authorization header. Selection order: an explicit
// request header wins, then the session's stored tenant, then the remembered
// preference, then the first configured fallback.
func TenantSelection(cfg config.MultitenancyConfig, preferred PreferredTenantFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant := r.Header.Get(cfg.TenantHeader)
			if tenant == "" {
				if sess := SessionFromContext(r.Context()); sess != nil {
					tenant = sess.Tenant
				}
			}
			if tenant == "" && preferred != nil {
				if t, ok := preferred(r); ok {
					tenant = t
				}
			}
			if tenant == "" && len(cfg.PreferredTenants) > 0 {
				tenant = cfg.PreferredTenants[0]
			}
			if tenant != "" {
				r.Header.Set(cfg.TenantHeader, tenant)
				r = r.WithContext(SetTenantInContext(r.Context(), tenant))
			}
			next.ServeHTTP(w, r)
		})
	}
}
