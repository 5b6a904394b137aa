package httpx

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seclens/dashgate/config"
	"github.com/seclens/dashgate/internal/ports"
)

// RouterServices groups everything the router wires together.
type RouterServices struct {
	Logger   *slog.Logger
	Strategy ports.Strategy
	Gate     *Gate

	AuthInfo   *AuthInfoHandler
	SystemInfo *SystemInfoHandler

	Multitenancy    config.MultitenancyConfig
	PreferredTenant PreferredTenantFunc
}

// NewRouter assembles the middleware chain and routes.
//
// Ordering is load-bearing: authentication resolves the session first,
// tenant selection pins the tenant header next, the strategy assigns the
// authorization header after that, and only then does the gate re-validate
// the caller against the backend.
func NewRouter(svc RouterServices) (chi.Router, error) {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestID())
	r.Use(Logging(logger))
	r.Use(Recover(logger))

	// Strategy routes (login, callback, logout) sit outside the gate; they
	// establish sessions rather than carry them.
	if err := svc.Strategy.Init(r); err != nil {
		return nil, err
	}

	r.Get("/api/status", HandleStatus)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(svc.Strategy.Authenticate)
		if svc.Multitenancy.Enabled {
			r.Use(TenantSelection(svc.Multitenancy, svc.PreferredTenant))
		}
		r.Use(svc.Strategy.AssignAuthHeader)
		r.Use(svc.Gate.Middleware)

		r.Get("/api/v1/auth/authinfo", svc.AuthInfo.ServeHTTP)
		r.Get("/api/v1/systeminfo", svc.SystemInfo.ServeHTTP)
	})

	return r, nil
}
