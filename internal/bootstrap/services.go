package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/seclens/dashgate/config"
	"github.com/seclens/dashgate/internal/adapters/backendclient"
	"github.com/seclens/dashgate/internal/adapters/cookiesession"
	httpx "github.com/seclens/dashgate/internal/http"
	"github.com/seclens/dashgate/internal/ports"
)

// Services is the composed application: every adapter and handler wired
// together behind the router.
type Services struct {
	Handler http.Handler
}

// ServiceDeps groups optional overrides, mainly for tests.
type ServiceDeps struct {
	Logger *slog.Logger

	// Backend overrides the backend client; nil builds one from configuration.
	Backend ports.AuthInfoClient
	// Broker overrides the SAML broker; nil uses the backend client.
	Broker ports.SAMLBroker
	// Sessions overrides the session store; nil builds the cookie store.
	Sessions ports.SessionStore
	// IdentityCache overrides the proxycache identity cache.
	IdentityCache ports.IdentityCache
}

// NewServices validates configuration and composes the application.
func NewServices(ctx context.Context, cfg *config.AppConfig, deps ServiceDeps) (*Services, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := ValidateMultitenancy(cfg); err != nil {
		return nil, err
	}

	backend := deps.Backend
	broker := deps.Broker
	if backend == nil {
		client, err := backendclient.New(cfg.Backend, backendclient.Options{})
		if err != nil {
			return nil, err
		}
		backend = client
		if broker == nil {
			broker = client
		}
	}

	sessions := deps.Sessions
	if sessions == nil {
		sessions = cookiesession.NewStore(cfg.Cookie, logger)
	}
	preferences := cookiesession.NewPreferencesStore(cfg.Preferences, cfg.Cookie.Password, logger)

	pol, err := LoadRestrictedPolicy(cfg.Restricted)
	if err != nil {
		return nil, err
	}

	strategy, resolved, err := BuildStrategy(ctx, cfg, StrategyDeps{
		Backend:       backend,
		Broker:        broker,
		Sessions:      sessions,
		Logger:        logger,
		IdentityCache: deps.IdentityCache,
	})
	if err != nil {
		return nil, err
	}

	router, err := httpx.NewRouter(httpx.RouterServices{
		Logger:     logger,
		Strategy:   strategy,
		Gate:       httpx.NewGate(backend, sessions, pol, cfg.Gate, logger),
		AuthInfo:   httpx.NewAuthInfoHandler(backend, logger),
		SystemInfo: httpx.NewSystemInfoHandler(resolved, cfg.Multitenancy.Enabled),

		Multitenancy: cfg.Multitenancy,
		PreferredTenant: func(r *http.Request) (string, bool) {
			prefs, ok := preferences.Read(r)
			if !ok || prefs.Tenant == "" {
				return "", false
			}
			return prefs.Tenant, true
		},
	})
	if err != nil {
		return nil, err
	}

	return &Services{Handler: router}, nil
}
