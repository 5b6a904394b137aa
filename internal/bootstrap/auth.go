package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/seclens/dashgate/config"
	"github.com/seclens/dashgate/internal/adapters/rediscache"
	apperrors "github.com/seclens/dashgate/internal/errors"
	"github.com/seclens/dashgate/internal/ports"
	"github.com/seclens/dashgate/internal/service"
	"github.com/seclens/dashgate/internal/strategies"
)

// ValidateMultitenancy checks the tenant header ordering prerequisite: the
// backend client must forward the tenant header, otherwise tenant selection
// would be silently stripped. Failing at startup beats debugging it live.
func ValidateMultitenancy(cfg *config.AppConfig) error {
	if !cfg.Multitenancy.Enabled {
		return nil
	}
	if !cfg.Backend.AllowsHeader(cfg.Multitenancy.TenantHeader) {
		return apperrors.StartupConfigf(
			"multitenancy is enabled but tenant header %q is not in BACKEND_HEADER_ALLOWLIST",
			cfg.Multitenancy.TenantHeader)
	}
	return nil
}

// StrategyDeps groups what BuildStrategy needs beyond configuration.
type StrategyDeps struct {
	Backend  ports.AuthInfoClient
	Broker   ports.SAMLBroker
	Sessions ports.SessionStore
	Logger   *slog.Logger

	// IdentityCache backs the proxycache strategy. When nil and proxycache is
	// selected, a Redis-backed cache is connected from RedisConfig.
	IdentityCache ports.IdentityCache
}

// BuildStrategy resolves the strategy selection and constructs the single
// strategy instance for this process.
//
//nolint:ireturn // the whole point is hiding the concrete strategy behind the port.
func BuildStrategy(
	ctx context.Context,
	cfg *config.AppConfig,
	deps StrategyDeps,
) (ports.Strategy, service.StrategyConfig, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	resolved := service.ResolveStrategy(cfg)
	if resolved.NormalizedFromLegacy {
		logger.WarnContext(ctx, "auth type resolved from deprecated enabled flag, set AUTH_TYPE instead",
			"auth_type", string(resolved.Type))
	}

	shared := strategies.Deps{
		Backend:               deps.Backend,
		Sessions:              deps.Sessions,
		Logger:                logger,
		SessionTTL:            cfg.Session.TTL,
		Keepalive:             cfg.Session.Keepalive,
		AnonymousAuth:         resolved.AnonymousAuthEnabled,
		UnauthenticatedRoutes: resolved.UnauthenticatedRoutes,
	}

	var (
		strategy ports.Strategy
		err      error
	)
	switch resolved.Type {
	case config.AuthTypeBasicAuth:
		strategy, err = strategies.NewBasicAuth(cfg.BasicAuth, shared)
	case config.AuthTypeJWT:
		strategy, err = strategies.NewJWT(cfg.JWT, shared)
	case config.AuthTypeOpenID:
		strategy, err = strategies.NewOpenID(ctx, cfg.OpenID, shared)
	case config.AuthTypeSAML:
		strategy, err = strategies.NewSAML(cfg.SAML, deps.Broker, shared)
	case config.AuthTypeProxyCache:
		cache := deps.IdentityCache
		if cache == nil {
			cache = newIdentityCache(cfg.Redis)
		}
		strategy, err = strategies.NewProxyCache(cfg.ProxyCache, cache, shared)
	case config.AuthTypeNone:
		strategy = strategies.NewPassthrough(shared)
	default:
		err = apperrors.StartupConfigf("unresolvable auth type %q", string(resolved.Type))
	}
	if err != nil {
		return nil, service.StrategyConfig{}, err
	}

	logger.InfoContext(ctx, "authentication strategy selected", "auth_type", strategy.Type())
	return strategy, resolved, nil
}

//nolint:ireturn // ports.IdentityCache keeps the redis client swappable in tests.
func newIdentityCache(cfg config.RedisConfig) ports.IdentityCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return rediscache.NewIdentityCache(client)
}
