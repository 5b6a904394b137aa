package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/seclens/dashgate/config"
	"github.com/seclens/dashgate/internal/domain/policy"
	apperrors "github.com/seclens/dashgate/internal/errors"
	"github.com/seclens/dashgate/internal/observability/metrics"
	"github.com/seclens/dashgate/internal/ports"
)

// Gate is the post-authorization interceptor. For every request that carries
// a session it re-resolves the caller's roles from the authorization backend
// and evaluates the restricted-path policy; a violation invalidates the
// session. Requests without a session pass through untouched, the strategy's
// authentication phase already had its say.
type Gate struct {
	backend  ports.AuthInfoClient
	sessions ports.SessionStore
	policy   *policy.Policy
	cfg      config.GateConfig
	logger   *slog.Logger
}

// NewGate constructs the gate.
func NewGate(backend ports.AuthInfoClient, sessions ports.SessionStore, pol *policy.Policy, cfg config.GateConfig, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Sanitize()
	return &Gate{
		backend:  backend,
		sessions: sessions,
		policy:   pol,
		cfg:      cfg,
		logger:   logger,
	}
}

// Middleware evaluates the restricted-path policy on every sessioned request.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if sess == nil {
			metrics.ObserveGateDecision(metrics.GateOutcomeSkip)
			next.ServeHTTP(w, r)
			return
		}

		roles, evaluable := g.resolveRoles(r)
		if !evaluable {
			// Evaluation is impossible and policy says let it through.
			metrics.ObserveGateDecision(metrics.GateOutcomeError)
			next.ServeHTTP(w, r)
			return
		}

		decision := g.policy.Evaluate(r.URL.Path, roles)
		if !decision.Violated {
			metrics.ObserveGateDecision(metrics.GateOutcomeAllow)
			next.ServeHTTP(w, r)
			return
		}

		metrics.ObserveGateDecision(metrics.GateOutcomeViolation)
		metrics.ObserveSessionCleared()
		g.sessions.Clear(w)
		g.logger.WarnContext(r.Context(), "restricted path violation, session cleared",
			slog.String("path", r.URL.Path),
			slog.String("username", sess.Username),
			slog.String("fragment", decision.Rule.PathFragment),
		)

		if g.cfg.ViolationMode == config.ViolationBlock {
			http.Redirect(w, r, g.cfg.LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// resolveRoles fetches the caller's authoritative roles from the backend.
// evaluable=false means the roles could not be determined AND the failure
// policy is open, so the request must continue without an evaluation.
//
// An authentication rejection from the backend is not a resolution failure:
// the caller verifiably holds no roles, and the policy is evaluated against
// the empty set.
func (g *Gate) resolveRoles(r *http.Request) (roles []string, evaluable bool) {
	defer func() {
		if p := recover(); p != nil {
			g.logger.ErrorContext(r.Context(), "gate identity resolution panicked", slog.Any("error", p))
			roles, evaluable = nil, g.cfg.FailurePolicy == config.FailClosed
		}
	}()

	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.BackendTimeout)
	defer cancel()

	identity, err := g.backend.AuthInfo(ctx, r.Header)
	if err == nil {
		return identity.BackendRoles, true
	}
	if apperrors.IsBackendAuth(err) {
		g.logger.DebugContext(r.Context(), "gate backend rejected credentials", slog.Any("error", err))
		return nil, true
	}

	g.logger.WarnContext(r.Context(), "gate identity resolution failed",
		slog.Any("error", err),
		slog.String("policy", string(g.cfg.FailurePolicy)),
	)
	return nil, g.cfg.FailurePolicy == config.FailClosed
}
