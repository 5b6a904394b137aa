package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/strategies;
// orchestration in internal/http and internal/bootstrap.

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domainauth "github.com/seclens/dashgate/internal/domain/auth"
)

// AuthInfoClient resolves the caller's authoritative identity from the
// authorization backend. Implementations forward the caller's original
// headers so the backend makes its own transport-level determination.
//
// AuthInfo must be idempotent and side-effect free: both the authinfo
// endpoint and the authorization gate may call it within one request.
type AuthInfoClient interface {
	AuthInfo(ctx context.Context, headers http.Header) (domainauth.Identity, error)
}

// SessionStore persists the identity snapshot between requests.
// The production implementation is an encrypted, signed cookie.
type SessionStore interface {
	// Read returns the session for the request, if any. Decode failures and
	// expired sessions report ok=false; they are never errors.
	Read(r *http.Request) (sess domainauth.Session, ok bool)

	// IsAuthenticated reports whether the request carries a readable,
	// unexpired session.
	IsAuthenticated(r *http.Request) bool

	// Write replaces the session on the response.
	Write(w http.ResponseWriter, sess domainauth.Session) error

	// Clear removes the session. Clearing an absent session is a no-op.
	Clear(w http.ResponseWriter)
}

// SAMLBroker is the backend's SAML brokerage surface: the backend produces
// the IdP redirect and validates the returned assertion; the gateway only
// shuttles the messages.
type SAMLBroker interface {
	SAMLAuthRequest(ctx context.Context) (location, requestID string, err error)
	SAMLAuthToken(ctx context.Context, requestID, samlResponse string) (token string, err error)
}

// IdentityCache is a TTL-bounded cache of resolved identities, used by the
// proxycache strategy to avoid re-resolving header-trust identities on every
// request.
type IdentityCache interface {
	Get(ctx context.Context, key string) (id domainauth.Identity, ok bool, err error)
	Set(ctx context.Context, key string, id domainauth.Identity, ttl time.Duration) error
}

// Strategy is the capability contract every authentication strategy satisfies.
// Exactly one strategy is constructed per process from resolved configuration;
// request handling never branches on the strategy type.
//
// Constructors validate required parameters and fail startup when any are
// missing; no strategy failure is recoverable at request time.
type Strategy interface {
	// Type returns the resolved strategy type (e.g. "basicauth").
	Type() string

	// Init registers the strategy's login/logout routes on the router.
	Init(r chi.Router) error

	// Authenticate is the host authentication phase: it resolves the caller's
	// session (or transport credentials) and attaches the result to the
	// request context. Unauthenticated requests pass through untouched.
	Authenticate(next http.Handler) http.Handler

	// AssignAuthHeader copies the resolved identity into the outbound headers
	// the authorization backend expects. It is installed strictly after
	// multitenancy header rewriting so tenant selection does not race with
	// identity propagation.
	AssignAuthHeader(next http.Handler) http.Handler
}
