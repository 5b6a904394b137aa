package strategies

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seclens/dashgate/config"
	httpx "github.com/seclens/dashgate/internal/http"
	"github.com/seclens/dashgate/internal/ports"
)

// Passthrough is the "none" strategy: no login surface of its own. It still
// resolves an existing session so downstream authorization sees it, and still
// relays a stored authorization header when one exists.
type Passthrough struct {
	deps Deps
}

var _ ports.Strategy = (*Passthrough)(nil)

// NewPassthrough constructs the none strategy.
func NewPassthrough(deps Deps) *Passthrough {
	return &Passthrough{deps: deps}
}

// Type returns the strategy type.
func (s *Passthrough) Type() string { return string(config.AuthTypeNone) }

// Init registers no routes.
func (s *Passthrough) Init(chi.Router) error { return nil }

// Authenticate resolves an existing session, if any.
func (s *Passthrough) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Sessions == nil {
			next.ServeHTTP(w, r)
			return
		}
		sess, ok := s.deps.Sessions.Read(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, s.deps.establish(w, r, sess))
	})
}

// AssignAuthHeader relays a stored authorization header without overwriting
// one the caller supplied.
func (s *Passthrough) AssignAuthHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := httpx.SessionFromContext(r.Context())
		if sess != nil && sess.AuthHeader != "" && r.Header.Get("Authorization") == "" {
			r.Header.Set("Authorization", sess.AuthHeader)
		}
		next.ServeHTTP(w, r)
	})
}
