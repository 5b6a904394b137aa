package strategies

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/seclens/dashgate/config"
	domainauth "github.com/seclens/dashgate/internal/domain/auth"
	apperrors "github.com/seclens/dashgate/internal/errors"
	httpx "github.com/seclens/dashgate/internal/http"
	"github.com/seclens/dashgate/internal/ports"
)

// JWT authenticates with a bearer token supplied in a header or URL
// parameter. The token is parsed unverified for session metadata only; the
// authorization backend is the verifier, and every request re-presents the
// token to it.
type JWT struct {
	cfg    config.JWTConfig
	deps   Deps
	parser *gojwt.Parser
}

var _ ports.Strategy = (*JWT)(nil)

// NewJWT constructs the jwt strategy.
func NewJWT(cfg config.JWTConfig, deps Deps) (*JWT, error) {
	if deps.Sessions == nil {
		return nil, apperrors.StartupConfig("jwt requires a session store")
	}
	if cfg.Header == "" {
		cfg.Header = "Authorization"
	}
	return &JWT{
		cfg:    cfg,
		deps:   deps,
		parser: gojwt.NewParser(),
	}, nil
}

// Type returns the strategy type.
func (s *JWT) Type() string { return string(config.AuthTypeJWT) }

// Init registers logout and, when configured, the external login redirect.
func (s *JWT) Init(r chi.Router) error {
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

// Authenticate resolves the session, or establishes one from a token the
// request carries.
func (s *JWT) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.skipAuthentication(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if sess, ok := s.deps.Sessions.Read(r); ok {
			next.ServeHTTP(w, s.deps.establish(w, r, sess))
			return
		}

		token := s.tokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := s.sessionFromToken(token)
		if err != nil {
			s.deps.logger().DebugContext(r.Context(), "unparsable bearer token ignored", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if err := s.deps.Sessions.Write(w, sess); err != nil {
			s.deps.logger().WarnContext(r.Context(), "write session failed", "error", err)
		}
		next.ServeHTTP(w, s.deps.establish(w, r, sess))
	})
}

// AssignAuthHeader copies the session's bearer token onto the configured
// outbound header.
func (s *JWT) AssignAuthHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := httpx.SessionFromContext(r.Context())
		if sess != nil && sess.AuthHeader != "" && r.Header.Get(s.cfg.Header) == "" {
			r.Header.Set(s.cfg.Header, sess.AuthHeader)
		}
		next.ServeHTTP(w, r)
	})
}

// tokenFromRequest pulls a raw token from the URL parameter or the header,
// in that order. The URL parameter wins so deep links keep working.
func (s *JWT) tokenFromRequest(r *http.Request) string {
	if s.cfg.URLParam != "" {
		if token := r.URL.Query().Get(s.cfg.URLParam); token != "" {
			return token
		}
	}
	raw := r.Header.Get(s.cfg.Header)
	return strings.TrimPrefix(raw, "Bearer ")
}

// sessionFromToken parses claims without verifying the signature; the
// backend verifies. Claims only shape the session's username and expiry.
func (s *JWT) sessionFromToken(token string) (sess domainauth.Session, err error) {
	claims := gojwt.MapClaims{}
	if _, _, err := s.parser.ParseUnverified(token, claims); err != nil {
		return sess, apperrors.Wrap(err, apperrors.ErrCodeSessionDecode, "parse bearer token")
	}

	username, _ := claims["sub"].(string)
	sess = s.deps.newSession(s.Type(), username)
	sess.AuthHeader = "Bearer " + token

	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
		// Never outlive the token itself.
		if sess.ExpiresAt.IsZero() || exp.Time.Before(sess.ExpiresAt) {
			sess.ExpiresAt = exp.Time
		}
		if !exp.Time.After(time.Now()) {
			return sess, apperrors.SessionDecode("bearer token already expired")
		}
	}
	return sess, nil
}
