package strategies

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/seclens/dashgate/config"
	apperrors "github.com/seclens/dashgate/internal/errors"
	httpx "github.com/seclens/dashgate/internal/http"
	"github.com/seclens/dashgate/internal/observability/metrics"
	"github.com/seclens/dashgate/internal/ports"
)

// BasicAuth authenticates users with username/password credentials, verified
// by the authorization backend. The session carries the Basic header value so
// each request re-presents the credentials to the backend.
type BasicAuth struct {
	cfg     config.BasicAuthConfig
	deps    Deps
	limiter *ipRateLimiter
}

var _ ports.Strategy = (*BasicAuth)(nil)

// NewBasicAuth constructs the basicauth strategy.
func NewBasicAuth(cfg config.BasicAuthConfig, deps Deps) (*BasicAuth, error) {
	if deps.Backend == nil {
		return nil, apperrors.StartupConfig("basicauth requires an authinfo backend client")
	}
	if deps.Sessions == nil {
		return nil, apperrors.StartupConfig("basicauth requires a session store")
	}
	if cfg.LoginRate <= 0 {
		cfg.LoginRate = 4
	}
	if cfg.LoginBurst <= 0 {
		cfg.LoginBurst = 8
	}
	return &BasicAuth{
		cfg:     cfg,
		deps:    deps,
		limiter: newIPRateLimiter(rate.Limit(cfg.LoginRate), cfg.LoginBurst),
	}, nil
}

// Type returns the strategy type.
func (s *BasicAuth) Type() string { return string(config.AuthTypeBasicAuth) }

// Init registers the login and logout routes.
func (s *BasicAuth) Init(r chi.Router) error {
	r.Post("/api/v1/auth/login", s.handleLogin)
	r.Post("/api/v1/auth/logout", s.handleLogout)
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *BasicAuth) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(clientIP(r)) {
		metrics.ObserveLoginAttempt(s.Type(), "throttled")
		WriteThrottled(w)
		return
	}

	var req loginRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_credentials",
			Err:     errors.New("username and password are required"),
		})
		return
	}
	if s.usernameForbidden(req.Username) {
		metrics.ObserveLoginAttempt(s.Type(), "forbidden")
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "invalid_credentials",
			Err:     errors.New("invalid username or password"),
		})
		return
	}

	// The backend is the verifier; we only relay the credentials.
	authHeader := "Basic " + base64.StdEncoding.EncodeToString([]byte(req.Username+":"+req.Password))
	headers := http.Header{}
	headers.Set("Authorization", authHeader)

	identity, err := s.deps.Backend.AuthInfo(r.Context(), headers)
	if err != nil {
		if apperrors.IsBackendAuth(err) {
			metrics.ObserveLoginAttempt(s.Type(), "rejected")
			httpx.WriteError(w, httpx.ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_credentials",
				Err:     errors.New("invalid username or password"),
			})
			return
		}
		metrics.ObserveLoginAttempt(s.Type(), "error")
		s.deps.logger().ErrorContext(r.Context(), "login backend call failed", "error", err)
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "backend_unavailable",
			Err:     errors.New("authorization backend unavailable"),
		})
		return
	}

	sess := s.deps.newSession(s.Type(), identity.Username)
	sess.AuthHeader = authHeader
	if err := s.deps.Sessions.Write(w, sess); err != nil {
		s.deps.logger().ErrorContext(r.Context(), "write session failed", "error", err)
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "session_write_failed",
			Err:     errors.New("could not establish session"),
		})
		return
	}

	metrics.ObserveLoginAttempt(s.Type(), "success")
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"username":      identity.Username,
		"backend_roles": identity.BackendRoles,
	})
}

func (s *BasicAuth) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.deps.Sessions.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authenticate resolves the caller's session. With HeaderTrumpsSession set, a
// request-supplied Authorization header is forwarded untouched and the
// backend makes the call.
func (s *BasicAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.skipAuthentication(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if s.cfg.HeaderTrumpsSession && r.Header.Get("Authorization") != "" {
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

// AssignAuthHeader copies the session's Basic credentials onto the outbound
// authorization header. A caller-supplied header is never overwritten.
func (s *BasicAuth) AssignAuthHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := httpx.SessionFromContext(r.Context())
		if sess != nil && sess.AuthHeader != "" && r.Header.Get("Authorization") == "" {
			r.Header.Set("Authorization", sess.AuthHeader)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *BasicAuth) usernameForbidden(username string) bool {
	for _, forbidden := range s.cfg.ForbiddenUsernames {
		if strings.EqualFold(forbidden, username) {
			return true
		}
	}
	return false
}

// WriteThrottled writes the standard 429 response for throttled logins.
func WriteThrottled(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	httpx.WriteError(w, httpx.ErrorParams{
		Code:    http.StatusTooManyRequests,
		ErrCode: "too_many_requests",
		Err:     errors.New("too many login attempts"),
	})
}
