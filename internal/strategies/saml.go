package strategies

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seclens/dashgate/config"
	apperrors "github.com/seclens/dashgate/internal/errors"
	httpx "github.com/seclens/dashgate/internal/http"
	"github.com/seclens/dashgate/internal/observability/metrics"
	"github.com/seclens/dashgate/internal/ports"
)

const samlRequestIDCookie = "dashgate_saml_request_id"

// SAML authenticates through a backend-brokered SAML handshake: the backend
// produces the IdP redirect and validates the returned assertion, minting an
// authorization token the session carries afterwards.
type SAML struct {
	cfg    config.SAMLConfig
	deps   Deps
	broker ports.SAMLBroker
}

var _ ports.Strategy = (*SAML)(nil)

// NewSAML constructs the saml strategy.
func NewSAML(cfg config.SAMLConfig, broker ports.SAMLBroker, deps Deps) (*SAML, error) {
	if broker == nil {
		return nil, apperrors.StartupConfig("saml requires a backend with SAML brokerage support")
	}
	if deps.Backend == nil {
		return nil, apperrors.StartupConfig("saml requires an authinfo backend client")
	}
	if deps.Sessions == nil {
		return nil, apperrors.StartupConfig("saml requires a session store")
	}
	if cfg.Header == "" {
		cfg.Header = "Authorization"
	}
	return &SAML{cfg: cfg, broker: broker, deps: deps}, nil
}

// Type returns the strategy type.
func (s *SAML) Type() string { return string(config.AuthTypeSAML) }

// Init registers the login, assertion consumer, and logout routes.
func (s *SAML) Init(r chi.Router) error {
	r.Get("/auth/saml/login", s.handleLogin)
	r.Post("/auth/saml/acs", s.handleACS)
	r.Post("/api/v1/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		s.deps.Sessions.Clear(w)
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return nil
}

func (s *SAML) handleLogin(w http.ResponseWriter, r *http.Request) {
	location, requestID, err := s.broker.SAMLAuthRequest(r.Context())
	if err != nil {
		s.deps.logger().ErrorContext(r.Context(), "saml auth request failed", "error", err)
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "saml_init_failed",
			Err:     errors.New("could not initiate SAML flow"),
		})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     samlRequestIDCookie,
		Value:    requestID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oidcFlowTTL.Seconds()),
	})
	http.Redirect(w, r, location, http.StatusFound)
}

func (s *SAML) handleACS(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_form",
			Err:     err,
		})
		return
	}
	samlResponse := r.PostFormValue("SAMLResponse")
	if samlResponse == "" {
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_saml_response",
			Err:     errors.New("SAMLResponse form value is required"),
		})
		return
	}

	var requestID string
	if c, err := r.Cookie(samlRequestIDCookie); err == nil {
		requestID = c.Value
	}

	token, err := s.broker.SAMLAuthToken(r.Context(), requestID, samlResponse)
	if err != nil {
		if apperrors.IsBackendAuth(err) {
			metrics.ObserveLoginAttempt(s.Type(), "rejected")
			httpx.WriteError(w, httpx.ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "saml_rejected",
				Err:     errors.New("SAML assertion rejected"),
			})
			return
		}
		metrics.ObserveLoginAttempt(s.Type(), "error")
		s.deps.logger().ErrorContext(r.Context(), "saml token exchange failed", "error", err)
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "saml_exchange_failed",
			Err:     errors.New("could not complete SAML flow"),
		})
		return
	}

	// Resolve the username behind the freshly minted token.
	headers := http.Header{}
	headers.Set(s.cfg.Header, token)
	identity, err := s.deps.Backend.AuthInfo(r.Context(), headers)
	if err != nil {
		metrics.ObserveLoginAttempt(s.Type(), "error")
		s.deps.logger().ErrorContext(r.Context(), "post-SAML authinfo failed", "error", err)
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "backend_unavailable",
			Err:     errors.New("authorization backend unavailable"),
		})
		return
	}

	sess := s.deps.newSession(s.Type(), identity.Username)
	sess.AuthHeader = token
	if err := s.deps.Sessions.Write(w, sess); err != nil {
		s.deps.logger().ErrorContext(r.Context(), "write session failed", "error", err)
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "session_write_failed",
			Err:     errors.New("could not establish session"),
		})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: samlRequestIDCookie, Value: "", Path: "/", MaxAge: -1})

	metrics.ObserveLoginAttempt(s.Type(), "success")
	http.Redirect(w, r, "/", http.StatusFound)
}

// Authenticate resolves the caller's session.
func (s *SAML) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.skipAuthentication(r.URL.Path) {
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

// AssignAuthHeader copies the session's authorization token onto the
// configured outbound header.
func (s *SAML) AssignAuthHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := httpx.SessionFromContext(r.Context())
		if sess != nil && sess.AuthHeader != "" && r.Header.Get(s.cfg.Header) == "" {
			r.Header.Set(s.cfg.Header, sess.AuthHeader)
		}
		next.ServeHTTP(w, r)
	})
}
