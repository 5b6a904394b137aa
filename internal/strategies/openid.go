package strategies

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/seclens/dashgate/config"
	apperrors "github.com/seclens/dashgate/internal/errors"
	httpx "github.com/seclens/dashgate/internal/http"
	"github.com/seclens/dashgate/internal/observability/metrics"
	"github.com/seclens/dashgate/internal/ports"
)

const (
	oidcStateCookie = "dashgate_oidc_state"
	oidcNonceCookie = "dashgate_oidc_nonce"
	oidcFlowTTL     = 10 * time.Minute
)

// OpenID authenticates through an OpenID Connect provider. The verified ID
// token becomes the session's bearer credential; the backend re-validates it
// on every request.
type OpenID struct {
	cfg      config.OpenIDConfig
	deps     Deps
	oauth    *oauth2.Config
	verifier *gooidc.IDTokenVerifier
}

var _ ports.Strategy = (*OpenID)(nil)

// NewOpenID constructs the openid strategy. Discovery runs at startup;
// missing required parameters or an unreachable issuer abort initialization.
func NewOpenID(ctx context.Context, cfg config.OpenIDConfig, deps Deps) (*OpenID, error) {
	if cfg.ClientID == "" {
		return nil, apperrors.StartupConfig("missing required parameter openid.client_id")
	}
	if cfg.ConnectURL == "" {
		return nil, apperrors.StartupConfig("missing required parameter openid.connect_url")
	}
	if deps.Sessions == nil {
		return nil, apperrors.StartupConfig("openid requires a session store")
	}

	provider, err := gooidc.NewProvider(ctx, cfg.ConnectURL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStartupConfig, "openid discovery failed")
	}

	return &OpenID{
		cfg:  cfg,
		deps: deps,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  strings.TrimSuffix(cfg.BaseRedirectURL, "/") + "/auth/openid/callback",
			Scopes:       strings.Fields(cfg.Scope),
		},
		verifier: provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// Type returns the strategy type.
func (s *OpenID) Type() string { return string(config.AuthTypeOpenID) }

// Init registers the login, callback, and logout routes.
func (s *OpenID) Init(r chi.Router) error {
	r.Get("/auth/openid/login", s.handleLogin)
	r.Get("/auth/openid/callback", s.handleCallback)
	r.Post("/api/v1/auth/logout", s.handleLogout)
	return nil
}

func (s *OpenID) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	nonce := uuid.NewString()
	s.setFlowCookie(w, oidcStateCookie, state)
	s.setFlowCookie(w, oidcNonceCookie, nonce)
	http.Redirect(w, r, s.oauth.AuthCodeURL(state, gooidc.Nonce(nonce)), http.StatusFound)
}

func (s *OpenID) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oidcStateCookie)
	if code == "" || state == "" || err != nil || stateCookie.Value != state {
		metrics.ObserveLoginAttempt(s.Type(), "rejected")
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing code/state"),
		})
		return
	}

	token, err := s.oauth.Exchange(r.Context(), code)
	if err != nil {
		metrics.ObserveLoginAttempt(s.Type(), "error")
		s.deps.logger().ErrorContext(r.Context(), "openid code exchange failed", "error", err)
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "exchange_failed",
			Err:     errors.New("token exchange failed"),
		})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		metrics.ObserveLoginAttempt(s.Type(), "rejected")
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "missing_id_token",
			Err:     errors.New("provider returned no id_token"),
		})
		return
	}

	idToken, err := s.verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		metrics.ObserveLoginAttempt(s.Type(), "rejected")
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "invalid_id_token",
			Err:     errors.New("id token verification failed"),
		})
		return
	}

	var claims struct {
		Nonce             string `json:"nonce"`
		PreferredUsername string `json:"preferred_username"`
		Email             string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		s.deps.logger().WarnContext(r.Context(), "id token claims unreadable", "error", err)
	}
	if nonceCookie, err := r.Cookie(oidcNonceCookie); err != nil || claims.Nonce != nonceCookie.Value {
		metrics.ObserveLoginAttempt(s.Type(), "rejected")
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "invalid_nonce",
			Err:     errors.New("nonce mismatch"),
		})
		return
	}

	username := claims.PreferredUsername
	if username == "" {
		username = claims.Email
	}
	if username == "" {
		username = idToken.Subject
	}

	sess := s.deps.newSession(s.Type(), username)
	sess.AuthHeader = "Bearer " + rawIDToken
	// Never outlive the ID token.
	if sess.ExpiresAt.IsZero() || idToken.Expiry.Before(sess.ExpiresAt) {
		sess.ExpiresAt = idToken.Expiry
	}
	if err := s.deps.Sessions.Write(w, sess); err != nil {
		s.deps.logger().ErrorContext(r.Context(), "write session failed", "error", err)
		httpx.WriteError(w, httpx.ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "session_write_failed",
			Err:     errors.New("could not establish session"),
		})
		return
	}
	s.clearFlowCookie(w, oidcStateCookie)
	s.clearFlowCookie(w, oidcNonceCookie)

	metrics.ObserveLoginAttempt(s.Type(), "success")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *OpenID) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.deps.Sessions.Clear(w)
	resp := map[string]string{"status": "ok"}
	if s.cfg.LogoutURL != "" {
		resp["redirect_to"] = s.cfg.LogoutURL
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// Authenticate resolves the caller's session.
func (s *OpenID) Authenticate(next http.Handler) http.Handler {
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

// AssignAuthHeader copies the session's bearer token onto the configured
// outbound header.
func (s *OpenID) AssignAuthHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := httpx.SessionFromContext(r.Context())
		if sess != nil && sess.AuthHeader != "" && r.Header.Get(s.cfg.Header) == "" {
			r.Header.Set(s.cfg.Header, sess.AuthHeader)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *OpenID) setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oidcFlowTTL.Seconds()),
	})
}

func (s *OpenID) clearFlowCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
