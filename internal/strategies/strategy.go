package strategies

// Package strategies contains the concrete authentication strategies.
// Exactly one is constructed per process; each owns its login/logout flow and
// is the only writer of the session store.

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/seclens/dashgate/internal/domain/auth"
	httpx "github.com/seclens/dashgate/internal/http"
	"github.com/seclens/dashgate/internal/ports"
)

// Deps groups the collaborators every strategy shares.
type Deps struct {
	Backend  ports.AuthInfoClient
	Sessions ports.SessionStore
	Logger   *slog.Logger

	// SessionTTL is the validity window stamped into new sessions.
	// Zero means browser-session lifetime.
	SessionTTL time.Duration

	// Keepalive slides the expiry forward on each authenticated request.
	Keepalive bool

	// AnonymousAuth marks sessions established without credentials.
	AnonymousAuth bool

	// UnauthenticatedRoutes are path prefixes the authentication phase skips.
	UnauthenticatedRoutes []string
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// skipAuthentication reports whether the path is exempt from authentication.
func (d Deps) skipAuthentication(path string) bool {
	for _, route := range d.UnauthenticatedRoutes {
		if route != "" && strings.HasPrefix(path, route) {
			return true
		}
	}
	return false
}

// newSession stamps a fresh session for the given strategy and username.
func (d Deps) newSession(authType, username string) domainauth.Session {
	now := time.Now()
	sess := domainauth.Session{
		ID:              uuid.NewString(),
		Username:        username,
		IsAnonymousAuth: d.AnonymousAuth,
		AuthType:        authType,
		IssuedAt:        now,
	}
	if d.SessionTTL > 0 {
		sess.ExpiresAt = now.Add(d.SessionTTL)
	}
	return sess
}

// establish attaches the session to the request context and, when keepalive
// is enabled, slides the expiry window forward on the response.
func (d Deps) establish(w http.ResponseWriter, r *http.Request, sess domainauth.Session) *http.Request {
	if d.Keepalive && d.SessionTTL > 0 && !sess.ExpiresAt.IsZero() {
		refreshed := sess
		refreshed.ExpiresAt = time.Now().Add(d.SessionTTL)
		if err := d.Sessions.Write(w, refreshed); err != nil {
			d.logger().Warn("session keepalive refresh failed", "error", err)
		} else {
			sess = refreshed
		}
	}
	return r.WithContext(httpx.SetSessionInContext(r.Context(), &sess))
}

// acceptsHTML reports whether the request looks like a browser navigation,
// used to decide between a redirect and a JSON 401.
func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
