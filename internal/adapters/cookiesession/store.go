package cookiesession

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/seclens/dashgate/config"
	domainauth "github.com/seclens/dashgate/internal/domain/auth"
)

// Store is the encrypted, signed, TTL-bounded session cookie store.
// It implements ports.SessionStore.
//
// The gate and handlers trust the username inside the payload, so the payload
// is sealed with authenticated encryption; a forged or corrupted cookie reads
// as "no session", never as an error.
type Store struct {
	name   string
	codec  *Codec
	ttl    time.Duration
	secure bool
	logger *slog.Logger
}

// NewStore configures the session cookie store. Weak passwords produce a
// startup warning rather than a failure to preserve operability during
// migration.
func NewStore(cfg config.CookieConfig, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Password == config.DefaultCookiePassword {
		logger.Warn("default cookie password detected, set COOKIE_PASSWORD (min. 32 characters)")
	} else if len(cfg.Password) < config.MinCookiePasswordLen {
		logger.Warn("cookie password shorter than recommended minimum",
			"length", len(cfg.Password),
			"minimum", config.MinCookiePasswordLen)
	}
	if !cfg.Secure {
		logger.Warn("COOKIE_SECURE is false, session cookies are transmitted over plain HTTP")
	}
	return &Store{
		name:   cfg.Name,
		codec:  NewCodec(cfg.Password, "authentication"),
		ttl:    cfg.TTL,
		secure: cfg.Secure,
		logger: logger,
	}
}

// Read returns the session carried by the request, if any. Missing cookies,
// decode failures, and expired sessions all report ok=false.
func (s *Store) Read(r *http.Request) (domainauth.Session, bool) {
	cookie, err := r.Cookie(s.name)
	if err != nil || cookie.Value == "" {
		return domainauth.Session{}, false
	}

	var sess domainauth.Session
	if err := s.codec.Open(cookie.Value, &sess); err != nil {
		// Forged or corrupted cookie. Fail closed, don't surface.
		s.logger.Debug("session cookie rejected", "error", err)
		return domainauth.Session{}, false
	}

	if sess.IsExpired(time.Now()) {
		return domainauth.Session{}, false
	}
	return sess, true
}

// IsAuthenticated reports whether the request carries a readable session
// with a resolved username.
func (s *Store) IsAuthenticated(r *http.Request) bool {
	sess, ok := s.Read(r)
	return ok && sess.Username != ""
}

// Write replaces the session cookie on the response.
func (s *Store) Write(w http.ResponseWriter, sess domainauth.Session) error {
	value, err := s.codec.Seal(sess)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	// TTL zero means the cookie is dropped when the browser terminates.
	if s.ttl > 0 {
		cookie.MaxAge = int(s.ttl.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// Clear removes the session cookie. Clearing an absent session is a no-op:
// the response simply instructs the browser to drop a cookie it may or may
// not hold.
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
