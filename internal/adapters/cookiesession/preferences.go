package cookiesession

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/seclens/dashgate/config"
)

// preferencesTTL is deliberately long: preferences survive logins and
// logouts. The cookie carries no identity, only UI state.
const preferencesTTL = 10 * 365 * 24 * time.Hour

// Preferences is the UI preference payload. Identity decisions never read it.
type Preferences struct {
	Tenant string `json:"tenant,omitempty"`
}

// PreferencesStore is the low-trust cookie store for UI preferences. It is
// scoped independently from the session store: not secure, not http-only,
// long fixed TTL, invalid cookies dropped rather than erroring.
type PreferencesStore struct {
	name   string
	codec  *Codec
	logger *slog.Logger
}

// NewPreferencesStore configures the preference cookie store. The codec uses
// a distinct key purpose, so session cookies and preference cookies can never
// be replayed into each other even though they share one password.
func NewPreferencesStore(cfg config.PreferencesConfig, password string, logger *slog.Logger) *PreferencesStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferencesStore{
		name:   cfg.Name,
		codec:  NewCodec(password, "preferences"),
		logger: logger,
	}
}

// Read returns the request's preferences. Invalid cookies are dropped.
func (s *PreferencesStore) Read(r *http.Request) (Preferences, bool) {
	cookie, err := r.Cookie(s.name)
	if err != nil || cookie.Value == "" {
		return Preferences{}, false
	}
	if !cookieValueValid(cookie.Value) {
		return Preferences{}, false
	}

	var prefs Preferences
	if err := s.codec.Open(cookie.Value, &prefs); err != nil {
		s.logger.Debug("preference cookie rejected", "error", err)
		return Preferences{}, false
	}
	return prefs, true
}

// Write replaces the preference cookie on the response.
func (s *PreferencesStore) Write(w http.ResponseWriter, prefs Preferences) error {
	value, err := s.codec.Seal(prefs)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		HttpOnly: false,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(preferencesTTL.Seconds()),
	})
	return nil
}

// cookieValueValid enforces RFC 6265 cookie-value characters. Violations are
// dropped silently, matching the strict-header contract.
func cookieValueValid(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c < 0x21 || c > 0x7e || c == '"' || c == ',' || c == ';' || c == '\\' {
			return false
		}
	}
	return true
}
