package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	DefaultCookieName = "signup_session"
	FormField         = "csrf_token"
	csrfKey           = "csrf"
	tokenBytes        = 32
)

var ErrInvalidCSRFToken = errors.New("invalid CSRF token")

// Options configures the session cookie.
type Options struct {
	CookieName string
	Secure     bool
	MaxAge     int // seconds
}

// CSRF keeps a per-browser anti-forgery token in a signed cookie session.
type CSRF struct {
	store *sessions.CookieStore
	name  string
}

// NewCSRF creates a CSRF guard. An empty secret generates a random key, so
// sessions do not survive a restart.
func NewCSRF(secret string, opts Options) *CSRF {
	var key []byte
	if secret == "" {
		key = securecookie.GenerateRandomKey(32)
		slog.Warn("No session secret configured, using a random key")
	} else {
		hash := sha256.Sum256([]byte(secret))
		key = hash[:]
	}

	store := sessions.NewCookieStore(key)
	maxAge := opts.MaxAge
	if maxAge == 0 {
		maxAge = 3600
	}
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	name := opts.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	return &CSRF{store: store, name: name}
}

// Token returns the session token, creating and saving one when the session
// has none yet.
func (c *CSRF) Token(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, err := c.store.Get(r, c.name)
	if err != nil {
		// undecodable cookie, start over with the fresh session Get returned
		slog.Debug("Discarding session cookie", "error", err)
	}
	if token, ok := sess.Values[csrfKey].(string); ok && token != "" {
		return token, nil
	}

	raw := securecookie.GenerateRandomKey(tokenBytes)
	if raw == nil {
		return "", errors.New("failed to generate CSRF token")
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	sess.Values[csrfKey] = token
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return token, nil
}

// Verify checks token against the token stored in the session.
func (c *CSRF) Verify(r *http.Request, token string) error {
	if token == "" {
		return ErrInvalidCSRFToken
	}
	sess, err := c.store.Get(r, c.name)
	if err != nil {
		return ErrInvalidCSRFToken
	}
	stored, _ := sess.Values[csrfKey].(string)
	if stored == "" || !hmac.Equal([]byte(stored), []byte(token)) {
		return ErrInvalidCSRFToken
	}
	return nil
}

// Protect rejects unsafe requests whose csrf_token form value does not match
// the session.
func (c *CSRF) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		if err := c.Verify(r, r.PostFormValue(FormField)); err != nil {
			slog.Warn("Rejected request with invalid CSRF token", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			http.Error(w, "Session expired (invalid CSRF token)", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}
