// Package session decodes the signed session cookie once per request and
// carries the caller's identity on the request context.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/logger"
)

// Identity is who is making the current request. The zero value is an
// anonymous caller.
type Identity struct {
	Username string
	Admin    string
}

func (i Identity) LoggedIn() bool { return i.Username != "" }

func (i Identity) IsAdmin() bool { return i.Admin != "" }

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by Manager.Load, or an anonymous
// identity.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}

// DenyFunc writes the response for a request that lacks the required
// identity.
type DenyFunc func(w http.ResponseWriter, r *http.Request, status int)

func defaultDeny(w http.ResponseWriter, _ *http.Request, status int) {
	http.Error(w, http.StatusText(status), status)
}

type Manager struct {
	store  sessions.Store
	logger *logger.Logger
	Deny   DenyFunc
}

func NewManager(secret string, maxAge time.Duration, log *logger.Logger) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{
		store:  store,
		logger: log.WithComponent("session"),
		Deny:   defaultDeny,
	}
}

func (m *Manager) getSession(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, constants.SessionCookieName)
}

// Load decodes the session cookie and stores the Identity on the request
// context. A missing or tampered cookie yields an anonymous identity.
func (m *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id Identity
		sess, err := m.getSession(r)
		if err != nil {
			m.logger.Debug("Ignoring invalid session cookie", "error", err)
		} else {
			id.Username, _ = sess.Values[constants.SessionKeyUser].(string)
			id.Admin, _ = sess.Values[constants.SessionKeyAdmin].(string)
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireUser rejects anonymous callers with 401.
func (m *Manager) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !FromContext(r.Context()).LoggedIn() {
			m.Deny(w, r, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects callers without an admin login with 403.
func (m *Manager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !FromContext(r.Context()).IsAdmin() {
			m.Deny(w, r, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Manager) Login(w http.ResponseWriter, r *http.Request, username string) error {
	return m.set(w, r, constants.SessionKeyUser, username)
}

func (m *Manager) LoginAdmin(w http.ResponseWriter, r *http.Request, username string) error {
	return m.set(w, r, constants.SessionKeyAdmin, username)
}

func (m *Manager) set(w http.ResponseWriter, r *http.Request, key, value string) error {
	sess, err := m.store.New(r, constants.SessionCookieName)
	if err != nil {
		// an undecodable cookie is replaced by the fresh session
		m.logger.Debug("Replacing invalid session cookie", "error", err)
	}
	sess.Values[key] = value
	return sess.Save(r, w)
}

// Logout expires the session cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.store.New(r, constants.SessionCookieName)
	if err != nil {
		m.logger.Debug("Expiring invalid session cookie", "error", err)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
