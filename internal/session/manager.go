// ABOUTME: HTTP cookie plumbing that binds requests to sessions
// ABOUTME: Ensures every request entering the auth engine carries a live session

package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// CookieName is the name of the session cookie
const CookieName = "selectgate_session"

// contextKey is a custom type for context keys to avoid collisions
type contextKey struct{}

// Manager attaches a session to each request via a cookie, minting a new
// session when the request carries none (or a dead one).
type Manager struct {
	server Server
	logger *slog.Logger
}

// NewManager creates a Manager backed by the given session server.
func NewManager(server Server) *Manager {
	return &Manager{
		server: server,
		logger: slog.Default().With("component", "session"),
	}
}

// Middleware resolves or creates the request's session, sets the cookie when
// a new session is minted, and stores the session in the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, created, err := m.resolve(r)
		if err != nil {
			m.logger.Error("failed to create session", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sess.ID(),
				Path:     "/",
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// resolve returns the request's live session, creating one if needed.
// The second return reports whether a new session was minted.
func (m *Manager) resolve(r *http.Request) (Session, bool, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		sess, err := m.server.Get(cookie.Value)
		if err == nil {
			return sess, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, false, err
		}
		// Unknown or expired id: fall through and mint a fresh session
	}

	sess, err := m.server.Create()
	if err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// WithSession returns a new context with the session attached.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext retrieves the session from the context, returning nil if not
// present.
func FromContext(ctx context.Context) Session {
	val := ctx.Value(contextKey{})
	if val == nil {
		return nil
	}
	sess, ok := val.(Session)
	if !ok {
		return nil
	}
	return sess
}
