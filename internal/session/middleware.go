package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const contextKey = "batmodule.session"

// storeTimeout bounds every store round-trip so a dead Redis degrades a
// request to "no session" instead of hanging it.
const storeTimeout = 2 * time.Second

// FromContext returns the session attached by the Manager middleware,
// or nil when none could be established.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}

// Manager resolves or creates a session per request and persists it
// after the handler ran.
type Manager struct {
	store  Store
	secret []byte
	log    *slog.Logger
	cookie CookieOptions
}

func NewManager(store Store, secret string, log *slog.Logger, secureCookies bool) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		log:    log,
		cookie: CookieOptions{
			Secure:   secureCookies,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Middleware attaches a session to the request. A fresh session is only
// persisted once a handler writes to it; loaded sessions are re-saved on
// every request so their expiry window slides forward.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.resolve(c)
		if sess != nil {
			// Cookies must go out before the handler writes the body,
			// so they are issued here (loaded sessions) or on first
			// write (fresh ones). Store persistence waits until after
			// the handler.
			signed := SignValue(m.secret, sess.ID)
			if sess.fresh {
				sess.onFirstWrite = func() { SetCookie(c.Writer, signed, m.cookie) }
			} else {
				SetCookie(c.Writer, signed, m.cookie)
			}
			sess.onDestroy = func() { ClearCookie(c.Writer, m.cookie) }

			c.Set(contextKey, sess)
		}

		c.Next()

		m.persist(sess)
	}
}

func (m *Manager) resolve(c *gin.Context) *Session {
	if cookie, err := c.Request.Cookie(CookieName); err == nil && cookie.Value != "" {
		if sessionID, ok := ParseSignedValue(m.secret, cookie.Value); ok {
			ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
			sess, err := m.store.Get(ctx, sessionID)
			cancel()

			if err != nil {
				// Fail closed: a broken store means no session, not a hang.
				m.log.Warn("session lookup failed", "error", err)
			} else if sess != nil {
				return sess
			}
		}
	}

	sess, err := New()
	if err != nil {
		m.log.Error("session id generation failed", "error", err)
		return nil
	}
	return sess
}

func (m *Manager) persist(sess *Session) {
	if sess == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if sess.destroyed {
		if err := m.store.Delete(ctx, sess.ID); err != nil {
			m.log.Warn("session delete failed", "error", err)
		}
		return
	}

	// Uninitialized sessions are never saved; their cookie hook never
	// fired either.
	if sess.fresh && !sess.dirty {
		return
	}

	if err := m.store.Save(ctx, sess); err != nil {
		m.log.Warn("session save failed", "error", err)
	}
}

// RequireSession rejects requests without an authenticated session.
// A session whose user id is zero counts as unauthenticated.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := FromContext(c)
		if sess == nil || !sess.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Session requise",
				"message": "Vous devez être connecté pour accéder à cette ressource",
			})
			return
		}
		c.Next()
	}
}
