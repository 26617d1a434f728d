package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager ties the cookie, the signer and the store together.
type Manager struct {
	store      Store
	signer     *Signer
	cookieName string
	ttl        time.Duration
	secure     bool
	logger     *zap.Logger
}

// Options configures a Manager.
type Options struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	Secure     bool
}

// NewManager creates a session manager.
func NewManager(store Store, opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CookieName == "" {
		opts.CookieName = "reel.sid"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Manager{
		store:      store,
		signer:     NewSigner(opts.Secret, opts.TTL),
		cookieName: opts.CookieName,
		ttl:        opts.TTL,
		secure:     opts.Secure,
		logger:     logger,
	}
}

// Load returns the session named by the request cookie, or an empty
// session when the cookie is missing, forged, expired or unknown.
func (m *Manager) Load(c *gin.Context) *Session {
	raw, err := c.Cookie(m.cookieName)
	if err != nil || raw == "" {
		return &Session{}
	}
	id, err := m.signer.Verify(raw)
	if err != nil {
		return &Session{}
	}
	s, err := m.store.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.Warn("load session", zap.Error(err))
		}
		return &Session{}
	}
	return s
}

// Save persists s, assigning an id on first save, and (re)sets the cookie.
func (m *Manager) Save(c *gin.Context, s *Session) error {
	now := time.Now()
	if s.ID == "" {
		s.ID = uuid.NewString()
		s.CreatedAt = now
	}
	if err := m.store.Save(c.Request.Context(), s, m.ttl); err != nil {
		return err
	}
	token, err := m.signer.Sign(s.ID, now)
	if err != nil {
		return err
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(ContextKey, s)
	return nil
}

// Regenerate drops the server record behind s and returns a copy of its
// principals without an id, so the next Save issues a fresh id and cookie.
// Login must regenerate so an id known before authentication never
// becomes an authenticated one.
func (m *Manager) Regenerate(c *gin.Context, s *Session) *Session {
	fresh := &Session{}
	if s == nil {
		c.Set(ContextKey, fresh)
		return fresh
	}
	fresh.User, fresh.Admin = s.User, s.Admin
	if s.ID != "" {
		if err := m.store.Delete(c.Request.Context(), s.ID); err != nil {
			m.logger.Warn("drop pre-login session", zap.Error(err))
		}
	}
	c.Set(ContextKey, fresh)
	return fresh
}

// Destroy deletes the server record and clears the cookie.
func (m *Manager) Destroy(c *gin.Context, s *Session) error {
	var err error
	if s != nil && s.ID != "" {
		err = m.store.Delete(c.Request.Context(), s.ID)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(ContextKey, &Session{})
	return err
}
