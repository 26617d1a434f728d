// Package session keeps per-browser login state on the server and
// identifies it with a signed cookie.
package session

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anagmk/Reel/internal/models"
)

// ContextKey is the gin context key under which the request's session is stored.
const ContextKey = "session"

// Principal is an authenticated account as seen by a session.
type Principal struct {
	AccountID uuid.UUID   `json:"account_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
}

// Session is the server-side record behind a session cookie. The end-user
// and admin logins are independent and may coexist.
type Session struct {
	ID        string     `json:"id"`
	User      *Principal `json:"user,omitempty"`
	Admin     *Principal `json:"admin,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsUser reports whether an end user is logged in.
func (s *Session) IsUser() bool { return s != nil && s.User != nil }

// IsAdmin reports whether an admin (uploader or developer) is logged in.
func (s *Session) IsAdmin() bool { return s != nil && s.Admin != nil }

// AdminRole returns the logged-in admin's role, or "" when there is none.
func (s *Session) AdminRole() models.Role {
	if !s.IsAdmin() {
		return ""
	}
	return s.Admin.Role
}

// FromContext returns the request's session. It never returns nil; an
// anonymous request gets an empty, unsaved session.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(ContextKey); ok {
		if s, ok := v.(*Session); ok && s != nil {
			return s
		}
	}
	s := &Session{}
	c.Set(ContextKey, s)
	return s
}
