package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/anagmk/Reel/internal/session"
)

// SessionLoader is implemented by *session.Manager.
type SessionLoader interface {
	Load(c *gin.Context) *session.Session
}

// Session attaches the request's session (possibly empty) to the gin context.
func Session(loader SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(session.ContextKey, loader.Load(c))
		c.Next()
	}
}
