package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/internal/session"
)

const (
	// UserLoginPath is where anonymous end users are sent.
	UserLoginPath = "/user/login"
	// UserHomePath is where logged-in end users are sent away from login forms.
	UserHomePath = "/user/home"
	// AdminLoginPath is where requests without an admin session are sent.
	AdminLoginPath = "/admin/login"
)

// NoCache stops browsers and proxies from storing the response, so the back
// button cannot replay a protected page after logout.
func NoCache(c *gin.Context) {
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
	c.Header("Pragma", "no-cache")
}

// RequireUser admits logged-in end users and redirects everyone else to the user login.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		NoCache(c)
		if !session.FromContext(c).IsUser() {
			c.Redirect(http.StatusFound, UserLoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RejectIfUser keeps logged-in end users off the login and registration forms.
func RejectIfUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		NoCache(c)
		if session.FromContext(c).IsUser() {
			c.Redirect(http.StatusFound, UserHomePath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminSession admits any admin session and redirects everyone else to the admin login.
func RequireAdminSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		NoCache(c)
		if !session.FromContext(c).IsAdmin() {
			c.Redirect(http.StatusFound, AdminLoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole admits admin sessions whose role satisfies role. A missing
// admin session is redirected to login; an admin without the role gets 403.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		NoCache(c)
		s := session.FromContext(c)
		if !s.IsAdmin() {
			c.Redirect(http.StatusFound, AdminLoginPath)
			c.Abort()
			return
		}
		if !s.AdminRole().Satisfies(role) {
			c.String(http.StatusForbidden, "Forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}
