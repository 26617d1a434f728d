// Package accounts handles registration, login and logout for end users,
// uploaders and developers, and admin management of end-user accounts.
package accounts

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anagmk/Reel/internal/middleware"
	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/internal/session"
	"github.com/anagmk/Reel/pkg/password"
	"github.com/anagmk/Reel/pkg/response"
)

const (
	adminDashboardPath    = "/admin/dashboard"
	uploaderLoginPath     = "/uploader/login"
	uploaderDashboardPath = "/uploader/dashboard"
)

// Sessions persists, regenerates and destroys request sessions.
type Sessions interface {
	Save(c *gin.Context, s *session.Session) error
	Regenerate(c *gin.Context, s *session.Session) *session.Session
	Destroy(c *gin.Context, s *session.Session) error
}

// Credentials is the login and registration form.
type Credentials struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Role     string `form:"role"`
}

func (f *Credentials) normalize() {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

// Handler serves the account pages.
type Handler struct {
	store    Store
	hasher   *password.Hasher
	sessions Sessions
	logger   *zap.Logger
}

// NewHandler creates an accounts handler.
func NewHandler(store Store, hasher *password.Hasher, sessions Sessions, logger *zap.Logger) *Handler {
	return &Handler{store: store, hasher: hasher, sessions: sessions, logger: logger}
}

func registeredMessage(c *gin.Context, msg string) string {
	if c.Query("success") == "registered" {
		return msg
	}
	return ""
}

func (h *Handler) bindCredentials(c *gin.Context) (Credentials, bool) {
	var f Credentials
	if err := c.ShouldBind(&f); err != nil {
		return f, false
	}
	f.normalize()
	return f, f.Email != "" && f.Password != ""
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	response.InternalText(c)
}

// UserLoginPage handles GET /user/login.
func (h *Handler) UserLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "user/login", gin.H{
		"Message": registeredMessage(c, "User created successfully! Please login."),
	})
}

// UserLogin handles POST /user/login.
func (h *Handler) UserLogin(c *gin.Context) {
	f, ok := h.bindCredentials(c)
	if !ok {
		c.HTML(http.StatusOK, "user/login", gin.H{"Message": "Email and password are required"})
		return
	}
	acct, err := h.store.GetByEmail(c.Request.Context(), f.Email)
	if errors.Is(err, models.ErrNotFound) || (err == nil && acct.Role != models.RoleUser) {
		c.HTML(http.StatusOK, "user/login", gin.H{"Message": "User does not exist"})
		return
	}
	if err != nil {
		h.fail(c, "user login lookup", err)
		return
	}
	if err := h.hasher.Compare(f.Password, acct.Password); err != nil {
		c.HTML(http.StatusOK, "user/login", gin.H{"Message": "Invalid password"})
		return
	}
	s := h.sessions.Regenerate(c, session.FromContext(c))
	s.User = &session.Principal{AccountID: acct.ID, Email: acct.Email, Role: acct.Role}
	if err := h.sessions.Save(c, s); err != nil {
		h.fail(c, "save user session", err)
		return
	}
	c.Redirect(http.StatusFound, middleware.UserHomePath)
}

// UserRegisterPage handles GET /user/register.
func (h *Handler) UserRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "user/register", gin.H{})
}

// UserRegister handles POST /user/register.
func (h *Handler) UserRegister(c *gin.Context) {
	f, ok := h.bindCredentials(c)
	if !ok {
		c.HTML(http.StatusOK, "user/register", gin.H{"Message": "Email and password are required"})
		return
	}
	if _, err := h.create(c, f, models.RoleUser); err != nil {
		if errors.Is(err, models.ErrConflict) {
			c.HTML(http.StatusOK, "user/register", gin.H{"Message": "User already exists"})
			return
		}
		h.fail(c, "register user", err)
		return
	}
	c.Redirect(http.StatusFound, middleware.UserLoginPath+"?success=registered")
}

// create hashes the password and inserts the account. The email check up
// front gives the common case a clean message; the unique index settles races.
func (h *Handler) create(c *gin.Context, f Credentials, role models.Role) (*models.Account, error) {
	ctx := c.Request.Context()
	if _, err := h.store.GetByEmail(ctx, f.Email); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	hash, err := h.hasher.Hash(f.Password)
	if err != nil {
		return nil, err
	}
	return h.store.Create(ctx, f.Email, hash, role)
}

// UserHome handles GET /user/home.
func (h *Handler) UserHome(c *gin.Context) {
	c.HTML(http.StatusOK, "user/home", gin.H{})
}

// UserLogout handles GET /user/logout. Only the end-user login is dropped;
// an admin login in the same browser survives.
func (h *Handler) UserLogout(c *gin.Context) {
	s := session.FromContext(c)
	s.User = nil
	var err error
	if s.IsAdmin() {
		err = h.sessions.Save(c, s)
	} else {
		err = h.sessions.Destroy(c, s)
	}
	if err != nil {
		h.logger.Warn("user logout", zap.Error(err))
	}
	c.Redirect(http.StatusFound, middleware.UserLoginPath)
}

// AdminLoginPage handles GET /admin/login.
func (h *Handler) AdminLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin/login", gin.H{
		"Message": registeredMessage(c, "Admin registered successfully! Please login."),
	})
}

// AdminLogin handles POST /admin/login.
func (h *Handler) AdminLogin(c *gin.Context) {
	h.adminLogin(c, false)
}

// UploaderLoginPage handles GET /uploader/login.
func (h *Handler) UploaderLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin/login", gin.H{
		"Uploader": true,
		"Message":  registeredMessage(c, "Uploader registered successfully! Please login."),
	})
}

// UploaderLogin handles POST /uploader/login.
func (h *Handler) UploaderLogin(c *gin.Context) {
	h.adminLogin(c, true)
}

func (h *Handler) adminLogin(c *gin.Context, uploader bool) {
	render := func(msg string) {
		c.HTML(http.StatusOK, "admin/login", gin.H{"Uploader": uploader, "Message": msg})
	}
	missing := "Admin does not exist"
	if uploader {
		missing = "Account does not exist"
	}

	f, ok := h.bindCredentials(c)
	if !ok {
		render("Email and password are required")
		return
	}
	acct, err := h.store.GetByEmail(c.Request.Context(), f.Email)
	switch {
	case errors.Is(err, models.ErrNotFound):
		render(missing)
		return
	case err != nil:
		h.fail(c, "admin login lookup", err)
		return
	}
	if !uploader && !acct.Role.IsAdmin() {
		render(missing)
		return
	}
	if err := h.hasher.Compare(f.Password, acct.Password); err != nil {
		render("Invalid password")
		return
	}
	if uploader && !acct.Role.Satisfies(models.RoleUploader) {
		render("Not authorized as uploader")
		return
	}

	s := h.sessions.Regenerate(c, session.FromContext(c))
	s.Admin = &session.Principal{AccountID: acct.ID, Email: acct.Email, Role: acct.Role}
	if err := h.sessions.Save(c, s); err != nil {
		h.fail(c, "save admin session", err)
		return
	}
	h.logger.Info("admin login", zap.String("email", acct.Email), zap.String("role", string(acct.Role)))
	if uploader || acct.Role == models.RoleUploader {
		c.Redirect(http.StatusFound, uploaderDashboardPath)
		return
	}
	c.Redirect(http.StatusFound, adminDashboardPath)
}

// RequireBootstrapOrDeveloper leaves admin registration open until the
// first admin account exists, then requires a developer session.
func (h *Handler) RequireBootstrapOrDeveloper() gin.HandlerFunc {
	gate := middleware.RequireRole(models.RoleDeveloper)
	return func(c *gin.Context) {
		n, err := h.store.CountAdmins(c.Request.Context())
		if err != nil {
			h.fail(c, "count admins", err)
			c.Abort()
			return
		}
		if n == 0 {
			middleware.NoCache(c)
			c.Next()
			return
		}
		gate(c)
	}
}

// AdminRegisterPage handles GET /admin/register.
func (h *Handler) AdminRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin/register", gin.H{})
}

// AdminRegister handles POST /admin/register.
func (h *Handler) AdminRegister(c *gin.Context) {
	f, ok := h.bindCredentials(c)
	if !ok {
		c.HTML(http.StatusOK, "admin/register", gin.H{"Message": "Email and password are required"})
		return
	}
	role := models.RoleDeveloper
	if strings.TrimSpace(f.Role) != "" {
		r, known := models.ParseRole(f.Role)
		if !known || !r.IsAdmin() {
			c.HTML(http.StatusOK, "admin/register", gin.H{"Message": "Invalid role"})
			return
		}
		role = r
	}
	if _, err := h.create(c, f, role); err != nil {
		if errors.Is(err, models.ErrConflict) {
			c.HTML(http.StatusOK, "admin/register", gin.H{"Message": "Admin already exists"})
			return
		}
		h.fail(c, "register admin", err)
		return
	}
	if role == models.RoleUploader {
		c.Redirect(http.StatusFound, uploaderLoginPath+"?success=registered")
		return
	}
	c.Redirect(http.StatusFound, middleware.AdminLoginPath+"?success=registered")
}

// AdminLogout handles GET /admin/logout.
func (h *Handler) AdminLogout(c *gin.Context) {
	h.destroy(c, middleware.AdminLoginPath)
}

// UploaderLogout handles GET /uploader/logout.
func (h *Handler) UploaderLogout(c *gin.Context) {
	h.destroy(c, uploaderLoginPath)
}

func (h *Handler) destroy(c *gin.Context, next string) {
	if err := h.sessions.Destroy(c, session.FromContext(c)); err != nil {
		h.fail(c, "destroy session", err)
		return
	}
	c.Redirect(http.StatusFound, next)
}

// EditUserForm is the admin edit form for an end-user account.
type EditUserForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// loadUser resolves :id to an end-user account. Anything else sends the
// admin back to the dashboard.
func (h *Handler) loadUser(c *gin.Context) (*models.Account, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, adminDashboardPath)
		return nil, false
	}
	acct, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) || (err == nil && acct.Role != models.RoleUser) {
		c.Redirect(http.StatusFound, adminDashboardPath)
		return nil, false
	}
	if err != nil {
		h.fail(c, "load user", err)
		return nil, false
	}
	return acct, true
}

// EditUserPage handles GET /admin/user/edit/:id.
func (h *Handler) EditUserPage(c *gin.Context) {
	acct, ok := h.loadUser(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "admin/edit_user", gin.H{"Account": acct.ToPublic()})
}

// EditUser handles POST /admin/user/edit/:id.
func (h *Handler) EditUser(c *gin.Context) {
	acct, ok := h.loadUser(c)
	if !ok {
		return
	}
	var f EditUserForm
	if err := c.ShouldBind(&f); err != nil {
		h.logger.Debug("edit user bind", zap.Error(err))
		c.HTML(http.StatusOK, "admin/edit_user", gin.H{"Account": acct.ToPublic(), "Message": "Invalid form"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(f.Email))
	if email == "" {
		c.HTML(http.StatusOK, "admin/edit_user", gin.H{"Account": acct.ToPublic(), "Message": "Email is required"})
		return
	}
	hash := ""
	if strings.TrimSpace(f.Password) != "" {
		var err error
		if hash, err = h.hasher.Hash(f.Password); err != nil {
			h.fail(c, "hash password", err)
			return
		}
	}
	if err := h.store.Update(c.Request.Context(), acct.ID, email, hash); err != nil {
		if errors.Is(err, models.ErrConflict) {
			c.HTML(http.StatusOK, "admin/edit_user", gin.H{"Account": acct.ToPublic(), "Message": "Email already in use"})
			return
		}
		h.fail(c, "update user", err)
		return
	}
	c.Redirect(http.StatusFound, adminDashboardPath+"?success=updated")
}

// DeleteUser handles GET /admin/user/delete/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	acct, ok := h.loadUser(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), acct.ID); err != nil && !errors.Is(err, models.ErrNotFound) {
		h.fail(c, "delete user", err)
		return
	}
	c.Redirect(http.StatusFound, adminDashboardPath+"?success=deleted")
}
