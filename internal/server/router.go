// Package server assembles the HTTP router.
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anagmk/Reel/internal/accounts"
	"github.com/anagmk/Reel/internal/answers"
	"github.com/anagmk/Reel/internal/dashboard"
	"github.com/anagmk/Reel/internal/feed"
	"github.com/anagmk/Reel/internal/middleware"
	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/internal/session"
	"github.com/anagmk/Reel/internal/videos"
	"github.com/anagmk/Reel/internal/web"
	"github.com/anagmk/Reel/pkg/password"
	"github.com/anagmk/Reel/pkg/response"
	"github.com/anagmk/Reel/pkg/storage"
)

// SessionManager loads, saves and destroys request sessions.
type SessionManager interface {
	middleware.SessionLoader
	accounts.Sessions
}

// ContentStore is the video and question persistence, *videos.Repository in production.
type ContentStore interface {
	videos.Store
	feed.Source
	dashboard.VideoLister
	answers.QuestionFinder
}

// Deps are the collaborators the router wires together.
type Deps struct {
	Logger      *zap.Logger
	CORSOrigins string
	Sessions    SessionManager
	Accounts    accounts.Store
	Content     ContentStore
	Responses   answers.Recorder
	Stats       dashboard.StatsSource
	Hasher      *password.Hasher
	Media       storage.MediaStore
	Purge       videos.PurgeQueue // optional
	MaxFileSize int64

	// StaticDir is served read-only under StaticPrefix when set.
	StaticDir    string
	StaticPrefix string
}

// New builds the router with every route registered.
func New(d Deps) (*gin.Engine, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	accountHandler := accounts.NewHandler(d.Accounts, d.Hasher, d.Sessions, d.Logger)
	feedHandler := feed.NewHandler(feed.NewComposer(d.Content), d.Logger)
	answerHandler := answers.NewHandler(answers.NewValidator(d.Content, d.Responses, d.Logger), d.Logger)
	dashboardHandler := dashboard.NewHandler(d.Accounts, d.Content, d.Stats, d.Logger)
	adminVideos := videos.NewHandler(d.Content, d.Media, d.Purge, d.MaxFileSize, videos.AdminNamespace, d.Logger)
	uploaderVideos := videos.NewHandler(d.Content, d.Media, d.Purge, d.MaxFileSize, videos.UploaderNamespace, d.Logger)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(d.Logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	if d.StaticDir != "" && d.StaticPrefix != "" {
		router.Static(d.StaticPrefix, d.StaticDir)
	}

	app := router.Group("")
	app.Use(middleware.Session(d.Sessions))
	app.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, middleware.UserLoginPath) })

	user := app.Group("/user")
	{
		guest := user.Group("", middleware.RejectIfUser())
		guest.GET("/login", accountHandler.UserLoginPage)
		guest.POST("/login", accountHandler.UserLogin)
		guest.GET("/register", accountHandler.UserRegisterPage)
		guest.POST("/register", accountHandler.UserRegister)

		member := user.Group("", middleware.RequireUser())
		member.GET("/home", accountHandler.UserHome)
		member.GET("/logout", accountHandler.UserLogout)
		member.GET("/videos", feedHandler.Videos)
		member.POST("/submit-answer", answerHandler.Submit)
	}

	admin := app.Group("/admin")
	{
		admin.GET("/login", noCache, accountHandler.AdminLoginPage)
		admin.POST("/login", noCache, accountHandler.AdminLogin)
		admin.GET("/logout", noCache, accountHandler.AdminLogout)

		bootstrap := admin.Group("", accountHandler.RequireBootstrapOrDeveloper())
		bootstrap.GET("/register", accountHandler.AdminRegisterPage)
		bootstrap.POST("/register", accountHandler.AdminRegister)

		anyAdmin := admin.Group("", middleware.RequireAdminSession())
		anyAdmin.GET("/dashboard", dashboardHandler.Admin)
		anyAdmin.GET("/stats", dashboardHandler.Stats)
		anyAdmin.GET("/user/edit/:id", accountHandler.EditUserPage)
		anyAdmin.POST("/user/edit/:id", accountHandler.EditUser)
		anyAdmin.GET("/user/delete/:id", accountHandler.DeleteUser)

		dev := admin.Group("", middleware.RequireRole(models.RoleDeveloper))
		dev.GET("/developer", dashboardHandler.Developer)
		registerVideoRoutes(dev, adminVideos)
	}

	uploader := app.Group("/uploader")
	{
		uploader.GET("/login", noCache, accountHandler.UploaderLoginPage)
		uploader.POST("/login", noCache, accountHandler.UploaderLogin)
		uploader.GET("/logout", noCache, accountHandler.UploaderLogout)

		up := uploader.Group("", middleware.RequireRole(models.RoleUploader))
		up.GET("/dashboard", dashboardHandler.Uploader)
		registerVideoRoutes(up, uploaderVideos)
	}

	return router, nil
}

func noCache(c *gin.Context) {
	middleware.NoCache(c)
	c.Next()
}

func registerVideoRoutes(g *gin.RouterGroup, h *videos.Handler) {
	g.GET("/upload-video", h.UploadPage)
	g.POST("/upload-video", h.Upload)
	g.GET("/video/edit/:id", h.EditPage)
	g.POST("/video/edit/:id", h.Edit)
	g.GET("/video/delete/:id", h.Delete)
}

// compile-time check that the production session manager fits.
var _ SessionManager = (*session.Manager)(nil)
