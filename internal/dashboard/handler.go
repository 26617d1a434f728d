// Package dashboard renders the admin and uploader dashboards and serves
// content statistics.
package dashboard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/pkg/response"
)

// AccountLister lists accounts of one role.
type AccountLister interface {
	ListByRole(ctx context.Context, role models.Role) ([]models.AccountPublic, error)
}

// VideoLister lists every video in display order.
type VideoLister interface {
	ListAll(ctx context.Context) ([]models.Video, error)
}

// StatsSource computes the stats summary.
type StatsSource interface {
	Summary(ctx context.Context) (*Summary, error)
}

// Handler serves dashboards and stats.
type Handler struct {
	accounts AccountLister
	videos   VideoLister
	stats    StatsSource
	logger   *zap.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(accounts AccountLister, videos VideoLister, stats StatsSource, logger *zap.Logger) *Handler {
	return &Handler{accounts: accounts, videos: videos, stats: stats, logger: logger}
}

var successMessages = map[string]string{
	"deleted": "User deleted successfully",
	"updated": "User updated successfully",
}

// Admin handles GET /admin/dashboard.
func (h *Handler) Admin(c *gin.Context) {
	h.developerPage(c, successMessages[c.Query("success")])
}

// Developer handles GET /admin/developer.
func (h *Handler) Developer(c *gin.Context) {
	h.developerPage(c, "")
}

func (h *Handler) developerPage(c *gin.Context, message string) {
	ctx := c.Request.Context()
	accounts, err := h.accounts.ListByRole(ctx, models.RoleUser)
	if err != nil {
		h.logger.Error("list accounts", zap.Error(err))
		response.InternalText(c)
		return
	}
	videos, err := h.videos.ListAll(ctx)
	if err != nil {
		h.logger.Error("list videos", zap.Error(err))
		response.InternalText(c)
		return
	}
	c.HTML(http.StatusOK, "admin/developer_dashboard", gin.H{
		"Accounts": accounts,
		"Videos":   videos,
		"Message":  message,
		"Prefix":   "/admin",
	})
}

// Uploader handles GET /uploader/dashboard.
func (h *Handler) Uploader(c *gin.Context) {
	videos, err := h.videos.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list videos", zap.Error(err))
		response.InternalText(c)
		return
	}
	c.HTML(http.StatusOK, "admin/uploader_dashboard", gin.H{"Videos": videos, "Prefix": "/uploader"})
}

// Stats handles GET /admin/stats.
func (h *Handler) Stats(c *gin.Context) {
	s, err := h.stats.Summary(c.Request.Context())
	if err != nil {
		h.logger.Error("stats summary", zap.Error(err))
		response.Internal(c, "failed to load stats")
		return
	}
	response.OK(c, s)
}
