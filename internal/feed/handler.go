package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anagmk/Reel/pkg/response"
)

// Handler serves the feed as JSON.
type Handler struct {
	composer *Composer
	logger   *zap.Logger
}

// NewHandler creates a feed handler.
func NewHandler(composer *Composer, logger *zap.Logger) *Handler {
	return &Handler{composer: composer, logger: logger}
}

// Videos handles GET /user/videos.
func (h *Handler) Videos(c *gin.Context) {
	feed, err := h.composer.Compose(c.Request.Context())
	if err != nil {
		h.logger.Error("compose feed", zap.Error(err))
		response.Internal(c, "Internal Server Error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": feed})
}
