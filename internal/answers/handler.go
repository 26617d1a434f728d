package answers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/internal/session"
	"github.com/anagmk/Reel/pkg/response"
)

// SubmitRequest is the body for POST /user/submit-answer.
type SubmitRequest struct {
	QuestionID     string `json:"questionId"`
	VideoID        string `json:"videoId"`
	SelectedOption *int   `json:"selectedOption"`
}

// SubmitResponse is the graded answer.
type SubmitResponse struct {
	IsCorrect     bool `json:"isCorrect"`
	CorrectAnswer int  `json:"correctAnswer"`
}

// Handler serves answer submission.
type Handler struct {
	validator *Validator
	logger    *zap.Logger
}

// NewHandler creates an answers handler.
func NewHandler(validator *Validator, logger *zap.Logger) *Handler {
	return &Handler{validator: validator, logger: logger}
}

// Submit handles POST /user/submit-answer.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "questionId and selectedOption are required")
		return
	}
	sub := Submission{QuestionID: req.QuestionID, VideoID: req.VideoID, SelectedOption: req.SelectedOption}
	if s := session.FromContext(c); s.IsUser() {
		id := s.User.AccountID
		sub.UserID = &id
	}

	res, err := h.validator.Submit(c.Request.Context(), sub)
	switch {
	case errors.Is(err, ErrInvalid):
		response.BadRequest(c, err.Error())
		return
	case errors.Is(err, models.ErrNotFound):
		response.NotFound(c, "Question not found")
		return
	case err != nil:
		h.logger.Error("submit answer", zap.Error(err))
		response.Internal(c, "Internal Server Error")
		return
	}
	c.JSON(http.StatusOK, SubmitResponse{IsCorrect: res.IsCorrect, CorrectAnswer: res.CorrectAnswer})
}
