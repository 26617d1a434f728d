package models

import (
	"time"

	"github.com/google/uuid"
)

// Response is a user's recorded answer. One per (user, video, question).
type Response struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	VideoID        uuid.UUID `json:"videoId"`
	QuestionID     uuid.UUID `json:"questionId"`
	SelectedOption int       `json:"selectedOption"`
	IsCorrect      bool      `json:"isCorrect"`
	AnsweredAt     time.Time `json:"answeredAt"`
}
