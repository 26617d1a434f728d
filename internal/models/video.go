package models

import (
	"time"

	"github.com/google/uuid"
)

// Video is an uploaded clip shown in the feed when active.
type Video struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	FilePath  string    `json:"videoFilePath"`
	Duration  int       `json:"duration"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
