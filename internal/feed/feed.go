// Package feed builds the end-user video feed.
package feed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/anagmk/Reel/internal/models"
)

// Source lists active videos and batch-loads their questions.
type Source interface {
	ListActive(ctx context.Context) ([]models.Video, error)
	ListQuestionsByVideoIDs(ctx context.Context, ids []uuid.UUID) ([]models.Question, error)
}

// FeedQuestion is the question as shown in the feed.
type FeedQuestion struct {
	ID           uuid.UUID       `json:"id"`
	QuestionText string          `json:"questionText"`
	Options      []models.Option `json:"options"`
	ShowAt       models.ShowAt   `json:"showAt"`
}

// FeedVideo is one feed entry. Question is null when the video has none.
type FeedVideo struct {
	ID       uuid.UUID     `json:"id"`
	Title    string        `json:"title"`
	VideoURL string        `json:"videoUrl"`
	Order    int           `json:"order"`
	IsActive bool          `json:"isActive"`
	Question *FeedQuestion `json:"question"`
}

// Composer assembles the feed.
type Composer struct {
	source Source
}

// NewComposer creates a feed composer.
func NewComposer(source Source) *Composer {
	return &Composer{source: source}
}

// Compose returns active videos in feed order, each with its question
// attached. Questions are fetched in a single batch.
func (c *Composer) Compose(ctx context.Context) ([]FeedVideo, error) {
	videos, err := c.source.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active videos: %w", err)
	}
	feed := make([]FeedVideo, 0, len(videos))
	if len(videos) == 0 {
		return feed, nil
	}

	ids := make([]uuid.UUID, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	questions, err := c.source.ListQuestionsByVideoIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	byVideo := make(map[uuid.UUID]*FeedQuestion, len(questions))
	for i := range questions {
		q := &questions[i]
		byVideo[q.VideoID] = &FeedQuestion{ID: q.ID, QuestionText: q.QuestionText, Options: q.Options, ShowAt: q.ShowAt}
	}

	for _, v := range videos {
		feed = append(feed, FeedVideo{
			ID:       v.ID,
			Title:    v.Title,
			VideoURL: v.FilePath,
			Order:    v.Order,
			IsActive: v.IsActive,
			Question: byVideo[v.ID],
		})
	}
	return feed, nil
}
