package models

import (
	"time"

	"github.com/google/uuid"
)

// OptionCount is the fixed number of options on every question.
const OptionCount = 4

// ShowAt controls when the question is revealed during playback.
type ShowAt string

const (
	ShowAtDuring ShowAt = "during"
	ShowAtEnd    ShowAt = "end"
)

// ParseShowAt maps anything other than "during" to ShowAtEnd.
func ParseShowAt(s string) ShowAt {
	if s == string(ShowAtDuring) {
		return ShowAtDuring
	}
	return ShowAtEnd
}

// Option is one answer choice.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is the multiple-choice question attached to a single video.
type Question struct {
	ID           uuid.UUID `json:"id"`
	VideoID      uuid.UUID `json:"videoId"`
	QuestionText string    `json:"questionText"`
	Options      []Option  `json:"options"`
	ShowAt       ShowAt    `json:"showAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CorrectIndex returns the index of the first option flagged correct,
// or -1 when none is.
func (q *Question) CorrectIndex() int {
	for i, o := range q.Options {
		if o.IsCorrect {
			return i
		}
	}
	return -1
}

// BuildOptions pairs option texts with a single correct index. An index
// outside the slice marks no option correct.
func BuildOptions(texts []string, correct int) []Option {
	opts := make([]Option, len(texts))
	for i, t := range texts {
		opts[i] = Option{Text: t, IsCorrect: i == correct}
	}
	return opts
}
