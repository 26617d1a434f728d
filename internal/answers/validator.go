// Package answers grades submitted answers and records each user's first
// answer per question.
package answers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anagmk/Reel/internal/models"
)

// ErrInvalid is returned for a malformed submission.
var ErrInvalid = errors.New("invalid submission")

// Outcome says what happened to the submission's response record.
type Outcome int

const (
	// OutcomeNotRecorded: the caller is not a logged-in end user.
	OutcomeNotRecorded Outcome = iota
	// OutcomeRecorded: this was the user's first answer and it was stored.
	OutcomeRecorded
	// OutcomeAlreadyAnswered: an earlier answer exists; nothing was stored.
	OutcomeAlreadyAnswered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRecorded:
		return "recorded"
	case OutcomeAlreadyAnswered:
		return "already_answered"
	default:
		return "not_recorded"
	}
}

// QuestionFinder loads a question by ID.
type QuestionFinder interface {
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error)
}

// Recorder stores a response at most once per (user, video, question).
type Recorder interface {
	Record(ctx context.Context, r *models.Response) (bool, error)
}

// Submission is one answer attempt.
type Submission struct {
	QuestionID     string
	VideoID        string
	SelectedOption *int
	UserID         *uuid.UUID // nil for anonymous callers
}

// Result is the graded submission.
type Result struct {
	IsCorrect     bool
	CorrectAnswer int
	Outcome       Outcome
}

// Validator grades and records answers.
type Validator struct {
	questions QuestionFinder
	responses Recorder
	logger    *zap.Logger
}

// NewValidator creates an answer validator.
func NewValidator(questions QuestionFinder, responses Recorder, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{questions: questions, responses: responses, logger: logger}
}

// Submit grades s against the question's first correct option. Missing
// fields, out-of-range options and a videoId naming another video wrap
// ErrInvalid; an unknown or
// unparsable question ID returns models.ErrNotFound.
func (v *Validator) Submit(ctx context.Context, s Submission) (*Result, error) {
	if s.QuestionID == "" || s.SelectedOption == nil {
		return nil, fmt.Errorf("%w: questionId and selectedOption are required", ErrInvalid)
	}
	selected := *s.SelectedOption
	if selected < 0 || selected >= models.OptionCount {
		return nil, fmt.Errorf("%w: selectedOption must be between 0 and 3", ErrInvalid)
	}
	qid, err := uuid.Parse(s.QuestionID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	var videoID uuid.UUID
	if s.VideoID != "" {
		if videoID, err = uuid.Parse(s.VideoID); err != nil {
			return nil, fmt.Errorf("%w: videoId is malformed", ErrInvalid)
		}
	}

	q, err := v.questions.GetQuestion(ctx, qid)
	if err != nil {
		return nil, err
	}
	// The uniqueness key includes the video, so a foreign videoId would
	// open a fresh attempt at the same question.
	if videoID != uuid.Nil && videoID != q.VideoID {
		return nil, fmt.Errorf("%w: videoId does not match the question", ErrInvalid)
	}
	correct := q.CorrectIndex()
	res := &Result{IsCorrect: selected == correct, CorrectAnswer: correct, Outcome: OutcomeNotRecorded}
	if s.UserID == nil {
		return res, nil
	}

	inserted, err := v.responses.Record(ctx, &models.Response{
		UserID:         *s.UserID,
		VideoID:        q.VideoID,
		QuestionID:     q.ID,
		SelectedOption: selected,
		IsCorrect:      res.IsCorrect,
	})
	if err != nil {
		return nil, fmt.Errorf("record response: %w", err)
	}
	if inserted {
		res.Outcome = OutcomeRecorded
	} else {
		res.Outcome = OutcomeAlreadyAnswered
	}
	v.logger.Debug("answer submitted",
		zap.String("question_id", q.ID.String()),
		zap.String("user_id", s.UserID.String()),
		zap.Stringer("outcome", res.Outcome),
	)
	return res, nil
}
