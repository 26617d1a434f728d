package answers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anagmk/Reel/internal/models"
)

// Repository handles response persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a response repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts r unless the user already answered this question for this
// video. inserted is false when the unique constraint absorbed the write.
func (r *Repository) Record(ctx context.Context, resp *models.Response) (inserted bool, err error) {
	const q = `INSERT INTO responses (user_id, video_id, question_id, selected_option, is_correct)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, video_id, question_id) DO NOTHING
		RETURNING id, answered_at`
	err = r.pool.QueryRow(ctx, q, resp.UserID, resp.VideoID, resp.QuestionID, resp.SelectedOption, resp.IsCorrect).
		Scan(&resp.ID, &resp.AnsweredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
