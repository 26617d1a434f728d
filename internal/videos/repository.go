package videos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/pkg/database"
)

// Repository handles video and question persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a video repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

const videoColumns = `id, title, video_file_path, duration, display_order, is_active, created_at`

func scanVideo(row scanner) (*models.Video, error) {
	var v models.Video
	if err := row.Scan(&v.ID, &v.Title, &v.FilePath, &v.Duration, &v.Order, &v.IsActive, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repository) listVideos(ctx context.Context, q string, args ...interface{}) ([]models.Video, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}

// ListActive returns active videos in feed order. Equal orders fall back to upload order.
func (r *Repository) ListActive(ctx context.Context) ([]models.Video, error) {
	return r.listVideos(ctx, `SELECT `+videoColumns+` FROM videos WHERE is_active
		ORDER BY display_order, created_at, id`)
}

// ListAll returns every video in display order, for dashboards.
func (r *Repository) ListAll(ctx context.Context) ([]models.Video, error) {
	return r.listVideos(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY display_order, created_at, id`)
}

// GetByID returns a video by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	v, err := scanVideo(r.pool.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
	if err != nil {
		return nil, database.MapError(err)
	}
	return v, nil
}

// Create inserts v and fills in its ID and CreatedAt.
func (r *Repository) Create(ctx context.Context, v *models.Video) error {
	const q = `INSERT INTO videos (title, video_file_path, duration, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, v.Title, v.FilePath, v.Duration, v.Order, v.IsActive).Scan(&v.ID, &v.CreatedAt)
	return database.MapError(err)
}

// Update writes title, order and the active flag.
func (r *Repository) Update(ctx context.Context, v *models.Video) error {
	tag, err := r.pool.Exec(ctx, `UPDATE videos SET title = $2, display_order = $3, is_active = $4 WHERE id = $1`,
		v.ID, v.Title, v.Order, v.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes a video. Its question must be deleted first.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

const questionColumns = `id, video_id, question_text, options, show_at, created_at, updated_at`

func scanQuestion(row scanner) (*models.Question, error) {
	var q models.Question
	var raw []byte
	if err := row.Scan(&q.ID, &q.VideoID, &q.QuestionText, &raw, &q.ShowAt, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &q.Options); err != nil {
		return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
	}
	return &q, nil
}

// GetQuestion returns a question by its own ID.
func (r *Repository) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
	if err != nil {
		return nil, database.MapError(err)
	}
	return q, nil
}

// GetQuestionByVideo returns the question attached to a video.
func (r *Repository) GetQuestionByVideo(ctx context.Context, videoID uuid.UUID) (*models.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE video_id = $1`, videoID))
	if err != nil {
		return nil, database.MapError(err)
	}
	return q, nil
}

// ListQuestionsByVideoIDs returns the questions of all given videos in one query.
func (r *Repository) ListQuestionsByVideoIDs(ctx context.Context, ids []uuid.UUID) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	rows, err := r.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions WHERE video_id = ANY($1::uuid[])`, strs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *q)
	}
	return list, rows.Err()
}

// SaveQuestion creates the video's question or replaces it wholesale.
func (r *Repository) SaveQuestion(ctx context.Context, q *models.Question) error {
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	const stmt = `INSERT INTO questions (video_id, question_text, options, show_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (video_id) DO UPDATE SET
			question_text = EXCLUDED.question_text,
			options = EXCLUDED.options,
			show_at = EXCLUDED.show_at,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err = r.pool.QueryRow(ctx, stmt, q.VideoID, q.QuestionText, string(opts), string(q.ShowAt)).
		Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	return database.MapError(err)
}

// DeleteQuestionByVideo removes a video's question, if any.
func (r *Repository) DeleteQuestionByVideo(ctx context.Context, videoID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE video_id = $1`, videoID)
	return err
}
