package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VideoStats is the response tally for one video.
type VideoStats struct {
	VideoID   uuid.UUID `json:"video_id"`
	Title     string    `json:"title"`
	Responses int       `json:"responses"`
	Correct   int       `json:"correct"`
}

// Summary is the JSON shape for GET /admin/stats.
type Summary struct {
	Videos    int          `json:"videos"`
	Questions int          `json:"questions"`
	Responses int          `json:"responses"`
	Users     int          `json:"users"`
	PerVideo  []VideoStats `json:"per_video"`
}

// StatsRepository aggregates counts across the content tables.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a stats repository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// Summary returns table counts and per-video response totals in display order.
func (r *StatsRepository) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	err := r.pool.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM videos),
		(SELECT COUNT(*) FROM questions),
		(SELECT COUNT(*) FROM responses),
		(SELECT COUNT(*) FROM accounts WHERE role = 'user')`).
		Scan(&s.Videos, &s.Questions, &s.Responses, &s.Users)
	if err != nil {
		return nil, fmt.Errorf("count tables: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT v.id, v.title,
		COUNT(r.id), COUNT(r.id) FILTER (WHERE r.is_correct)
		FROM videos v LEFT JOIN responses r ON r.video_id = v.id
		GROUP BY v.id, v.title, v.display_order, v.created_at
		ORDER BY v.display_order, v.created_at, v.id`)
	if err != nil {
		return nil, fmt.Errorf("per-video stats: %w", err)
	}
	defer rows.Close()
	s.PerVideo = []VideoStats{}
	for rows.Next() {
		var vs VideoStats
		if err := rows.Scan(&vs.VideoID, &vs.Title, &vs.Responses, &vs.Correct); err != nil {
			return nil, err
		}
		s.PerVideo = append(s.PerVideo, vs)
	}
	return &s, rows.Err()
}
