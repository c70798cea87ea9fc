package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

var likeTargetColumns = map[models.LikeTarget]string{
	models.LikeTargetVideo:   "video_id",
	models.LikeTargetComment: "comment_id",
	models.LikeTargetTweet:   "tweet_id",
}

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Toggle deletes an existing like or inserts a new one. The partial unique
// indexes on (liker, target) make the insert race-safe: a concurrent toggle
// that wins the insert leaves this one a no-op, never a duplicate.
func (r *PostgresLikeRepository) Toggle(ctx context.Context, likerID string, target models.LikeTarget, targetID string) (bool, error) {
	column, ok := likeTargetColumns[target]
	if !ok {
		return false, fmt.Errorf("toggle like: unsupported target %q", target)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	// column comes from the fixed map above, never caller input.
	tag, err := conn.Exec(ctx, fmt.Sprintf(`
        DELETE FROM likes
        WHERE liker_id = $1 AND %s = $2
    `, column), likerID, targetID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	tag, err = conn.Exec(ctx, fmt.Sprintf(`
        INSERT INTO likes (id, liker_id, %s, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT DO NOTHING
    `, column), uuid.NewString(), likerID, targetID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("insert like: %w", err)
	}

	// Zero rows affected means a concurrent toggle inserted first; the
	// target is liked either way.
	return true, nil
}

// ListLikedVideos returns the videos a user has liked, most recent like first.
func (r *PostgresLikeRepository) ListLikedVideos(ctx context.Context, likerID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.video_url, v.thumbnail_url, v.title, v.description,
               v.duration_seconds, v.views, v.is_published, v.created_at, v.updated_at,
               u.username, u.fullname, u.avatar_url
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        JOIN users u ON u.id = v.owner_id
        WHERE l.liker_id = $1 AND l.video_id IS NOT NULL
        ORDER BY l.created_at DESC
    `, likerID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	videos, err := collectVideosWithOwner(rows)
	if err != nil {
		return nil, fmt.Errorf("liked videos: %w", err)
	}
	return videos, nil
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)
