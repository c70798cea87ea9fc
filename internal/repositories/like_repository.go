package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// LikeRepository defines the data access contract for likes.
type LikeRepository interface {
	// Toggle removes the like if present, otherwise creates it, and reports
	// whether the target is liked afterwards. The operation is atomic with
	// respect to concurrent toggles on the same (liker, target) pair.
	Toggle(ctx context.Context, likerID string, target models.LikeTarget, targetID string) (bool, error)
	ListLikedVideos(ctx context.Context, likerID string) ([]models.Video, error)
}
