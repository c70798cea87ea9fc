package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// VideoSort names the allow-listed sortable fields for video listings.
var VideoSortColumns = map[string]string{
	"createdAt": "created_at",
	"duration":  "duration_seconds",
	"views":     "views",
}

// ListVideosParams narrows and orders a public video listing.
type ListVideosParams struct {
	OwnerID  string
	Query    string
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}

// VideoRepository defines the data access contract for videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	List(ctx context.Context, params ListVideosParams) ([]models.Video, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	Update(ctx context.Context, video models.Video) error
	TogglePublish(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	RecordView(ctx context.Context, videoID, viewerID string) error
}
