package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperror"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// VideoHandler serves video publishing, listing, and lifecycle management.
type VideoHandler struct {
	Videos VideoStore
	Media  MediaService
}

// NewVideoHandler constructs a VideoHandler backed by the given collaborators.
func NewVideoHandler(videos VideoStore, mediaSvc MediaService) *VideoHandler {
	return &VideoHandler{Videos: videos, Media: mediaSvc}
}

type videoListResponse struct {
	Videos      []models.Video `json:"videos"`
	TotalVideos int64          `json:"totalVideos"`
	TotalPages  int64          `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// List returns published videos filtered by query and owner, ordered by an
// allow-listed sort field.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	sortBy := q.Get("sortBy")
	if sortBy == "" {
		sortBy = "createdAt"
	}
	if _, ok := repositories.VideoSortColumns[sortBy]; !ok {
		respondError(ctx, w, apperror.Validation(fmt.Sprintf("invalid value %q for sortBy", sortBy)))
		return
	}
	sortType := q.Get("sortType")
	if sortType != "" && sortType != "asc" && sortType != "desc" {
		respondError(ctx, w, apperror.Validation(fmt.Sprintf("invalid value %q for sortType", sortType)))
		return
	}

	page, limit := pagination(r)
	params := repositories.ListVideosParams{
		OwnerID:  q.Get("userId"),
		Query:    q.Get("query"),
		SortBy:   sortBy,
		SortDesc: sortType != "asc",
		Page:     page,
		Limit:    limit,
	}

	videos, total, err := h.Videos.List(ctx, params)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, videoListResponse{
		Videos:      videos,
		TotalVideos: total,
		TotalPages:  int64(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, "videos fetched successfully")
}

// Publish ingests an uploaded video and its thumbnail, probing the video for
// its duration before anything is written to the object store.
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be multipart form data"))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" {
		respondError(ctx, w, apperror.Validation("title is required"))
		return
	}

	videoStaged, err := h.Media.Stage(r.MultipartForm, "videoFile")
	if err != nil {
		if errors.Is(err, media.ErrNoFile) {
			respondError(ctx, w, apperror.Validation("videoFile is required"))
			return
		}
		respondError(ctx, w, err)
		return
	}
	defer h.Media.Cleanup(videoStaged)

	thumbStaged, err := h.Media.Stage(r.MultipartForm, "thumbnail")
	if err != nil {
		if errors.Is(err, media.ErrNoFile) {
			respondError(ctx, w, apperror.Validation("thumbnail is required"))
			return
		}
		respondError(ctx, w, err)
		return
	}
	defer h.Media.Cleanup(thumbStaged)

	videoURL, duration, err := h.Media.CommitVideo(ctx, videoStaged, "videos")
	if err != nil {
		respondError(ctx, w, apperror.Upstream("store video file", err))
		return
	}
	thumbURL, err := h.Media.Commit(ctx, thumbStaged, "thumbnails")
	if err != nil {
		h.Media.DeleteRemote(ctx, videoURL)
		respondError(ctx, w, apperror.Upstream("store thumbnail", err))
		return
	}

	now := time.Now().UTC()
	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      identity.UserID,
		VideoURL:     videoURL,
		ThumbnailURL: thumbURL,
		Title:        title,
		Description:  description,
		Duration:     duration,
		IsPublished:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Videos.Create(ctx, video); err != nil {
		h.Media.DeleteRemote(ctx, videoURL)
		h.Media.DeleteRemote(ctx, thumbURL)
		respondError(ctx, w, repoError(err, "video"))
		return
	}

	respondJSON(ctx, w, http.StatusCreated, video, "video published successfully")
}

// Get returns a single video and records a view for the authenticated viewer.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := r.PathValue("videoId")

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondError(ctx, w, repoError(err, "video"))
		return
	}

	if identity, ok := middleware.IdentityFromContext(ctx); ok {
		if err := h.Videos.RecordView(ctx, videoID, identity.UserID); err != nil {
			respondError(ctx, w, err)
			return
		}
		video.Views++
	}

	respondJSON(ctx, w, http.StatusOK, video, "video fetched successfully")
}

type updateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Update changes the title, description, and optionally the thumbnail of a
// video owned by the caller. The body is JSON, or multipart when a new
// thumbnail file rides along.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	videoID := r.PathValue("videoId")

	var req updateVideoRequest
	thumbStaged := ""
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			respondError(ctx, w, apperror.Validation("request body must be multipart form data"))
			return
		}
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")

		staged, err := h.Media.Stage(r.MultipartForm, "thumbnail")
		if err != nil && !errors.Is(err, media.ErrNoFile) {
			respondError(ctx, w, err)
			return
		}
		if staged != "" {
			thumbStaged = staged
			defer h.Media.Cleanup(staged)
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be valid JSON"))
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		respondError(ctx, w, apperror.Validation("title is required"))
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondError(ctx, w, repoError(err, "video"))
		return
	}
	if video.OwnerID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("only the owner may update this video"))
		return
	}

	oldThumb := ""
	if thumbStaged != "" {
		thumbURL, err := h.Media.Commit(ctx, thumbStaged, "thumbnails")
		if err != nil {
			respondError(ctx, w, apperror.Upstream("store thumbnail", err))
			return
		}
		oldThumb = video.ThumbnailURL
		video.ThumbnailURL = thumbURL
	}

	video.Title = title
	video.Description = strings.TrimSpace(req.Description)
	if err := h.Videos.Update(ctx, video); err != nil {
		respondError(ctx, w, repoError(err, "video"))
		return
	}

	if oldThumb != "" {
		h.Media.DeleteRemote(ctx, oldThumb)
	}

	respondJSON(ctx, w, http.StatusOK, video, "video updated successfully")
}

// Delete removes a video owned by the caller. Database rows and dependent
// records go first; remote media deletion failures downgrade the result to a
// partial success instead of resurrecting the row.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	videoID := r.PathValue("videoId")

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondError(ctx, w, repoError(err, "video"))
		return
	}
	if video.OwnerID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("only the owner may delete this video"))
		return
	}

	if err := h.Videos.Delete(ctx, videoID); err != nil {
		respondError(ctx, w, repoError(err, "video"))
		return
	}

	var leftovers []string
	if !h.Media.DeleteRemote(ctx, video.VideoURL) {
		leftovers = append(leftovers, "video file")
	}
	if video.ThumbnailURL != "" && !h.Media.DeleteRemote(ctx, video.ThumbnailURL) {
		leftovers = append(leftovers, "thumbnail")
	}
	if len(leftovers) > 0 {
		respondError(ctx, w, apperror.Partial(
			"video deleted, but some media could not be removed",
			strings.Join(leftovers, ", ")+" left in object storage"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "video deleted successfully")
}

// TogglePublish flips the publish flag of a video owned by the caller.
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	videoID := r.PathValue("videoId")

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondError(ctx, w, repoError(err, "video"))
		return
	}
	if video.OwnerID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("only the owner may change publish status"))
		return
	}

	published, err := h.Videos.TogglePublish(ctx, videoID)
	if err != nil {
		respondError(ctx, w, repoError(err, "video"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"isPublished": published}, "publish status toggled successfully")
}
