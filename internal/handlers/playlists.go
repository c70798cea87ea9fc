package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperror"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
)

// PlaylistHandler serves playlist management.
type PlaylistHandler struct {
	Playlists PlaylistStore
	Videos    VideoStore
}

// NewPlaylistHandler constructs a PlaylistHandler backed by the given stores.
func NewPlaylistHandler(playlists PlaylistStore, videos VideoStore) *PlaylistHandler {
	return &PlaylistHandler{Playlists: playlists, Videos: videos}
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create makes a new, empty playlist for the authenticated user. Names are
// unique per owner.
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be valid JSON"))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(ctx, w, apperror.Validation("name is required"))
		return
	}

	now := time.Now().UTC()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     identity.UserID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Playlists.Create(ctx, playlist); err != nil {
		respondError(ctx, w, repoError(err, "playlist"))
		return
	}

	respondJSON(ctx, w, http.StatusCreated, playlist, "playlist created successfully")
}

// ListForUser returns all playlists owned by a user.
func (h *PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("userId")

	playlists, err := h.Playlists.ListForOwner(ctx, userID)
	if err != nil {
		respondError(ctx, w, repoError(err, "user"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"playlists": playlists}, "playlists fetched successfully")
}

// Get returns a playlist with its videos in order.
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := r.PathValue("playlistId")

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		respondError(ctx, w, repoError(err, "playlist"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, playlist, "playlist fetched successfully")
}

// Update renames a playlist owned by the caller.
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	playlistID := r.PathValue("playlistId")

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be valid JSON"))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(ctx, w, apperror.Validation("name is required"))
		return
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		respondError(ctx, w, repoError(err, "playlist"))
		return
	}
	if playlist.OwnerID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("only the owner may update this playlist"))
		return
	}

	updated, err := h.Playlists.Update(ctx, playlistID, name, strings.TrimSpace(req.Description))
	if err != nil {
		respondError(ctx, w, repoError(err, "playlist"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, updated, "playlist updated successfully")
}

// Delete removes a playlist owned by the caller. Videos themselves are
// untouched.
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	playlistID := r.PathValue("playlistId")

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		respondError(ctx, w, repoError(err, "playlist"))
		return
	}
	if playlist.OwnerID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("only the owner may delete this playlist"))
		return
	}

	if err := h.Playlists.Delete(ctx, playlistID); err != nil {
		respondError(ctx, w, repoError(err, "playlist"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "playlist deleted successfully")
}

// AddVideo appends a video to a playlist owned by the caller.
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	h.mutateVideos(w, r, h.Playlists.AddVideo, "video added to playlist successfully")
}

// RemoveVideo detaches a video from a playlist owned by the caller.
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	h.mutateVideos(w, r, h.Playlists.RemoveVideo, "video removed from playlist successfully")
}

func (h *PlaylistHandler) mutateVideos(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, playlistID, videoID string) error,
	message string,
) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	playlistID := r.PathValue("playlistId")
	videoID := r.PathValue("videoId")

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		respondError(ctx, w, repoError(err, "playlist"))
		return
	}
	if playlist.OwnerID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("only the owner may modify this playlist"))
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, repoError(err, "video"))
		return
	}

	if err := op(ctx, playlistID, videoID); err != nil {
		respondError(ctx, w, repoError(err, "playlist entry"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, message)
}
