package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperror"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
)

// CommentHandler serves comment listing and lifecycle management.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
}

// NewCommentHandler constructs a CommentHandler backed by the given stores.
func NewCommentHandler(comments CommentStore, videos VideoStore) *CommentHandler {
	return &CommentHandler{Comments: comments, Videos: videos}
}

// ListForVideo returns a page of comments on a video, newest first.
func (h *CommentHandler) ListForVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := r.PathValue("videoId")

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, repoError(err, "video"))
		return
	}

	page, limit := pagination(r)
	comments, err := h.Comments.ListForVideo(ctx, videoID, page, limit)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"comments": comments}, "comments fetched successfully")
}

type commentRequest struct {
	Content string `json:"content"`
}

// Create adds a comment to a video.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	videoID := r.PathValue("videoId")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be valid JSON"))
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, apperror.Validation("content is required"))
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, repoError(err, "video"))
		return
	}

	now := time.Now().UTC()
	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		OwnerID:   identity.UserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Comments.Create(ctx, comment); err != nil {
		respondError(ctx, w, repoError(err, "comment"))
		return
	}

	respondJSON(ctx, w, http.StatusCreated, comment, "comment added successfully")
}

// Update rewrites the content of a comment owned by the caller.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	commentID := r.PathValue("commentId")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be valid JSON"))
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, apperror.Validation("content is required"))
		return
	}

	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		respondError(ctx, w, repoError(err, "comment"))
		return
	}
	if comment.OwnerID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("only the owner may update this comment"))
		return
	}

	updated, err := h.Comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		respondError(ctx, w, repoError(err, "comment"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, updated, "comment updated successfully")
}

// Delete removes a comment owned by the caller.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	commentID := r.PathValue("commentId")

	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		respondError(ctx, w, repoError(err, "comment"))
		return
	}
	if comment.OwnerID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("only the owner may delete this comment"))
		return
	}

	if err := h.Comments.Delete(ctx, commentID); err != nil {
		respondError(ctx, w, repoError(err, "comment"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "comment deleted successfully")
}
