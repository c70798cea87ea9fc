package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
)

// LikeHandler serves like toggles across videos, comments, and tweets.
type LikeHandler struct {
	Likes    LikeStore
	Videos   VideoStore
	Comments CommentStore
	Tweets   TweetStore
}

// NewLikeHandler constructs a LikeHandler backed by the given stores.
func NewLikeHandler(likes LikeStore, videos VideoStore, comments CommentStore, tweets TweetStore) *LikeHandler {
	return &LikeHandler{Likes: likes, Videos: videos, Comments: comments, Tweets: tweets}
}

// ToggleVideo flips the caller's like on a video.
func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := r.PathValue("videoId")

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, repoError(err, "video"))
		return
	}
	h.toggle(w, r, models.LikeTargetVideo, videoID)
}

// ToggleComment flips the caller's like on a comment.
func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	commentID := r.PathValue("commentId")

	if _, err := h.Comments.FindByID(ctx, commentID); err != nil {
		respondError(ctx, w, repoError(err, "comment"))
		return
	}
	h.toggle(w, r, models.LikeTargetComment, commentID)
}

// ToggleTweet flips the caller's like on a tweet.
func (h *LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tweetID := r.PathValue("tweetId")

	if _, err := h.Tweets.FindByID(ctx, tweetID); err != nil {
		respondError(ctx, w, repoError(err, "tweet"))
		return
	}
	h.toggle(w, r, models.LikeTargetTweet, tweetID)
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target models.LikeTarget, targetID string) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	liked, err := h.Likes.Toggle(ctx, identity.UserID, target, targetID)
	if err != nil {
		respondError(ctx, w, repoError(err, string(target)))
		return
	}

	message := "like removed successfully"
	if liked {
		message = "like added successfully"
	}
	respondJSON(ctx, w, http.StatusOK, map[string]bool{"liked": liked}, message)
}

// ListLikedVideos returns all videos the caller has liked.
func (h *LikeHandler) ListLikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	videos, err := h.Likes.ListLikedVideos(ctx, identity.UserID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": videos}, "liked videos fetched successfully")
}
