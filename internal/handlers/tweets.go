package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperror"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
)

// maxTweetLength bounds tweet content in runes.
const maxTweetLength = 280

// TweetHandler serves short text posts.
type TweetHandler struct {
	Tweets TweetStore
	Users  UserStore
}

// NewTweetHandler constructs a TweetHandler backed by the given stores.
func NewTweetHandler(tweets TweetStore, users UserStore) *TweetHandler {
	return &TweetHandler{Tweets: tweets, Users: users}
}

type tweetRequest struct {
	Content string `json:"content"`
}

func validateTweetContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", apperror.Validation("content is required")
	}
	if utf8.RuneCountInString(content) > maxTweetLength {
		return "", apperror.Validation("content must be at most 280 characters")
	}
	return content, nil
}

// Create posts a new tweet for the authenticated user.
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be valid JSON"))
		return
	}
	content, err := validateTweetContent(req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	now := time.Now().UTC()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   identity.UserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Tweets.Create(ctx, tweet); err != nil {
		respondError(ctx, w, repoError(err, "tweet"))
		return
	}

	respondJSON(ctx, w, http.StatusCreated, tweet, "tweet created successfully")
}

// ListForUser returns a page of a user's tweets, newest first.
func (h *TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := strings.ToLower(strings.TrimSpace(r.PathValue("username")))
	user, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		respondError(ctx, w, repoError(err, "user"))
		return
	}

	page, limit := pagination(r)
	tweets, err := h.Tweets.ListForOwner(ctx, user.ID, page, limit)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"tweets": tweets}, "tweets fetched successfully")
}

// Update rewrites the content of a tweet owned by the caller.
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	tweetID := r.PathValue("tweetId")

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be valid JSON"))
		return
	}
	content, err := validateTweetContent(req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		respondError(ctx, w, repoError(err, "tweet"))
		return
	}
	if tweet.OwnerID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("only the owner may update this tweet"))
		return
	}

	updated, err := h.Tweets.UpdateContent(ctx, tweetID, content)
	if err != nil {
		respondError(ctx, w, repoError(err, "tweet"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, updated, "tweet updated successfully")
}

// Delete removes a tweet owned by the caller.
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	tweetID := r.PathValue("tweetId")

	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		respondError(ctx, w, repoError(err, "tweet"))
		return
	}
	if tweet.OwnerID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("only the owner may delete this tweet"))
		return
	}

	if err := h.Tweets.Delete(ctx, tweetID); err != nil {
		respondError(ctx, w, repoError(err, "tweet"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "tweet deleted successfully")
}
