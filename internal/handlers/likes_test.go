package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

func toggleVideoLike(t *testing.T, handler *LikeHandler, userID, videoID string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/video/"+videoID, nil)
	req.SetPathValue("videoId", videoID)
	req = asIdentity(req, models.User{ID: userID})
	rec := httptest.NewRecorder()
	handler.ToggleVideo(rec, req)
	return rec
}

func TestLikeToggleVideoRoundTrip(t *testing.T) {
	videos := newFakeVideoStore()
	videos.videos["v1"] = models.Video{ID: "v1", IsPublished: true}
	likes := newFakeLikeStore()
	handler := NewLikeHandler(likes, videos, newFakeCommentStore(), newFakeTweetStore())

	rec := toggleVideoLike(t, handler, "u1", "v1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	if envelope["data"].(map[string]any)["liked"] != true {
		t.Fatal("expected liked=true after first toggle")
	}

	rec = toggleVideoLike(t, handler, "u1", "v1")
	envelope = decodeEnvelope(t, rec)
	if envelope["data"].(map[string]any)["liked"] != false {
		t.Fatal("expected liked=false after second toggle")
	}
	if len(likes.likes) != 0 {
		t.Fatalf("expected no stored likes after round trip, got %d", len(likes.likes))
	}
}

func TestLikeToggleTargetDeletedDuringToggle(t *testing.T) {
	videos := newFakeVideoStore()
	videos.videos["v1"] = models.Video{ID: "v1", IsPublished: true}
	likes := newFakeLikeStore()
	likes.toggleErr = repositories.ErrNotFound
	handler := NewLikeHandler(likes, videos, newFakeCommentStore(), newFakeTweetStore())

	rec := toggleVideoLike(t, handler, "u1", "v1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when target vanishes mid-toggle, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLikeToggleMissingTarget(t *testing.T) {
	handler := NewLikeHandler(newFakeLikeStore(), newFakeVideoStore(), newFakeCommentStore(), newFakeTweetStore())

	rec := toggleVideoLike(t, handler, "u1", "ghost")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/comment/ghost", nil)
	req.SetPathValue("commentId", "ghost")
	req = asIdentity(req, models.User{ID: "u1"})
	rec = httptest.NewRecorder()
	handler.ToggleComment(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing comment, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/likes/tweet/ghost", nil)
	req.SetPathValue("tweetId", "ghost")
	req = asIdentity(req, models.User{ID: "u1"})
	rec = httptest.NewRecorder()
	handler.ToggleTweet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing tweet, got %d", rec.Code)
	}
}

func TestLikeListLikedVideos(t *testing.T) {
	likes := newFakeLikeStore()
	likes.likedVideos["u1"] = []models.Video{{ID: "v1"}, {ID: "v2"}}
	handler := NewLikeHandler(likes, newFakeVideoStore(), newFakeCommentStore(), newFakeTweetStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos", nil)
	req = asIdentity(req, models.User{ID: "u1"})
	rec := httptest.NewRecorder()

	handler.ListLikedVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	videos := envelope["data"].(map[string]any)["videos"].([]any)
	if len(videos) != 2 {
		t.Fatalf("expected 2 liked videos, got %d", len(videos))
	}
}
