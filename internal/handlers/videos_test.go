package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vidtube/backend/internal/models"
)

func TestVideoListRejectsUnknownSortField(t *testing.T) {
	videos := newFakeVideoStore()
	handler := NewVideoHandler(videos, newFakeMediaService())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?sortBy=password", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if videos.listCalls != 0 {
		t.Fatalf("expected no store query for rejected sort field, got %d", videos.listCalls)
	}
}

func TestVideoListReturnsPagination(t *testing.T) {
	videos := newFakeVideoStore()
	videos.videos["v1"] = models.Video{ID: "v1", IsPublished: true}
	videos.videos["v2"] = models.Video{ID: "v2", IsPublished: true}
	videos.videos["v3"] = models.Video{ID: "v3", IsPublished: false}
	handler := NewVideoHandler(videos, newFakeMediaService())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?sortBy=views&limit=1", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	if data["totalVideos"].(float64) != 2 {
		t.Fatalf("expected totalVideos 2, got %v", data["totalVideos"])
	}
	if data["totalPages"].(float64) != 2 {
		t.Fatalf("expected totalPages 2, got %v", data["totalPages"])
	}
	if data["currentPage"].(float64) != 1 {
		t.Fatalf("expected currentPage 1, got %v", data["currentPage"])
	}
}

func publishRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()

	body, contentType := multipartBody(t,
		map[string]string{"title": "My video", "description": "about things"},
		files)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/publish", body)
	req.Header.Set("Content-Type", contentType)
	return asIdentity(req, models.User{ID: "owner-1", Username: "alice"})
}

func TestVideoPublishIngestsBothAssets(t *testing.T) {
	videos := newFakeVideoStore()
	mediaSvc := newFakeMediaService()
	handler := NewVideoHandler(videos, mediaSvc)

	req := publishRequest(t, map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"})
	rec := httptest.NewRecorder()

	handler.Publish(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(videos.videos) != 1 {
		t.Fatalf("expected one stored video, got %d", len(videos.videos))
	}
	var stored models.Video
	for _, v := range videos.videos {
		stored = v
	}
	if stored.OwnerID != "owner-1" {
		t.Fatalf("expected owner-1, got %q", stored.OwnerID)
	}
	if stored.Duration != mediaSvc.duration {
		t.Fatalf("expected probed duration %v, got %v", mediaSvc.duration, stored.Duration)
	}
	if !stored.IsPublished {
		t.Fatal("expected video to be published on upload")
	}
	if left := mediaSvc.leftoverStaged(); len(left) != 0 {
		t.Fatalf("staged files not cleaned up: %v", left)
	}
}

func TestVideoPublishMissingThumbnailLeavesNothingBehind(t *testing.T) {
	videos := newFakeVideoStore()
	mediaSvc := newFakeMediaService()
	handler := NewVideoHandler(videos, mediaSvc)

	req := publishRequest(t, map[string]string{"videoFile": "clip.mp4"})
	rec := httptest.NewRecorder()

	handler.Publish(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(videos.videos) != 0 {
		t.Fatalf("expected no stored video, got %d", len(videos.videos))
	}
	if len(mediaSvc.committed) != 0 {
		t.Fatalf("expected nothing committed to object store, got %v", mediaSvc.committed)
	}
	if left := mediaSvc.leftoverStaged(); len(left) != 0 {
		t.Fatalf("staged files not cleaned up: %v", left)
	}
}

func TestVideoGetRecordsView(t *testing.T) {
	videos := newFakeVideoStore()
	videos.videos["v1"] = models.Video{ID: "v1", OwnerID: "owner-1", IsPublished: true, Views: 3}
	handler := NewVideoHandler(videos, newFakeMediaService())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/v1", nil)
	req.SetPathValue("videoId", "v1")
	req = asIdentity(req, models.User{ID: "viewer-1"})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if videos.views["v1"] != 1 {
		t.Fatalf("expected one recorded view, got %d", videos.views["v1"])
	}
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	if data["views"].(float64) != 4 {
		t.Fatalf("expected views 4 in response, got %v", data["views"])
	}
}

func TestVideoUpdateRequiresOwnership(t *testing.T) {
	videos := newFakeVideoStore()
	videos.videos["v1"] = models.Video{ID: "v1", OwnerID: "owner-1", Title: "Original"}
	handler := NewVideoHandler(videos, newFakeMediaService())

	payload := `{"title":"Hijacked"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/v1", strings.NewReader(payload))
	req.SetPathValue("videoId", "v1")
	req = asIdentity(req, models.User{ID: "intruder"})
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if videos.videos["v1"].Title != "Original" {
		t.Fatalf("title changed despite forbidden update: %q", videos.videos["v1"].Title)
	}
}

func TestVideoUpdateWithNewThumbnail(t *testing.T) {
	videos := newFakeVideoStore()
	videos.videos["v1"] = models.Video{
		ID:           "v1",
		OwnerID:      "owner-1",
		Title:        "Original",
		ThumbnailURL: "https://cdn.test/thumbnails/old.png",
	}
	mediaSvc := newFakeMediaService()
	handler := NewVideoHandler(videos, mediaSvc)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Renamed", "description": "fresh"},
		map[string]string{"thumbnail": "new.png"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/v1", body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("videoId", "v1")
	req = asIdentity(req, models.User{ID: "owner-1"})
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored := videos.videos["v1"]
	if stored.Title != "Renamed" {
		t.Fatalf("title not updated: %q", stored.Title)
	}
	if stored.ThumbnailURL == "https://cdn.test/thumbnails/old.png" {
		t.Fatal("thumbnail URL not replaced")
	}
	var oldDeleted bool
	for _, ref := range mediaSvc.deleted {
		if ref == "https://cdn.test/thumbnails/old.png" {
			oldDeleted = true
		}
	}
	if !oldDeleted {
		t.Fatalf("old thumbnail not removed, deleted: %v", mediaSvc.deleted)
	}
	if left := mediaSvc.leftoverStaged(); len(left) != 0 {
		t.Fatalf("staged files not cleaned up: %v", left)
	}
}

func TestVideoDeleteRemovesRowAndMedia(t *testing.T) {
	videos := newFakeVideoStore()
	videos.videos["v1"] = models.Video{
		ID:           "v1",
		OwnerID:      "owner-1",
		VideoURL:     "https://cdn.test/videos/v1.mp4",
		ThumbnailURL: "https://cdn.test/thumbnails/v1.png",
	}
	mediaSvc := newFakeMediaService()
	handler := NewVideoHandler(videos, mediaSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/videos/v1", nil)
	req.SetPathValue("videoId", "v1")
	req = asIdentity(req, models.User{ID: "owner-1"})
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(videos.videos) != 0 {
		t.Fatalf("expected video row removed, got %d rows", len(videos.videos))
	}
	if len(mediaSvc.deleted) != 2 {
		t.Fatalf("expected both media assets removed, got %v", mediaSvc.deleted)
	}
}

func TestVideoDeleteForbiddenForNonOwner(t *testing.T) {
	videos := newFakeVideoStore()
	videos.videos["v1"] = models.Video{ID: "v1", OwnerID: "owner-1"}
	handler := NewVideoHandler(videos, newFakeMediaService())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/videos/v1", nil)
	req.SetPathValue("videoId", "v1")
	req = asIdentity(req, models.User{ID: "intruder"})
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if _, ok := videos.videos["v1"]; !ok {
		t.Fatal("video removed despite forbidden delete")
	}
}

func TestVideoTogglePublish(t *testing.T) {
	videos := newFakeVideoStore()
	videos.videos["v1"] = models.Video{ID: "v1", OwnerID: "owner-1", IsPublished: true}
	handler := NewVideoHandler(videos, newFakeMediaService())

	toggle := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/v1/toggle-publish", nil)
		req.SetPathValue("videoId", "v1")
		req = asIdentity(req, models.User{ID: "owner-1"})
		rec := httptest.NewRecorder()
		handler.TogglePublish(rec, req)
		return rec
	}

	rec := toggle()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if videos.videos["v1"].IsPublished {
		t.Fatal("expected video unpublished after first toggle")
	}

	rec = toggle()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !videos.videos["v1"].IsPublished {
		t.Fatal("expected video published again after second toggle")
	}
}
