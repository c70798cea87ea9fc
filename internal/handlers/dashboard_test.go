package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vidtube/backend/internal/models"
)

func TestDashboardStatsOwnerOnly(t *testing.T) {
	subs := newFakeSubscriptionStore()
	subs.stats["channel"] = models.ChannelStats{
		TotalSubscribers: 5,
		TotalVideos:      2,
		TotalViews:       100,
		TotalLikes:       9,
	}
	handler := NewDashboardHandler(subs, newFakeVideoStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/channel/stats", nil)
	req.SetPathValue("channelId", "channel")
	req = asIdentity(req, models.User{ID: "channel"})
	rec := httptest.NewRecorder()

	handler.ChannelStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	if data["totalSubscribers"].(float64) != 5 || data["totalLikes"].(float64) != 9 {
		t.Fatalf("unexpected stats payload: %v", data)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/channel/stats", nil)
	req.SetPathValue("channelId", "channel")
	req = asIdentity(req, models.User{ID: "someone-else"})
	rec = httptest.NewRecorder()

	handler.ChannelStats(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", rec.Code)
	}
}

func TestDashboardVideosIncludesUnpublished(t *testing.T) {
	videos := newFakeVideoStore()
	videos.videos["v1"] = models.Video{ID: "v1", OwnerID: "channel", IsPublished: true}
	videos.videos["v2"] = models.Video{ID: "v2", OwnerID: "channel", IsPublished: false}
	videos.videos["v3"] = models.Video{ID: "v3", OwnerID: "other", IsPublished: true}
	handler := NewDashboardHandler(newFakeSubscriptionStore(), videos)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/channel/videos", nil)
	req.SetPathValue("channelId", "channel")
	req = asIdentity(req, models.User{ID: "channel"})
	rec := httptest.NewRecorder()

	handler.ChannelVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	got := envelope["data"].(map[string]any)["videos"].([]any)
	if len(got) != 2 {
		t.Fatalf("expected 2 channel videos, got %d", len(got))
	}
}
