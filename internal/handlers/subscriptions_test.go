package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

func toggleSubscription(t *testing.T, handler *SubscriptionHandler, subscriberID, channelID string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/"+channelID+"/toggle", nil)
	req.SetPathValue("channelId", channelID)
	req = asIdentity(req, models.User{ID: subscriberID})
	rec := httptest.NewRecorder()
	handler.Toggle(rec, req)
	return rec
}

func TestSubscriptionToggleRoundTrip(t *testing.T) {
	users := newFakeUserStore()
	users.users["channel"] = models.User{ID: "channel", Username: "channel"}
	subs := newFakeSubscriptionStore()
	handler := NewSubscriptionHandler(subs, users)

	rec := toggleSubscription(t, handler, "u1", "channel")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	if envelope["data"].(map[string]any)["subscribed"] != true {
		t.Fatal("expected subscribed=true after first toggle")
	}

	rec = toggleSubscription(t, handler, "u1", "channel")
	envelope = decodeEnvelope(t, rec)
	if envelope["data"].(map[string]any)["subscribed"] != false {
		t.Fatal("expected subscribed=false after second toggle")
	}
	if len(subs.subs) != 0 {
		t.Fatalf("expected no stored subscriptions after round trip, got %d", len(subs.subs))
	}
}

func TestSubscriptionToggleChannelDeletedDuringToggle(t *testing.T) {
	users := newFakeUserStore()
	users.users["channel"] = models.User{ID: "channel", Username: "channel"}
	subs := newFakeSubscriptionStore()
	subs.toggleErr = repositories.ErrNotFound
	handler := NewSubscriptionHandler(subs, users)

	rec := toggleSubscription(t, handler, "u1", "channel")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when channel vanishes mid-toggle, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSubscriptionSelfSubscribeRejected(t *testing.T) {
	users := newFakeUserStore()
	users.users["u1"] = models.User{ID: "u1"}
	handler := NewSubscriptionHandler(newFakeSubscriptionStore(), users)

	rec := toggleSubscription(t, handler, "u1", "u1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self subscription, got %d", rec.Code)
	}
}

func TestSubscriptionToggleMissingChannel(t *testing.T) {
	handler := NewSubscriptionHandler(newFakeSubscriptionStore(), newFakeUserStore())

	rec := toggleSubscription(t, handler, "u1", "ghost")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSubscriptionListSubscribersAndChannels(t *testing.T) {
	users := newFakeUserStore()
	users.users["channel"] = models.User{ID: "channel"}
	users.users["u1"] = models.User{ID: "u1"}
	subs := newFakeSubscriptionStore()
	subs.subs[subKey{subscriber: "u1", channel: "channel"}] = true
	subs.subs[subKey{subscriber: "u2", channel: "channel"}] = true
	handler := NewSubscriptionHandler(subs, users)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/channel/subscribers", nil)
	req.SetPathValue("channelId", "channel")
	rec := httptest.NewRecorder()

	handler.ListSubscribers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	subscribers := envelope["data"].(map[string]any)["subscribers"].([]any)
	if len(subscribers) != 2 {
		t.Fatalf("expected 2 subscribers, got %d", len(subscribers))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/u1/channels", nil)
	req.SetPathValue("subscriberId", "u1")
	rec = httptest.NewRecorder()

	handler.ListChannels(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	envelope = decodeEnvelope(t, rec)
	channels := envelope["data"].(map[string]any)["channels"].([]any)
	if len(channels) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(channels))
	}
}
