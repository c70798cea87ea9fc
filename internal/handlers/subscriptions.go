package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/apperror"
	"github.com/vidtube/backend/internal/middleware"
)

// SubscriptionHandler serves channel subscriptions.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Users         UserStore
}

// NewSubscriptionHandler constructs a SubscriptionHandler backed by the given
// stores.
func NewSubscriptionHandler(subscriptions SubscriptionStore, users UserStore) *SubscriptionHandler {
	return &SubscriptionHandler{Subscriptions: subscriptions, Users: users}
}

// Toggle flips the caller's subscription to a channel. Subscribing to one's
// own channel is rejected.
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	channelID := r.PathValue("channelId")

	if channelID == identity.UserID {
		respondError(ctx, w, apperror.Validation("you cannot subscribe to your own channel"))
		return
	}
	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		respondError(ctx, w, repoError(err, "channel"))
		return
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, identity.UserID, channelID)
	if err != nil {
		respondError(ctx, w, repoError(err, "channel"))
		return
	}

	message := "unsubscribed successfully"
	if subscribed {
		message = "subscribed successfully"
	}
	respondJSON(ctx, w, http.StatusOK, map[string]bool{"subscribed": subscribed}, message)
}

// ListSubscribers returns the users subscribed to a channel.
func (h *SubscriptionHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	channelID := r.PathValue("channelId")

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		respondError(ctx, w, repoError(err, "channel"))
		return
	}

	subscribers, err := h.Subscriptions.ListSubscribers(ctx, channelID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"subscribers": subscribers}, "subscribers fetched successfully")
}

// ListChannels returns the channels a user is subscribed to.
func (h *SubscriptionHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subscriberID := r.PathValue("subscriberId")

	if _, err := h.Users.FindByID(ctx, subscriberID); err != nil {
		respondError(ctx, w, repoError(err, "user"))
		return
	}

	channels, err := h.Subscriptions.ListChannels(ctx, subscriberID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"channels": channels}, "subscribed channels fetched successfully")
}
