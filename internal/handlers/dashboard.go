package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/apperror"
	"github.com/vidtube/backend/internal/middleware"
)

// DashboardHandler serves channel owner analytics.
type DashboardHandler struct {
	Stats  StatsStore
	Videos VideoStore
}

// NewDashboardHandler constructs a DashboardHandler backed by the given
// stores.
func NewDashboardHandler(stats StatsStore, videos VideoStore) *DashboardHandler {
	return &DashboardHandler{Stats: stats, Videos: videos}
}

// ChannelStats returns live aggregates for the caller's own channel.
func (h *DashboardHandler) ChannelStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	channelID := r.PathValue("channelId")

	if channelID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("dashboard stats are visible to the channel owner only"))
		return
	}

	stats, err := h.Stats.ChannelStats(ctx, channelID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, stats, "channel stats fetched successfully")
}

// ChannelVideos lists every video of the caller's channel, published or not.
func (h *DashboardHandler) ChannelVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)
	channelID := r.PathValue("channelId")

	if channelID != identity.UserID {
		respondError(ctx, w, apperror.Forbidden("dashboard videos are visible to the channel owner only"))
		return
	}

	videos, err := h.Videos.ListByOwner(ctx, channelID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": videos}, "channel videos fetched successfully")
}
