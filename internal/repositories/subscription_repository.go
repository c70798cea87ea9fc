package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// SubscriptionRepository defines the data access contract for subscriptions.
type SubscriptionRepository interface {
	// Toggle unsubscribes if a subscription exists, otherwise subscribes,
	// and reports whether the subscriber follows the channel afterwards.
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string) ([]models.PublicUser, error)
	ListChannels(ctx context.Context, subscriberID string) ([]models.PublicUser, error)
}

// StatsRepository computes live channel aggregates for the dashboard.
type StatsRepository interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
}
