package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/handlers"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
)

// authRateLimit caps credential endpoints per client IP.
const (
	authRateRequests = 10
	authRateWindow   = time.Minute
	authRateBurst    = 5
	authRateTTL      = 10 * time.Minute
)

// buildDependencies wires repositories, token issuance, and media ingest into
// the handler dependency set.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, error) {
	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	comments := repositories.NewPostgresCommentRepository(pool)
	tweets := repositories.NewPostgresTweetRepository(pool)
	likes := repositories.NewPostgresLikeRepository(pool)
	playlists := repositories.NewPostgresPlaylistRepository(pool)
	subscriptions := repositories.NewPostgresSubscriptionRepository(pool)

	tokens, err := auth.NewTokenService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		users,
	)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure token service: %w", err)
	}

	store, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure object storage: %w", err)
	}

	prober := media.NewFFProbeProvider(cfg.FFProbePath, cfg.FFProbeTimeout)
	stager := media.NewStager(cfg.StagingDir, cfg.MaxUploadBytes)
	ingestor := media.NewIngestor(store, prober, logger)

	return handlers.Dependencies{
		Users:         users,
		Videos:        videos,
		Comments:      comments,
		Tweets:        tweets,
		Likes:         likes,
		Playlists:     playlists,
		Subscriptions: subscriptions,
		Stats:         subscriptions,
		Tokens:        tokens,
		Media:         media.NewManager(stager, ingestor),
		Verifier:      tokens,
		AuthLimiter:   middleware.NewIPRateLimiter(authRateRequests, authRateWindow, authRateBurst, authRateTTL),
	}, nil
}
