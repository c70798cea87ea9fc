package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Likes         LikeStore
	Playlists     PlaylistStore
	Subscriptions SubscriptionStore
	Stats         StatsStore
	Tokens        TokenManager
	Media         MediaService
	Verifier      middleware.AccessVerifier

	// AuthLimiter guards credential endpoints. Nil disables limiting.
	AuthLimiter RateLimiter
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	users := NewUserHandler(deps.Users, deps.Tokens, deps.Media)
	videos := NewVideoHandler(deps.Videos, deps.Media)
	comments := NewCommentHandler(deps.Comments, deps.Videos)
	tweets := NewTweetHandler(deps.Tweets, deps.Users)
	likes := NewLikeHandler(deps.Likes, deps.Videos, deps.Comments, deps.Tweets)
	playlists := NewPlaylistHandler(deps.Playlists, deps.Videos)
	subscriptions := NewSubscriptionHandler(deps.Subscriptions, deps.Users)
	dashboard := NewDashboardHandler(deps.Stats, deps.Videos)

	authed := middleware.RequireAuth(deps.Verifier)
	limited := func(scope string, next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !allowRequest(deps.AuthLimiter, r, scope) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"status":429,"message":"too many requests"}`))
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET /healthz", health.Handle)

	// Users and authentication.
	mux.HandleFunc("POST /api/v1/users/register", limited("register", users.Register))
	mux.HandleFunc("POST /api/v1/users/login", limited("login", users.Login))
	mux.HandleFunc("POST /api/v1/users/refresh-tokens", limited("refresh", users.RefreshTokens))
	mux.Handle("POST /api/v1/users/logout", authed(http.HandlerFunc(users.Logout)))
	mux.Handle("POST /api/v1/users/change-password", authed(http.HandlerFunc(users.ChangePassword)))
	mux.Handle("GET /api/v1/users/current-user", authed(http.HandlerFunc(users.CurrentUser)))
	mux.Handle("PATCH /api/v1/users/update-details", authed(http.HandlerFunc(users.UpdateDetails)))
	mux.Handle("PATCH /api/v1/users/change-avatar", authed(http.HandlerFunc(users.ChangeAvatar)))
	mux.Handle("PATCH /api/v1/users/change-cover-image", authed(http.HandlerFunc(users.ChangeCoverImage)))
	mux.Handle("GET /api/v1/users/c/{username}", authed(http.HandlerFunc(users.ChannelProfile)))
	mux.Handle("GET /api/v1/users/watch-history", authed(http.HandlerFunc(users.WatchHistory)))

	// Videos.
	mux.Handle("GET /api/v1/videos", authed(http.HandlerFunc(videos.List)))
	mux.Handle("POST /api/v1/videos/publish", authed(http.HandlerFunc(videos.Publish)))
	mux.Handle("GET /api/v1/videos/{videoId}", authed(http.HandlerFunc(videos.Get)))
	mux.Handle("PATCH /api/v1/videos/{videoId}", authed(http.HandlerFunc(videos.Update)))
	mux.Handle("DELETE /api/v1/videos/{videoId}", authed(http.HandlerFunc(videos.Delete)))
	mux.Handle("PATCH /api/v1/videos/{videoId}/toggle-publish", authed(http.HandlerFunc(videos.TogglePublish)))

	// Comments.
	mux.Handle("GET /api/v1/videos/{videoId}/comments", authed(http.HandlerFunc(comments.ListForVideo)))
	mux.Handle("POST /api/v1/videos/{videoId}/comments", authed(http.HandlerFunc(comments.Create)))
	mux.Handle("PATCH /api/v1/comments/{commentId}", authed(http.HandlerFunc(comments.Update)))
	mux.Handle("DELETE /api/v1/comments/{commentId}", authed(http.HandlerFunc(comments.Delete)))

	// Likes.
	mux.Handle("POST /api/v1/likes/video/{videoId}", authed(http.HandlerFunc(likes.ToggleVideo)))
	mux.Handle("POST /api/v1/likes/comment/{commentId}", authed(http.HandlerFunc(likes.ToggleComment)))
	mux.Handle("POST /api/v1/likes/tweet/{tweetId}", authed(http.HandlerFunc(likes.ToggleTweet)))
	mux.Handle("GET /api/v1/likes/videos", authed(http.HandlerFunc(likes.ListLikedVideos)))

	// Playlists.
	mux.Handle("POST /api/v1/playlists", authed(http.HandlerFunc(playlists.Create)))
	mux.Handle("GET /api/v1/playlists/user/{userId}", authed(http.HandlerFunc(playlists.ListForUser)))
	mux.Handle("GET /api/v1/playlists/{playlistId}", authed(http.HandlerFunc(playlists.Get)))
	mux.Handle("PATCH /api/v1/playlists/{playlistId}", authed(http.HandlerFunc(playlists.Update)))
	mux.Handle("DELETE /api/v1/playlists/{playlistId}", authed(http.HandlerFunc(playlists.Delete)))
	mux.Handle("POST /api/v1/playlists/{playlistId}/videos/{videoId}", authed(http.HandlerFunc(playlists.AddVideo)))
	mux.Handle("DELETE /api/v1/playlists/{playlistId}/videos/{videoId}", authed(http.HandlerFunc(playlists.RemoveVideo)))

	// Subscriptions.
	mux.Handle("POST /api/v1/subscriptions/{channelId}/toggle", authed(http.HandlerFunc(subscriptions.Toggle)))
	mux.HandleFunc("GET /api/v1/subscriptions/{channelId}/subscribers", subscriptions.ListSubscribers)
	mux.HandleFunc("GET /api/v1/subscriptions/{subscriberId}/channels", subscriptions.ListChannels)

	// Tweets.
	mux.Handle("POST /api/v1/tweets", authed(http.HandlerFunc(tweets.Create)))
	mux.Handle("GET /api/v1/tweets/user/{username}", authed(http.HandlerFunc(tweets.ListForUser)))
	mux.Handle("PATCH /api/v1/tweets/{tweetId}", authed(http.HandlerFunc(tweets.Update)))
	mux.Handle("DELETE /api/v1/tweets/{tweetId}", authed(http.HandlerFunc(tweets.Delete)))

	// Dashboard.
	mux.Handle("GET /api/v1/dashboard/{channelId}/stats", authed(http.HandlerFunc(dashboard.ChannelStats)))
	mux.Handle("GET /api/v1/dashboard/{channelId}/videos", authed(http.HandlerFunc(dashboard.ChannelVideos)))
}
