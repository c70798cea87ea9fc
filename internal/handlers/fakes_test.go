package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"time"

	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

type fakeUserStore struct {
	users map[string]models.User

	profiles map[string]models.ChannelProfile
	history  map[string][]models.Video
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:    make(map[string]models.User),
		profiles: make(map[string]models.ChannelProfile),
		history:  make(map[string][]models.Video),
	}
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByLogin(_ context.Context, login string) (models.User, error) {
	for _, user := range f.users {
		if user.Username == login || user.Email == login {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (f *fakeUserStore) UpdateDetails(_ context.Context, id, fullname, email string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	user.Fullname = fullname
	user.Email = email
	f.users[id] = user
	return user, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = passwordHash
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.AvatarURL = avatarURL
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) UpdateCoverImage(_ context.Context, id, coverImageURL string) error {
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.CoverImageURL = coverImageURL
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) ChannelProfile(_ context.Context, username, _ string) (models.ChannelProfile, error) {
	profile, ok := f.profiles[username]
	if !ok {
		return models.ChannelProfile{}, repositories.ErrNotFound
	}
	return profile, nil
}

func (f *fakeUserStore) WatchHistory(_ context.Context, userID string, _, _ int) ([]models.Video, error) {
	return f.history[userID], nil
}

type fakeTokenManager struct {
	issued  int
	revoked []string

	refreshErr error
	user       models.User
}

func (f *fakeTokenManager) Issue(_ context.Context, user models.User) (models.TokenPair, error) {
	f.issued++
	return models.TokenPair{
		AccessToken:      fmt.Sprintf("access-%d", f.issued),
		AccessExpiresAt:  time.Now().Add(15 * time.Minute),
		RefreshToken:     fmt.Sprintf("refresh-%d", f.issued),
		RefreshExpiresAt: time.Now().Add(240 * time.Hour),
	}, nil
}

func (f *fakeTokenManager) Refresh(ctx context.Context, _ string) (models.User, models.TokenPair, error) {
	if f.refreshErr != nil {
		return models.User{}, models.TokenPair{}, f.refreshErr
	}
	pair, _ := f.Issue(ctx, f.user)
	return f.user, pair, nil
}

func (f *fakeTokenManager) Revoke(_ context.Context, userID string) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

// fakeMediaService tracks staged and committed assets so tests can assert
// both successful ingest and cleanup after failures.
type fakeMediaService struct {
	staged    map[string]bool
	cleaned   []string
	committed []string
	deleted   []string

	commitErr map[string]error
	duration  float64
}

func newFakeMediaService() *fakeMediaService {
	return &fakeMediaService{
		staged:    make(map[string]bool),
		commitErr: make(map[string]error),
		duration:  42.5,
	}
}

func (f *fakeMediaService) Stage(form *multipart.Form, field string) (string, error) {
	if form == nil || len(form.File[field]) == 0 {
		return "", media.ErrNoFile
	}
	path := "/staging/" + field
	f.staged[path] = true
	return path, nil
}

func (f *fakeMediaService) Cleanup(path string) error {
	if !f.staged[path] {
		return errors.New("cleanup of unknown staged file " + path)
	}
	f.staged[path] = false
	f.cleaned = append(f.cleaned, path)
	return nil
}

func (f *fakeMediaService) Commit(_ context.Context, stagedPath, keyPrefix string) (string, error) {
	if err := f.commitErr[keyPrefix]; err != nil {
		return "", err
	}
	location := "https://cdn.test/" + keyPrefix + stagedPath
	f.committed = append(f.committed, location)
	return location, nil
}

func (f *fakeMediaService) CommitVideo(ctx context.Context, stagedPath, keyPrefix string) (string, float64, error) {
	location, err := f.Commit(ctx, stagedPath, keyPrefix)
	if err != nil {
		return "", 0, err
	}
	return location, f.duration, nil
}

func (f *fakeMediaService) DeleteRemote(_ context.Context, reference string) bool {
	f.deleted = append(f.deleted, reference)
	return true
}

func (f *fakeMediaService) leftoverStaged() []string {
	var left []string
	for path, live := range f.staged {
		if live {
			left = append(left, path)
		}
	}
	sort.Strings(left)
	return left
}

type fakeVideoStore struct {
	videos map[string]models.Video

	listErr   error
	listCalls int
	views     map[string]int
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{videos: make(map[string]models.Video), views: make(map[string]int)}
}

func (f *fakeVideoStore) Create(_ context.Context, video models.Video) error {
	now := time.Now()
	video.CreatedAt = now
	video.UpdatedAt = now
	f.videos[video.ID] = video
	return nil
}

func (f *fakeVideoStore) FindByID(_ context.Context, id string) (models.Video, error) {
	video, ok := f.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (f *fakeVideoStore) List(_ context.Context, params repositories.ListVideosParams) ([]models.Video, int64, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []models.Video
	for _, video := range f.videos {
		if video.IsPublished {
			out = append(out, video)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeVideoStore) ListByOwner(_ context.Context, ownerID string) ([]models.Video, error) {
	var out []models.Video
	for _, video := range f.videos {
		if video.OwnerID == ownerID {
			out = append(out, video)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeVideoStore) Update(_ context.Context, video models.Video) error {
	if _, ok := f.videos[video.ID]; !ok {
		return repositories.ErrNotFound
	}
	video.UpdatedAt = time.Now()
	f.videos[video.ID] = video
	return nil
}

func (f *fakeVideoStore) TogglePublish(_ context.Context, id string) (bool, error) {
	video, ok := f.videos[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	video.IsPublished = !video.IsPublished
	f.videos[id] = video
	return video.IsPublished, nil
}

func (f *fakeVideoStore) Delete(_ context.Context, id string) error {
	if _, ok := f.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.videos, id)
	return nil
}

func (f *fakeVideoStore) RecordView(_ context.Context, videoID, viewerID string) error {
	if _, ok := f.videos[videoID]; !ok {
		return repositories.ErrNotFound
	}
	f.views[videoID]++
	return nil
}

type fakeCommentStore struct {
	comments map[string]models.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[string]models.Comment)}
}

func (f *fakeCommentStore) Create(_ context.Context, comment models.Comment) error {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentStore) FindByID(_ context.Context, id string) (models.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (f *fakeCommentStore) ListForVideo(_ context.Context, videoID string, _, _ int) ([]models.Comment, error) {
	var out []models.Comment
	for _, comment := range f.comments {
		if comment.VideoID == videoID {
			out = append(out, comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCommentStore) UpdateContent(_ context.Context, id, content string) (models.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	comment.Content = content
	comment.UpdatedAt = time.Now()
	f.comments[id] = comment
	return comment, nil
}

func (f *fakeCommentStore) Delete(_ context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

type fakeTweetStore struct {
	tweets map[string]models.Tweet
}

func newFakeTweetStore() *fakeTweetStore {
	return &fakeTweetStore{tweets: make(map[string]models.Tweet)}
}

func (f *fakeTweetStore) Create(_ context.Context, tweet models.Tweet) error {
	now := time.Now()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now
	f.tweets[tweet.ID] = tweet
	return nil
}

func (f *fakeTweetStore) FindByID(_ context.Context, id string) (models.Tweet, error) {
	tweet, ok := f.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return tweet, nil
}

func (f *fakeTweetStore) ListForOwner(_ context.Context, ownerID string, _, _ int) ([]models.Tweet, error) {
	var out []models.Tweet
	for _, tweet := range f.tweets {
		if tweet.OwnerID == ownerID {
			out = append(out, tweet)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTweetStore) UpdateContent(_ context.Context, id, content string) (models.Tweet, error) {
	tweet, ok := f.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	tweet.Content = content
	tweet.UpdatedAt = time.Now()
	f.tweets[id] = tweet
	return tweet, nil
}

func (f *fakeTweetStore) Delete(_ context.Context, id string) error {
	if _, ok := f.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.tweets, id)
	return nil
}

type likeKey struct {
	liker    string
	target   models.LikeTarget
	targetID string
}

type fakeLikeStore struct {
	likes map[likeKey]bool

	likedVideos map[string][]models.Video
	toggleErr   error
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: make(map[likeKey]bool), likedVideos: make(map[string][]models.Video)}
}

func (f *fakeLikeStore) Toggle(_ context.Context, likerID string, target models.LikeTarget, targetID string) (bool, error) {
	if f.toggleErr != nil {
		return false, f.toggleErr
	}
	key := likeKey{liker: likerID, target: target, targetID: targetID}
	if f.likes[key] {
		delete(f.likes, key)
		return false, nil
	}
	f.likes[key] = true
	return true, nil
}

func (f *fakeLikeStore) ListLikedVideos(_ context.Context, likerID string) ([]models.Video, error) {
	return f.likedVideos[likerID], nil
}

type fakePlaylistStore struct {
	playlists map[string]models.Playlist
	entries   map[string][]string
}

func newFakePlaylistStore() *fakePlaylistStore {
	return &fakePlaylistStore{playlists: make(map[string]models.Playlist), entries: make(map[string][]string)}
}

func (f *fakePlaylistStore) Create(_ context.Context, playlist models.Playlist) error {
	for _, existing := range f.playlists {
		if existing.OwnerID == playlist.OwnerID && existing.Name == playlist.Name {
			return repositories.ErrConflict
		}
	}
	now := time.Now()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	f.playlists[playlist.ID] = playlist
	return nil
}

func (f *fakePlaylistStore) FindByID(_ context.Context, id string) (models.Playlist, error) {
	playlist, ok := f.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (f *fakePlaylistStore) ListForOwner(_ context.Context, ownerID string) ([]models.Playlist, error) {
	var out []models.Playlist
	for _, playlist := range f.playlists {
		if playlist.OwnerID == ownerID {
			out = append(out, playlist)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePlaylistStore) Update(_ context.Context, id, name, description string) (models.Playlist, error) {
	playlist, ok := f.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	playlist.Name = name
	playlist.Description = description
	playlist.UpdatedAt = time.Now()
	f.playlists[id] = playlist
	return playlist, nil
}

func (f *fakePlaylistStore) Delete(_ context.Context, id string) error {
	if _, ok := f.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.playlists, id)
	delete(f.entries, id)
	return nil
}

func (f *fakePlaylistStore) AddVideo(_ context.Context, playlistID, videoID string) error {
	if _, ok := f.playlists[playlistID]; !ok {
		return repositories.ErrNotFound
	}
	for _, existing := range f.entries[playlistID] {
		if existing == videoID {
			return repositories.ErrConflict
		}
	}
	f.entries[playlistID] = append(f.entries[playlistID], videoID)
	return nil
}

func (f *fakePlaylistStore) RemoveVideo(_ context.Context, playlistID, videoID string) error {
	entries := f.entries[playlistID]
	for i, existing := range entries {
		if existing == videoID {
			f.entries[playlistID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type subKey struct {
	subscriber string
	channel    string
}

type fakeSubscriptionStore struct {
	subs map[subKey]bool

	stats     map[string]models.ChannelStats
	toggleErr error
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{subs: make(map[subKey]bool), stats: make(map[string]models.ChannelStats)}
}

func (f *fakeSubscriptionStore) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	if f.toggleErr != nil {
		return false, f.toggleErr
	}
	key := subKey{subscriber: subscriberID, channel: channelID}
	if f.subs[key] {
		delete(f.subs, key)
		return false, nil
	}
	f.subs[key] = true
	return true, nil
}

func (f *fakeSubscriptionStore) ListSubscribers(_ context.Context, channelID string) ([]models.PublicUser, error) {
	var out []models.PublicUser
	for key := range f.subs {
		if key.channel == channelID {
			out = append(out, models.PublicUser{ID: key.subscriber})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSubscriptionStore) ListChannels(_ context.Context, subscriberID string) ([]models.PublicUser, error) {
	var out []models.PublicUser
	for key := range f.subs {
		if key.subscriber == subscriberID {
			out = append(out, models.PublicUser{ID: key.channel})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSubscriptionStore) ChannelStats(_ context.Context, channelID string) (models.ChannelStats, error) {
	return f.stats[channelID], nil
}
