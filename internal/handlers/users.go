package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidtube/backend/internal/apperror"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing; the
// remainder spills to temporary files.
const maxMultipartMemory = 32 << 20

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// UserHandler serves account registration, authentication, and profile
// management.
type UserHandler struct {
	Users  UserStore
	Tokens TokenManager
	Media  MediaService
}

// NewUserHandler constructs a UserHandler backed by the given collaborators.
func NewUserHandler(users UserStore, tokens TokenManager, mediaSvc MediaService) *UserHandler {
	return &UserHandler{Users: users, Tokens: tokens, Media: mediaSvc}
}

type registeredUserResponse struct {
	User models.PublicUser `json:"user"`
}

type authenticatedResponse struct {
	User         models.PublicUser `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
}

// Register creates an account from a multipart form carrying the profile
// fields plus an avatar image and an optional cover image.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be multipart form data"))
		return
	}

	username := strings.ToLower(strings.TrimSpace(r.FormValue("username")))
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	fullname := strings.TrimSpace(r.FormValue("fullname"))
	password := r.FormValue("password")

	if username == "" || email == "" || fullname == "" || password == "" {
		respondError(ctx, w, apperror.Validation("username, email, fullname and password are required"))
		return
	}
	if !strings.Contains(email, "@") {
		respondError(ctx, w, apperror.Validation("email address is not valid"))
		return
	}
	if err := validatePassword(password); err != nil {
		respondError(ctx, w, err)
		return
	}

	avatarStaged, err := h.Media.Stage(r.MultipartForm, "avatar")
	if err != nil {
		if errors.Is(err, media.ErrNoFile) {
			respondError(ctx, w, apperror.Validation("avatar image is required"))
			return
		}
		respondError(ctx, w, err)
		return
	}
	defer h.Media.Cleanup(avatarStaged)

	coverStaged, err := h.Media.Stage(r.MultipartForm, "coverImage")
	if err != nil && !errors.Is(err, media.ErrNoFile) {
		respondError(ctx, w, err)
		return
	}
	if coverStaged != "" {
		defer h.Media.Cleanup(coverStaged)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		respondError(ctx, w, apperror.Internal("hash password", err))
		return
	}

	avatarURL, err := h.Media.Commit(ctx, avatarStaged, "avatars")
	if err != nil {
		respondError(ctx, w, apperror.Upstream("store avatar image", err))
		return
	}
	var coverURL string
	if coverStaged != "" {
		coverURL, err = h.Media.Commit(ctx, coverStaged, "covers")
		if err != nil {
			h.Media.DeleteRemote(ctx, avatarURL)
			respondError(ctx, w, apperror.Upstream("store cover image", err))
			return
		}
	}

	now := time.Now().UTC()
	user := models.User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		Fullname:      fullname,
		Password:      string(hash),
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.Users.Create(ctx, user); err != nil {
		h.Media.DeleteRemote(ctx, avatarURL)
		if coverURL != "" {
			h.Media.DeleteRemote(ctx, coverURL)
		}
		respondError(ctx, w, repoError(err, "user"))
		return
	}

	respondJSON(ctx, w, http.StatusCreated, registeredUserResponse{User: user.Public()}, "user registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials by username or email and issues a fresh token
// pair, mirrored into HttpOnly cookies.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be valid JSON"))
		return
	}

	login := strings.ToLower(strings.TrimSpace(req.Username))
	if login == "" {
		login = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if login == "" || req.Password == "" {
		respondError(ctx, w, apperror.Validation("username or email, and password, are required"))
		return
	}

	user, err := h.Users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperror.Unauthorized("invalid credentials"))
			return
		}
		respondError(ctx, w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(ctx, w, apperror.Unauthorized("invalid credentials"))
		return
	}

	pair, err := h.Tokens.Issue(ctx, user)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	setAuthCookies(w, pair)
	respondJSON(ctx, w, http.StatusOK, authenticatedResponse{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "user logged in successfully")
}

// Logout revokes the stored refresh token and clears the auth cookies.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	if err := h.Tokens.Revoke(ctx, identity.UserID); err != nil {
		respondError(ctx, w, err)
		return
	}

	clearAuthCookies(w)
	respondJSON(ctx, w, http.StatusOK, nil, "user logged out successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshTokens rotates the token pair. The refresh token is read from the
// cookie when present, otherwise from the JSON body.
func (h *UserHandler) RefreshTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := ""
	if c, err := r.Cookie(refreshCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		respondError(ctx, w, apperror.Unauthorized("refresh token is required"))
		return
	}

	user, pair, err := h.Tokens.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrTokenMismatch) || errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperror.Unauthorized("refresh token is invalid or expired"))
			return
		}
		respondError(ctx, w, err)
		return
	}

	setAuthCookies(w, pair)
	respondJSON(ctx, w, http.StatusOK, authenticatedResponse{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "tokens refreshed successfully")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword verifies the current password before storing a new hash.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be valid JSON"))
		return
	}
	if err := validatePassword(req.NewPassword); err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.Users.FindByID(ctx, identity.UserID)
	if err != nil {
		respondError(ctx, w, repoError(err, "user"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
		respondError(ctx, w, apperror.Unauthorized("old password is incorrect"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(ctx, w, apperror.Internal("hash password", err))
		return
	}
	if err := h.Users.UpdatePassword(ctx, identity.UserID, string(hash)); err != nil {
		respondError(ctx, w, repoError(err, "user"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "password changed successfully")
}

// CurrentUser returns the authenticated user's profile.
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	user, err := h.Users.FindByID(ctx, identity.UserID)
	if err != nil {
		respondError(ctx, w, repoError(err, "user"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, registeredUserResponse{User: user.Public()}, "current user fetched successfully")
}

type updateDetailsRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

// UpdateDetails changes the fullname and email of the authenticated user.
func (h *UserHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	var req updateDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be valid JSON"))
		return
	}

	fullname := strings.TrimSpace(req.Fullname)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullname == "" || email == "" {
		respondError(ctx, w, apperror.Validation("fullname and email are required"))
		return
	}
	if !strings.Contains(email, "@") {
		respondError(ctx, w, apperror.Validation("email address is not valid"))
		return
	}

	user, err := h.Users.UpdateDetails(ctx, identity.UserID, fullname, email)
	if err != nil {
		respondError(ctx, w, repoError(err, "user"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, registeredUserResponse{User: user.Public()}, "account details updated successfully")
}

// ChangeAvatar replaces the avatar image, deleting the previous asset on a
// best-effort basis.
func (h *UserHandler) ChangeAvatar(w http.ResponseWriter, r *http.Request) {
	h.changeImage(w, r, "avatar", "avatars",
		func(u models.User) string { return u.AvatarURL },
		h.Users.UpdateAvatar,
		"avatar updated successfully")
}

// ChangeCoverImage replaces the cover image, deleting the previous asset on a
// best-effort basis.
func (h *UserHandler) ChangeCoverImage(w http.ResponseWriter, r *http.Request) {
	h.changeImage(w, r, "coverImage", "covers",
		func(u models.User) string { return u.CoverImageURL },
		h.Users.UpdateCoverImage,
		"cover image updated successfully")
}

func (h *UserHandler) changeImage(
	w http.ResponseWriter,
	r *http.Request,
	field, keyPrefix string,
	current func(models.User) string,
	update func(ctx context.Context, id, url string) error,
	message string,
) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(ctx, w, apperror.Validation("request body must be multipart form data"))
		return
	}

	staged, err := h.Media.Stage(r.MultipartForm, field)
	if err != nil {
		if errors.Is(err, media.ErrNoFile) {
			respondError(ctx, w, apperror.Validation(field+" file is required"))
			return
		}
		respondError(ctx, w, err)
		return
	}
	defer h.Media.Cleanup(staged)

	user, err := h.Users.FindByID(ctx, identity.UserID)
	if err != nil {
		respondError(ctx, w, repoError(err, "user"))
		return
	}

	url, err := h.Media.Commit(ctx, staged, keyPrefix)
	if err != nil {
		respondError(ctx, w, apperror.Upstream("store "+field, err))
		return
	}
	if err := update(ctx, identity.UserID, url); err != nil {
		h.Media.DeleteRemote(ctx, url)
		respondError(ctx, w, repoError(err, "user"))
		return
	}

	if old := current(user); old != "" {
		h.Media.DeleteRemote(ctx, old)
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{field: url}, message)
}

// ChannelProfile returns the channel view of a user, including subscription
// counts and whether the viewer follows the channel.
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := strings.ToLower(strings.TrimSpace(r.PathValue("username")))
	if username == "" {
		respondError(ctx, w, apperror.Validation("username is required"))
		return
	}

	viewerID := ""
	if identity, ok := middleware.IdentityFromContext(ctx); ok {
		viewerID = identity.UserID
	}

	profile, err := h.Users.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		respondError(ctx, w, repoError(err, "channel"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, profile, "channel profile fetched successfully")
}

// WatchHistory lists the authenticated user's watched videos, most recent
// first.
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	page, limit := pagination(r)
	videos, err := h.Users.WatchHistory(ctx, identity.UserID, page, limit)
	if err != nil {
		respondError(ctx, w, repoError(err, "user"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": videos}, "watch history fetched successfully")
}

// validatePassword enforces the platform password policy.
func validatePassword(password string) error {
	if len(password) < 8 {
		return apperror.Validation("password must be at least 8 characters long")
	}
	hasDigit := strings.ContainsAny(password, "0123456789")
	if !strings.Contains(password, "@") || !strings.Contains(password, "#") || !hasDigit {
		return apperror.Validation("password must contain '@', '#' and a digit")
	}
	return nil
}

func setAuthCookies(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// pagination reads page and limit query parameters with sane defaults.
func pagination(r *http.Request) (page, limit int) {
	page, limit = 1, 10
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	return page, limit
}
