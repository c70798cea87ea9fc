package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vidtube/backend/internal/models"
)

var (
	// ErrInvalidToken indicates a token failed signature or expiry checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenMismatch indicates a refresh token differs from the one stored
	// on the user record, i.e. it was superseded or revoked.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// UserTokenStore persists the single active refresh token per user.
type UserTokenStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	SaveRefreshToken(ctx context.Context, userID, refreshToken string) error
}

// AccessClaims is the payload carried by access tokens.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

// refreshClaims carries only the user identity.
type refreshClaims struct {
	jwt.RegisteredClaims
}

// TokenService issues and validates signed access/refresh token pairs.
// Issued refresh tokens replace any prior value on the user record, so at
// most one refresh token per user is ever valid.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	users UserTokenStore

	// NowFunc overrides the time source in tests.
	NowFunc func() time.Time
}

// NewTokenService constructs a TokenService with the provided HMAC secrets and TTLs.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, users UserTokenStore) (*TokenService, error) {
	if len(accessSecret) < 16 || len(refreshSecret) < 16 {
		return nil, errors.New("auth: token secrets must be at least 16 characters")
	}
	if users == nil {
		return nil, errors.New("auth: user token store must not be nil")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		users:         users,
	}, nil
}

// Issue signs a new access/refresh pair for the user and persists the
// refresh token on the user record, replacing any prior value.
func (s *TokenService) Issue(ctx context.Context, user models.User) (models.TokenPair, error) {
	if user.ID == "" {
		return models.TokenPair{}, errors.New("auth: user id must be provided")
	}

	now := s.now()
	accessExpiry := now.Add(s.accessTTL)
	refreshExpiry := now.Add(s.refreshTTL)

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExpiry),
		},
		Email:    user.Email,
		Username: user.Username,
		Fullname: user.Fullname,
	})
	accessToken, err := access.SignedString(s.accessSecret)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExpiry),
		},
	})
	refreshToken, err := refresh.SignedString(s.refreshSecret)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.users.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return models.TokenPair{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return models.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// VerifyAccess validates an access token and returns its claims.
func (s *TokenService) VerifyAccess(tokenString string) (AccessClaims, error) {
	var claims AccessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.accessSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return AccessClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token must
// match the one stored on the user record; anything else invalidates the
// attempt so a stolen but superseded token cannot be replayed.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (models.User, models.TokenPair, error) {
	if refreshToken == "" {
		return models.User{}, models.TokenPair{}, ErrInvalidToken
	}

	var claims refreshClaims
	token, err := jwt.ParseWithClaims(refreshToken, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.refreshSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return models.User{}, models.TokenPair{}, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	if user.RefreshToken != refreshToken {
		return models.User{}, models.TokenPair{}, ErrTokenMismatch
	}

	pair, err := s.Issue(ctx, user)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}
	return user, pair, nil
}

// Revoke clears the stored refresh token for the user, ending the session.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return s.users.SaveRefreshToken(ctx, userID, "")
}

func (s *TokenService) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}
