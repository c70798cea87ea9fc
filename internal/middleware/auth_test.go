package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vidtube/backend/internal/auth"
)

type staticVerifier struct {
	claims auth.AccessClaims
	err    error
}

func (v staticVerifier) VerifyAccess(string) (auth.AccessClaims, error) {
	return v.claims, v.err
}

func identityEcho(t *testing.T, want string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity on context")
		}
		if id.UserID != want {
			t.Fatalf("expected user %q got %q", want, id.UserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthMissingCredential(t *testing.T) {
	handler := RequireAuth(staticVerifier{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without a credential")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	handler := RequireAuth(staticVerifier{err: auth.ErrInvalidToken})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run with an invalid credential")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func validClaims(userID string) auth.AccessClaims {
	claims := auth.AccessClaims{Username: "alice"}
	claims.Subject = userID
	return claims
}

func TestRequireAuthFromCookie(t *testing.T) {
	handler := RequireAuth(staticVerifier{claims: validClaims("user-1")})(identityEcho(t, "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "token", Expires: time.Now().Add(time.Hour)})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRequireAuthFromBearerHeader(t *testing.T) {
	handler := RequireAuth(staticVerifier{claims: validClaims("user-2")})(identityEcho(t, "user-2"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
