package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fileflow/internal/config"
	"fileflow/internal/models"
	"fileflow/internal/repository"
	"fileflow/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserProvider struct {
	user *models.User
}

func (s *stubUserProvider) GetUserByID(_ context.Context, id models.UserID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, repository.ErrUserNotFound
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
	}
}

func runJWTAuth(t *testing.T, cfg *config.Config, users UserProvider, mutate func(*http.Request)) (*httptest.ResponseRecorder, bool, models.UserID) {
	t.Helper()

	var (
		called bool
		gotID  models.UserID
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotID, _ = CurrentUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	mutate(req)
	rec := httptest.NewRecorder()

	JWTAuth(cfg, users)(next).ServeHTTP(rec, req)
	return rec, called, gotID
}

func TestJWTAuth_MissingToken(t *testing.T) {
	cfg := authTestConfig()
	rec, called, _ := runJWTAuth(t, cfg, &stubUserProvider{}, func(_ *http.Request) {})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuth_ValidBearerToken(t *testing.T) {
	cfg := authTestConfig()
	user := &models.User{ID: 7, Name: "A", Email: "a@x.com"}
	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, cfg.AccessTokenTTL, utils.TokenTypeAccess)
	require.NoError(t, err)

	rec, called, gotID := runJWTAuth(t, cfg, &stubUserProvider{user: user}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, models.UserID(7), gotID)
}

func TestJWTAuth_TokenFromQueryAndCookie(t *testing.T) {
	cfg := authTestConfig()
	user := &models.User{ID: 3, Name: "B", Email: "b@x.com"}
	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, cfg.AccessTokenTTL, utils.TokenTypeAccess)
	require.NoError(t, err)

	// query-параметр
	rec, called, _ := runJWTAuth(t, cfg, &stubUserProvider{user: user}, func(r *http.Request) {
		q := r.URL.Query()
		q.Set("token", token)
		r.URL.RawQuery = q.Encode()
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)

	// cookie
	rec, called, _ = runJWTAuth(t, cfg, &stubUserProvider{user: user}, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "token", Value: token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	cfg := authTestConfig()
	user := &models.User{ID: 5}
	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, -time.Minute, utils.TokenTypeAccess)
	require.NoError(t, err)

	rec, called, _ := runJWTAuth(t, cfg, &stubUserProvider{user: user}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuth_RefreshTokenRejected(t *testing.T) {
	cfg := authTestConfig()
	user := &models.User{ID: 5}
	// refresh-токен, даже подписанный access-секретом, не проходит по типу
	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, time.Hour, utils.TokenTypeRefresh)
	require.NoError(t, err)

	rec, called, _ := runJWTAuth(t, cfg, &stubUserProvider{user: user}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuth_UserNoLongerExists(t *testing.T) {
	cfg := authTestConfig()
	token, err := utils.GenerateToken(cfg.JWTSecret, 42, cfg.AccessTokenTTL, utils.TokenTypeAccess)
	require.NoError(t, err)

	rec, called, _ := runJWTAuth(t, cfg, &stubUserProvider{}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
