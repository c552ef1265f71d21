package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fileflow/internal/logger"
	"fileflow/internal/models"
	"fileflow/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	old := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = old })
	return logs
}

// Logging стоит снаружи JWTAuth, но идентификатор аутентифицированного
// пользователя всё равно должен попадать в запись о запросе.
func TestLogging_RecordsAuthenticatedUser(t *testing.T) {
	logs := captureLogs(t)

	cfg := authTestConfig()
	user := &models.User{ID: 7, Name: "A", Email: "a@x.com"}
	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, cfg.AccessTokenTTL, utils.TokenTypeAccess)
	require.NoError(t, err)

	handler := Logging(JWTAuth(cfg, &stubUserProvider{user: user})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP-запрос").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.EqualValues(t, 7, fields["user_id"])
	assert.Equal(t, "/api/documents", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

// Неаутентифицированный запрос логируется без поля user_id.
func TestLogging_AnonymousRequest(t *testing.T) {
	logs := captureLogs(t)

	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP-запрос").All()
	require.Len(t, entries, 1)

	_, hasUser := entries[0].ContextMap()["user_id"]
	assert.False(t, hasUser)
}
