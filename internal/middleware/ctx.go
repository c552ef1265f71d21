package middleware

import (
	"context"

	"fileflow/internal/models"
)

type ctxKey int

const (
	ContextUserID ctxKey = iota
	ContextUser
	ContextRequestID
	contextAuthInfo
)

// authInfo — обратный канал от JWTAuth к middleware выше по цепочке.
// Logging и Recoverer стоят снаружи JWTAuth и не видят контекст,
// созданный ниже, поэтому идентификатор пользователя передаётся
// через указатель, положенный в контекст до аутентификации.
type authInfo struct {
	userID models.UserID
	ok     bool
}

func withAuthInfo(ctx context.Context) (context.Context, *authInfo) {
	info := &authInfo{}
	return context.WithValue(ctx, contextAuthInfo, info), info
}

func setAuthInfo(ctx context.Context, userID models.UserID) {
	if info, ok := ctx.Value(contextAuthInfo).(*authInfo); ok {
		info.userID = userID
		info.ok = true
	}
}

// CurrentUserID — типизированный доступ к идентификатору пользователя,
// положенному в контекст JWT-middleware.
func CurrentUserID(ctx context.Context) (models.UserID, bool) {
	id, ok := ctx.Value(ContextUserID).(models.UserID)
	return id, ok
}

func CurrentUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ContextUser).(*models.User)
	return u, ok
}

func RequestIDFrom(ctx context.Context) (string, bool) {
	rid, ok := ctx.Value(ContextRequestID).(string)
	return rid, ok
}
