package middleware

import (
	"context"
	"net/http"
	"strings"

	"fileflow/internal/config"
	"fileflow/internal/logger"
	"fileflow/internal/models"
	"fileflow/internal/utils"

	"go.uber.org/zap"
)

// UserProvider — доступ к пользователям, достаточный для middleware.
type UserProvider interface {
	GetUserByID(ctx context.Context, id models.UserID) (*models.User, error)
}

// extractToken достаёт access-токен в порядке приоритета:
// заголовок Authorization: Bearer, query-параметр token, cookie token.
// Query и cookie нужны для скачивания файлов по прямой ссылке.
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}

// JWTAuth закрывает маршрут access-токеном. Клиенту не сообщается,
// чем именно токен плох: отсутствует, просрочен, повреждён или
// пользователь удалён — все случаи отвечают одинаковым 401.
func JWTAuth(cfg *config.Config, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			tokenString := extractToken(r)
			if tokenString == "" {
				logger.Log.Warn("JWTAuth: отсутствует access token", zap.String("path", r.URL.Path))
				http.Error(w, "Требуется аутентификация", http.StatusUnauthorized)
				return
			}

			userID, tokenType, err := utils.ParseToken(cfg.JWTSecret, tokenString)
			if err != nil || tokenType != utils.TokenTypeAccess {
				logger.Log.Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
				http.Error(w, "Неверный или просроченный токен", http.StatusUnauthorized)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				logger.Log.Warn("JWTAuth: пользователь токена не найден", zap.Int("user_id", int(userID)))
				http.Error(w, "Неверный или просроченный токен", http.StatusUnauthorized)
				return
			}

			setAuthInfo(r.Context(), user.ID)

			ctx := context.WithValue(r.Context(), ContextUserID, user.ID)
			ctx = context.WithValue(ctx, ContextUser, user)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
