package middleware

import (
	"net/http"
	"runtime/debug"

	"fileflow/internal/logger"

	"go.uber.org/zap"
)

// Recoverer превращает панику обработчика в 500. Стек попадает только в лог,
// клиент получает общий ответ без внутренних деталей.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				fields := []zap.Field{
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
				}
				if rid, ok := RequestIDFrom(r.Context()); ok {
					fields = append(fields, zap.String("request_id", rid))
				}
				if info, ok := r.Context().Value(contextAuthInfo).(*authInfo); ok && info.ok {
					fields = append(fields, zap.Int("user_id", int(info.userID)))
				}
				logger.Log.Error("panic recovered", fields...)

				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
