package middleware

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	requestIDKey contextKey = "request_id"

	// HeaderUserID выставляется gateway после аутентификации
	HeaderUserID    = "X-User-ID"
	HeaderRequestID = "X-Request-ID"
)

// Auth кладёт ID пользователя из заголовка в контекст.
// Заголовок доверенный, проверку личности выполняет gateway.
// Запросы без заголовка пропускаются, обработчик сам решает, нужен ли пользователь.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUserID возвращает контекст с ID пользователя
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
