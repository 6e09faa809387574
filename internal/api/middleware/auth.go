package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

// UserIDKey - ключ контекста с ID аутентифицированного пользователя
const UserIDKey contextKey = "userID"

// Auth проверяет наличие заголовка X-User-ID и кладёт его значение в контекст запроса.
// Запросы без заголовка отклоняются с кодом 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "требуется заголовок X-User-ID",
			})
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста запроса.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
