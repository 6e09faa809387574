package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDKey - ключ контекста с идентификатором запроса
const RequestIDKey contextKey = "requestID"

const requestIDHeader = "X-Request-ID"

// RequestID проставляет каждому запросу уникальный идентификатор.
// Если клиент прислал X-Request-ID, используется его значение.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID возвращает идентификатор запроса из контекста.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	return requestID, ok
}
