package middleware

import (
	"context"
	"net/http"

	"github.com/m04kA/BRB-ScheduleService/internal/api/handlers"
)

type contextKey string

// UserIDKey ключ контекста с идентификатором оператора
const UserIDKey contextKey = "userID"

// Auth проверяет наличие заголовка X-User-ID и кладёт его в контекст.
// Аутентификацией занимается gateway, сервис доверяет заголовку.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "отсутствует заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
