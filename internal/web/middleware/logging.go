package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/cs2coach/internal/middleware"
)

// Logging logs each web request, tagged with the signed-in user when there is one.
// It must run inside Session.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger.With(slog.String("surface", "web"))
			if user := GetUser(r.Context()); user != nil {
				l = l.With(slog.String("user_id", string(user.ID)))
			}
			middleware.Logging(l)(next).ServeHTTP(w, r)
		})
	}
}
