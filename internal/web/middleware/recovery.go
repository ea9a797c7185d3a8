package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/cs2coach/internal/middleware"
	"github.com/mcoot/cs2coach/internal/web/templates/layout"
	"github.com/mcoot/cs2coach/internal/web/templates/pages"
)

// Recovery creates panic recovery middleware for the web interface.
// The error page is rendered without the signed-in user so a broken
// session cannot panic a second time.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: "Something went wrong"},
		Status:   http.StatusInternalServerError,
		Message:  "Please try again later.",
	}).Render(r.Context(), w)
}
