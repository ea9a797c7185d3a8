package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/cs2coach/internal/web/middleware"
	"github.com/mcoot/cs2coach/internal/web/templates/layout"
	"github.com/mcoot/cs2coach/internal/web/templates/pages"
)

// pageData collects the fields every page needs from the request
func pageData(r *http.Request, title string) layout.PageData {
	return layout.PageData{
		Title:     title,
		User:      middleware.GetUser(r.Context()),
		Flash:     middleware.GetFlash(r.Context()),
		CSRFToken: middleware.CSRFToken(r),
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	render(w, r, status, pages.Error(pages.ErrorData{
		PageData: pageData(r, title),
		Status:   status,
		Message:  message,
	}))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	renderStatus(w, r, http.StatusNotFound, "Not found", "That page or player does not exist.")
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	renderStatus(w, r, http.StatusForbidden, "Forbidden", "You do not have access to this page.")
}

func serverError(w http.ResponseWriter, r *http.Request) {
	renderStatus(w, r, http.StatusInternalServerError, "Error", "Something went wrong. Please try again later.")
}

// redirectWithFlash sets a flash message and redirects with 303
func redirectWithFlash(w http.ResponseWriter, r *http.Request, kind, message, location string) {
	middleware.SetFlash(w, kind, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}
