package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/cs2coach/internal/forms"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/web/middleware"
	"github.com/mcoot/cs2coach/internal/web/templates/pages"
)

// AccountHandler handles the profile and admin forms
type AccountHandler struct {
	authService *auth.Service
	pages       *PageHandler
	logger      *slog.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(authService *auth.Service, pages *PageHandler, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		pages:       pages,
		logger:      logger,
	}
}

// UpdatePassword changes the signed-in user's password
func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if err := r.ParseForm(); err != nil {
		render(w, r, http.StatusOK, pages.Profile(pages.ProfileData{
			PageData: pageData(r, "Profile"),
			Error:    invalidFormData,
		}))
		return
	}
	form := forms.ResetPasswordFromValues(r.PostForm)

	err := forms.Submit(form, func() error {
		return h.authService.UpdatePassword(r.Context(), user.ID, form.Password)
	})
	if err != nil {
		render(w, r, http.StatusOK, pages.Profile(pages.ProfileData{
			PageData: pageData(r, "Profile"),
			Error:    err.Error(),
		}))
		return
	}

	redirectWithFlash(w, r, "success", "Password updated", "/profile")
}

// Invite mails a sign-up link for the given address and role
func (h *AccountHandler) Invite(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.admin(w, r, pages.AdminData{Error: invalidFormData})
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))

	role, ok := model.ParseRole(r.PostForm.Get("role"))
	if !ok {
		h.pages.admin(w, r, pages.AdminData{Error: "Unknown role"})
		return
	}

	link, err := h.authService.Invite(r.Context(), email, role)
	if err != nil {
		h.pages.admin(w, r, pages.AdminData{Error: err.Error()})
		return
	}

	h.logger.Info("invitation sent", "email", email, "role", role)
	h.pages.admin(w, r, pages.AdminData{InviteLink: link})
}

// SetRole stamps a role onto an account
func (h *AccountHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.admin(w, r, pages.AdminData{Error: invalidFormData})
		return
	}

	role, ok := model.ParseRole(r.PostForm.Get("role"))
	if !ok {
		h.pages.admin(w, r, pages.AdminData{Error: "Unknown role"})
		return
	}

	user, err := h.authService.UpdateAppMetadata(r.Context(), model.UserID(r.PostForm.Get("user_id")), role)
	if err != nil {
		h.pages.admin(w, r, pages.AdminData{Error: err.Error()})
		return
	}

	redirectWithFlash(w, r, "success", "Updated role for "+user.Email, "/admin")
}
