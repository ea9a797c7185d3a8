package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/cs2coach/internal/api/middleware"
	"github.com/mcoot/cs2coach/internal/api/request"
	"github.com/mcoot/cs2coach/internal/api/response"
	"github.com/mcoot/cs2coach/internal/forms"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/auth"
)

// AuthHandler handles account and session endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignUp handles POST /api/v1/auth/signup. No session is issued; the
// caller logs in afterwards.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req request.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.Password
	}

	form := forms.SignUp{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		PlayerName:      req.PlayerName,
	}
	var user *model.User
	err := forms.Submit(form, func() error {
		var err error
		user, err = h.authService.SignUp(r.Context(), form.Email, form.Password, form.PlayerName)
		return err
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.UserFromModel(user))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	form := forms.Login{Email: req.Email, Password: req.Password}
	var session *auth.Session
	err := forms.Submit(form, func() error {
		var err error
		session, err = h.authService.SignIn(r.Context(), form.Email, form.Password)
		return err
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.authService.RecoverSession(r.Context(), session.Token)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponse{
		User:         response.UserFromModel(user),
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.InvalidateSession(middleware.GetToken(r.Context()))
	response.NoContent(w)
}

// Recover handles POST /api/v1/auth/recover, restoring a session from its token
func (h *AuthHandler) Recover(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())
	session, err := h.authService.ValidateSession(token)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponse{
		User:         response.UserFromModel(middleware.MustGetUser(r.Context())),
		SessionToken: token,
		ExpiresAt:    session.ExpiresAt,
	})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// RequestPasswordReset handles POST /api/v1/auth/password-reset. Unknown
// emails get the same response as known ones.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	form := forms.ForgotPassword{Email: req.Email}
	err := forms.Submit(form, func() error {
		return h.authService.RequestPasswordReset(r.Context(), form.Email)
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ConfirmPasswordReset handles POST /api/v1/auth/password-reset/confirm
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.Password
	}

	form := forms.ResetPassword{Token: req.Token, Password: req.Password, ConfirmPassword: req.ConfirmPassword}
	if err := form.ValidateWithToken(); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.authService.ResetPassword(r.Context(), form.Token, form.Password); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// UpdatePassword handles POST /api/v1/auth/password
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.Password
	}

	form := forms.ResetPassword{Password: req.Password, ConfirmPassword: req.ConfirmPassword}
	err := forms.Submit(form, func() error {
		return h.authService.UpdatePassword(r.Context(), user.ID, form.Password)
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
