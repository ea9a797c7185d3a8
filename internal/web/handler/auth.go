package handler

import (
	"net/http"
	"time"

	"github.com/mcoot/cs2coach/internal/forms"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/web/middleware"
	"github.com/mcoot/cs2coach/internal/web/templates/pages"
)

const invalidFormData = "Invalid form data"

// forgotPasswordSent is shown whether or not the address has an account
const forgotPasswordSent = "If an account exists for that email, a reset link is on its way."

// AuthHandler handles sign-in, sign-up and password reset actions
type AuthHandler struct {
	authService   *auth.Service
	pages         *PageHandler
	sessionTTL    time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, pages *PageHandler, sessionTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		pages:         pages,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

// Login handles login form submission. Provider errors are shown as-is.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, forms.Login{}, invalidFormData)
		return
	}

	form := forms.LoginFromValues(r.PostForm)
	sess := middleware.GetSession(r.Context())
	err := forms.Submit(form, func() error {
		return sess.SignIn(r.Context(), form.Email, form.Password)
	})
	if err != nil {
		h.renderLogin(w, r, form, err.Error())
		return
	}

	middleware.SetSessionCookie(w, sess.Token(), h.sessionTTL, h.secureCookies)
	redirectWithFlash(w, r, "success", "Welcome back, "+sess.User().DisplayName()+"!", "/")
}

// SignUp handles registration. Success leaves the user signed out.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderSignUp(w, r, forms.SignUp{}, invalidFormData, "")
		return
	}

	form := forms.SignUpFromValues(r.PostForm)
	sess := middleware.GetSession(r.Context())
	err := forms.Submit(form, func() error {
		return sess.SignUp(r.Context(), form.Email, form.Password, form.PlayerName)
	})
	if err != nil {
		h.renderSignUp(w, r, form, err.Error(), "")
		return
	}

	h.renderSignUp(w, r, forms.SignUp{}, "", "Account created. You can now sign in.")
}

// Logout ends the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.GetSession(r.Context()); sess != nil {
		_ = sess.SignOut(r.Context())
	}
	middleware.ClearSessionCookie(w)
	redirectWithFlash(w, r, "info", "You have been signed out", "/")
}

// ForgotPassword mails a reset link. The same confirmation is shown for
// unknown addresses.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	data := pages.ForgotPasswordData{PageData: pageData(r, "Forgot password")}
	if err := r.ParseForm(); err != nil {
		data.Error = invalidFormData
		render(w, r, http.StatusOK, pages.ForgotPassword(data))
		return
	}
	form := forms.ForgotPasswordFromValues(r.PostForm)
	data.Email = form.Email

	err := forms.Submit(form, func() error {
		return h.authService.RequestPasswordReset(r.Context(), form.Email)
	})
	if err != nil {
		data.Error = err.Error()
	} else {
		data.Success = forgotPasswordSent
	}
	render(w, r, http.StatusOK, pages.ForgotPassword(data))
}

// ResetPassword sets a new password from an emailed token
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, r, http.StatusOK, pages.ResetPassword(pages.ResetPasswordData{
			PageData: pageData(r, "Reset password"),
			Token:    r.URL.Query().Get("token"),
			Error:    invalidFormData,
		}))
		return
	}
	form := forms.ResetPasswordFromValues(r.PostForm)

	err := form.ValidateWithToken()
	if err == nil {
		err = h.authService.ResetPassword(r.Context(), form.Token, form.Password)
	}
	if err != nil {
		render(w, r, http.StatusOK, pages.ResetPassword(pages.ResetPasswordData{
			PageData: pageData(r, "Reset password"),
			Token:    form.Token,
			Error:    err.Error(),
		}))
		return
	}

	middleware.ClearSessionCookie(w)
	redirectWithFlash(w, r, "success", "Password updated. Please sign in.", "/")
}

// AcceptInvite registers through an invitation link
func (h *AuthHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.inviteSignup(w, r, pages.InviteSignupData{
			Token: r.URL.Query().Get("token"),
			Error: invalidFormData,
		})
		return
	}
	form := forms.InviteSignupFromValues(r.PostForm)

	err := forms.Submit(form, func() error {
		_, err := h.authService.AcceptInvite(r.Context(), form.Token, form.Password, form.PlayerName)
		return err
	})
	if err != nil {
		h.pages.inviteSignup(w, r, pages.InviteSignupData{
			Token:      form.Token,
			PlayerName: form.PlayerName,
			Error:      err.Error(),
		})
		return
	}

	redirectWithFlash(w, r, "success", "Account created. You can now sign in.", "/")
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, form forms.Login, errorMsg string) {
	render(w, r, http.StatusOK, pages.Auth(pages.AuthData{
		PageData: pageData(r, "Sign in"),
		Email:    form.Email,
		Error:    errorMsg,
	}))
}

func (h *AuthHandler) renderSignUp(w http.ResponseWriter, r *http.Request, form forms.SignUp, errorMsg, success string) {
	render(w, r, http.StatusOK, pages.SignUp(pages.SignUpData{
		PageData:   pageData(r, "Sign up"),
		Email:      form.Email,
		PlayerName: form.PlayerName,
		Error:      errorMsg,
		Success:    success,
	}))
}
