package pages

import (
	"github.com/a-h/templ"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/web/templates/components"
	"github.com/mcoot/cs2coach/internal/web/templates/layout"
	"github.com/mcoot/cs2coach/internal/web/templates/markup"
)

// AuthData is the sign-in page
type AuthData struct {
	layout.PageData
	Email string
	Error string
}

// Auth renders the sign-in form
func Auth(data AuthData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(h *markup.Writer) {
		h.Raw(`<section class="auth"><h1>Sign in</h1>`)
		h.Component(components.FormError(data.Error))
		h.Raw(`<form method="post" action="/auth/login" id="login-form">`)
		h.Component(markup.CSRFField(data.CSRFToken))
		h.Component(components.Input("Email", "email", "email", data.Email))
		h.Component(components.Input("Password", "password", "password", ""))
		h.Raw(`<button type="submit">Sign in</button></form>`)
		h.Raw(`<p><a href="/forgot-password">Forgot your password?</a></p>`)
		h.Raw(`<p>No account? <a href="/signup">Sign up</a></p></section>`)
	}))
}

// SignUpData is the registration page
type SignUpData struct {
	layout.PageData
	Email      string
	PlayerName string
	Error      string
	Success    string
}

// SignUp renders the registration form
func SignUp(data SignUpData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(h *markup.Writer) {
		h.Raw(`<section class="auth"><h1>Create an account</h1>`)
		h.Component(components.FormError(data.Error))
		h.Component(components.FormSuccess(data.Success))
		h.Raw(`<form method="post" action="/auth/signup" id="signup-form">`)
		h.Component(markup.CSRFField(data.CSRFToken))
		h.Component(components.Input("Email", "email", "email", data.Email))
		h.Component(components.Input("Player name", "player_name", "text", data.PlayerName))
		h.Component(components.Input("Password", "password", "password", ""))
		h.Component(components.Input("Confirm password", "confirm_password", "password", ""))
		h.Raw(`<button type="submit">Sign up</button></form>`)
		h.Raw(`<p>Already registered? <a href="/">Sign in</a></p></section>`)
	}))
}

// ForgotPasswordData is the reset request page
type ForgotPasswordData struct {
	layout.PageData
	Email   string
	Error   string
	Success string
}

// ForgotPassword renders the reset request form
func ForgotPassword(data ForgotPasswordData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(h *markup.Writer) {
		h.Raw(`<section class="auth"><h1>Reset your password</h1>`)
		h.Component(components.FormError(data.Error))
		h.Component(components.FormSuccess(data.Success))
		h.Raw(`<form method="post" action="/auth/forgot-password" id="forgot-form">`)
		h.Component(markup.CSRFField(data.CSRFToken))
		h.Component(components.Input("Email", "email", "email", data.Email))
		h.Raw(`<button type="submit">Send reset link</button></form>`)
		h.Raw(`<p><a href="/">Back to sign in</a></p></section>`)
	}))
}

// ResetPasswordData is the page a reset link lands on
type ResetPasswordData struct {
	layout.PageData
	Token string
	Error string
}

// ResetPassword renders the new password form
func ResetPassword(data ResetPasswordData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(h *markup.Writer) {
		h.Raw(`<section class="auth"><h1>Choose a new password</h1>`)
		h.Component(components.FormError(data.Error))
		h.Raw(`<form method="post" action="/auth/reset-password" id="reset-form">`)
		h.Component(markup.CSRFField(data.CSRFToken))
		h.Raw(`<input type="hidden" name="token"`)
		h.Attr("value", data.Token)
		h.Raw(`>`)
		h.Component(components.Input("New password", "password", "password", ""))
		h.Component(components.Input("Confirm password", "confirm_password", "password", ""))
		h.Raw(`<button type="submit">Update password</button></form></section>`)
	}))
}

// InviteSignupData is the page an invitation link lands on
type InviteSignupData struct {
	layout.PageData
	Token      string
	Email      string
	Role       model.Role
	PlayerName string
	Error      string
	// Invalid hides the form when the token cannot be used
	Invalid bool
}

// InviteSignup renders registration for an invited address
func InviteSignup(data InviteSignupData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(h *markup.Writer) {
		h.Raw(`<section class="auth"><h1>Accept invitation</h1>`)
		h.Component(components.FormError(data.Error))
		if data.Invalid {
			h.Raw(`<p><a href="/">Back to sign in</a></p></section>`)
			return
		}

		h.Raw(`<p class="invite">Signing up as <strong>`)
		h.Text(data.Email)
		h.Raw(`</strong>`)
		if data.Role != model.RoleNone {
			h.Raw(` with the <strong class="role">`)
			h.Text(string(data.Role))
			h.Raw(`</strong> role`)
		}
		h.Raw(`.</p><form method="post" action="/auth/invite" id="invite-form">`)
		h.Component(markup.CSRFField(data.CSRFToken))
		h.Raw(`<input type="hidden" name="token"`)
		h.Attr("value", data.Token)
		h.Raw(`>`)
		h.Component(components.Input("Player name", "player_name", "text", data.PlayerName))
		h.Component(components.Input("Password", "password", "password", ""))
		h.Component(components.Input("Confirm password", "confirm_password", "password", ""))
		h.Raw(`<button type="submit">Create account</button></form></section>`)
	}))
}
