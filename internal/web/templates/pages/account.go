package pages

import (
	"github.com/a-h/templ"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/web/templates/components"
	"github.com/mcoot/cs2coach/internal/web/templates/layout"
	"github.com/mcoot/cs2coach/internal/web/templates/markup"
)

// ProfileData is the signed-in user's account page
type ProfileData struct {
	layout.PageData
	Error string
}

// Profile renders account details and the change password form
func Profile(data ProfileData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(h *markup.Writer) {
		u := data.User
		h.Raw(`<section class="profile"><h1>Profile</h1><dl>`)
		h.Raw(`<dt>Email</dt><dd id="profile-email">`)
		h.Text(u.Email)
		h.Raw(`</dd><dt>Player name</dt><dd>`)
		h.Text(u.UserMetadata.PlayerName)
		h.Raw(`</dd><dt>Role</dt><dd id="profile-role">`)
		h.Text(roleLabel(u.AppMetadata.Role))
		h.Raw(`</dd></dl><h2>Change password</h2>`)
		h.Component(components.FormError(data.Error))
		h.Raw(`<form method="post" action="/profile/password" id="password-form">`)
		h.Component(markup.CSRFField(data.CSRFToken))
		h.Component(components.Input("New password", "password", "password", ""))
		h.Component(components.Input("Confirm password", "confirm_password", "password", ""))
		h.Raw(`<button type="submit">Update password</button></form></section>`)
	}))
}

// AdminData is the user management page
type AdminData struct {
	layout.PageData
	Users      []*model.User
	InviteLink string
	Error      string
}

var assignableRoles = []model.Role{model.RolePlayer, model.RoleCoach, model.RoleAdmin}

// Admin renders the user list, role assignment and invitations
func Admin(data AdminData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(h *markup.Writer) {
		h.Raw(`<section class="admin"><h1>Users</h1>`)
		h.Component(components.FormError(data.Error))

		h.Raw(`<table class="users"><thead><tr><th>Email</th><th>Player name</th><th>Role</th><th></th></tr></thead><tbody>`)
		for _, u := range data.Users {
			h.Raw(`<tr class="user"`)
			h.Attr("data-user-id", string(u.ID))
			h.Raw(`><td>`)
			h.Text(u.Email)
			h.Raw(`</td><td>`)
			h.Text(u.UserMetadata.PlayerName)
			h.Raw(`</td><td class="role">`)
			h.Text(roleLabel(u.AppMetadata.Role))
			h.Raw(`</td><td><form method="post" action="/admin/role">`)
			h.Component(markup.CSRFField(data.CSRFToken))
			h.Raw(`<input type="hidden" name="user_id"`)
			h.Attr("value", string(u.ID))
			h.Raw(`>`)
			h.Component(roleSelect(u.AppMetadata.Role, true))
			h.Raw(`<button type="submit">Set role</button></form></td></tr>`)
		}
		h.Raw(`</tbody></table>`)

		h.Raw(`<h2>Invite</h2>`)
		if data.InviteLink != "" {
			h.Raw(`<p class="success">Invitation sent. Link: <code id="invite-link">`)
			h.Text(data.InviteLink)
			h.Raw(`</code></p>`)
		}
		h.Raw(`<form method="post" action="/admin/invite" id="invite-user-form">`)
		h.Component(markup.CSRFField(data.CSRFToken))
		h.Component(components.Input("Email", "email", "email", ""))
		h.Component(roleSelect(model.RolePlayer, false))
		h.Raw(`<button type="submit">Send invitation</button></form></section>`)
	}))
}

func roleSelect(current model.Role, allowNone bool) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		h.Raw(`<select name="role">`)
		roles := assignableRoles
		if allowNone {
			roles = append([]model.Role{model.RoleNone}, roles...)
		}
		for _, r := range roles {
			h.Raw(`<option`)
			h.Attr("value", string(r))
			if r == current {
				h.Raw(` selected`)
			}
			h.Raw(`>`)
			h.Text(roleLabel(r))
			h.Raw(`</option>`)
		}
		h.Raw(`</select>`)
	})
}

func roleLabel(r model.Role) string {
	if r == model.RoleNone {
		return "none"
	}
	return string(r)
}

// ErrorData is a status page such as 404
type ErrorData struct {
	layout.PageData
	Status  int
	Message string
}

// Error renders a status page
func Error(data ErrorData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(h *markup.Writer) {
		h.Raw(`<section class="error-page"><h1>`)
		h.Text(data.Title)
		h.Raw(`</h1><p>`)
		h.Text(data.Message)
		h.Raw(`</p><p><a href="/">Back to dashboard</a></p></section>`)
	}))
}
