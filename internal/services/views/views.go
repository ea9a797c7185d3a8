// Package views maps a request path and the signed-in user to the page that
// should be rendered.
package views

import (
	"strings"

	"github.com/mcoot/cs2coach/internal/model"
)

// Kind identifies one page of the application
type Kind string

const (
	PageInviteSignup   Kind = "invite_signup"
	PageForgotPassword Kind = "forgot_password"
	PageResetPassword  Kind = "reset_password"
	PageSignUp         Kind = "signup"
	PageAuth           Kind = "auth"
	PageAdmin          Kind = "admin"
	PageCoach          Kind = "coach"
	PagePlayer         Kind = "player"
	PageProfile        Kind = "profile"
	PageDashboard      Kind = "dashboard"
)

const (
	invitePrefix = "/invite/"
	playerPrefix = "/player/"
)

// Page is the resolved page plus any parameters taken from the path
type Page struct {
	Kind        Kind
	PlayerID    model.PlayerID // PagePlayer only
	InviteToken string         // PageInviteSignup only
}

type rule struct {
	match func(path string, user *model.User) bool
	page  func(path string) Page
}

func fixed(kind Kind) func(string) Page {
	return func(string) Page { return Page{Kind: kind} }
}

func pathIs(want string) func(string, *model.User) bool {
	return func(path string, _ *model.User) bool { return path == want }
}

func signedInAt(want string) func(string, *model.User) bool {
	return func(path string, user *model.User) bool { return user != nil && path == want }
}

// rules are evaluated in order; the first match wins and the last rule matches everything
var rules = []rule{
	{
		match: func(path string, _ *model.User) bool { return strings.HasPrefix(path, invitePrefix) },
		page: func(path string) Page {
			return Page{Kind: PageInviteSignup, InviteToken: strings.TrimPrefix(path, invitePrefix)}
		},
	},
	{match: pathIs("/forgot-password"), page: fixed(PageForgotPassword)},
	{match: pathIs("/reset-password"), page: fixed(PageResetPassword)},
	{
		match: func(path string, user *model.User) bool { return user == nil && path == "/signup" },
		page:  fixed(PageSignUp),
	},
	{
		match: func(_ string, user *model.User) bool { return user == nil },
		page:  fixed(PageAuth),
	},
	{match: signedInAt("/admin"), page: fixed(PageAdmin)},
	{match: signedInAt("/coach"), page: fixed(PageCoach)},
	{
		match: func(path string, user *model.User) bool {
			return user != nil && strings.HasPrefix(path, playerPrefix)
		},
		page: func(path string) Page {
			id := strings.TrimPrefix(path, playerPrefix)
			id, _, _ = strings.Cut(id, "/")
			return Page{Kind: PagePlayer, PlayerID: model.PlayerID(id)}
		},
	},
	{match: signedInAt("/profile"), page: fixed(PageProfile)},
	{
		match: func(string, *model.User) bool { return true },
		page:  fixed(PageDashboard),
	},
}

// Resolve selects exactly one page for the path and user (nil when signed out)
func Resolve(path string, user *model.User) Page {
	for _, r := range rules {
		if r.match(path, user) {
			return r.page(path)
		}
	}
	// Unreachable: the final rule matches every input
	return Page{Kind: PageDashboard}
}
