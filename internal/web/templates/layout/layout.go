package layout

import (
	"github.com/a-h/templ"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/web/templates/markup"
)

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // success, error, info
	Message string
}

// PageData is common to every page
type PageData struct {
	Title     string
	User      *model.User
	Flash     *FlashMessage
	CSRFToken string
}

// Base wraps a page body in the document shell and navigation
func Base(data PageData, body templ.Component) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		h.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw(`<title>`)
		h.Text(data.Title)
		h.Raw(` | CS2 Coach</title></head><body>`)

		h.Component(nav(data))

		h.Raw(`<main>`)
		if data.Flash != nil {
			h.Raw(`<div class="flash"`)
			h.Attr("data-type", data.Flash.Type)
			h.Raw(`>`)
			h.Text(data.Flash.Message)
			h.Raw(`</div>`)
		}
		h.Component(body)
		h.Raw(`</main></body></html>`)
	})
}

func nav(data PageData) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		h.Raw(`<nav><a href="/" class="brand">CS2 Coach</a>`)
		if data.User == nil {
			h.Raw(`<a href="/">Sign in</a><a href="/signup">Sign up</a></nav>`)
			return
		}

		h.Raw(`<a href="/">Dashboard</a>`)
		if data.User.CanCoach() {
			h.Raw(`<a href="/coach">Coach</a>`)
		}
		if data.User.IsAdmin() {
			h.Raw(`<a href="/admin">Admin</a>`)
		}
		h.Raw(`<a href="/profile" class="user">`)
		h.Text(data.User.DisplayName())
		h.Raw(`</a><form method="post" action="/auth/logout" class="inline">`)
		h.Component(markup.CSRFField(data.CSRFToken))
		h.Raw(`<button type="submit">Sign out</button></form></nav>`)
	})
}
