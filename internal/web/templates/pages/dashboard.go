package pages

import (
	"github.com/a-h/templ"

	"github.com/mcoot/cs2coach/internal/forms"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/dashboard"
	"github.com/mcoot/cs2coach/internal/web/templates/components"
	"github.com/mcoot/cs2coach/internal/web/templates/layout"
	"github.com/mcoot/cs2coach/internal/web/templates/markup"
)

// DashboardData is the signed-in landing page
type DashboardData struct {
	layout.PageData
	View *dashboard.View

	PlayerName   string
	PlayerError  string
	Session      forms.AddSession
	SessionError string
	Today        string
}

// Dashboard renders the player picker, summary and session log
func Dashboard(data DashboardData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(h *markup.Writer) {
		h.Raw(`<section class="dashboard"><h1>Dashboard</h1>`)
		h.Component(playerPicker(data))
		h.Component(addPlayerForm(data))

		view := data.View
		if view == nil || view.Selected == nil {
			h.Raw(`<p class="empty">Add a player to start tracking sessions.</p></section>`)
			return
		}

		h.Raw(`<section class="selected"><h2 id="selected-player">`)
		h.Text(view.Selected.PlayerName)
		h.Raw(`</h2><a class="details"`)
		h.Attr("href", "/player/"+string(view.Selected.ID))
		h.Raw(`>Charts and details</a>`)
		h.Component(components.Summary(view.Summary))
		h.Component(addSessionForm(data, view.Selected))
		h.Raw(`<h3>Sessions</h3>`)
		h.Component(components.SessionsTable(view.Sessions))
		h.Raw(`</section></section>`)
	}))
}

func playerPicker(data DashboardData) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		if data.View == nil || len(data.View.Players) == 0 {
			return
		}
		h.Raw(`<ul class="players">`)
		for _, p := range data.View.Players {
			h.Raw(`<li><a`)
			h.Attr("href", "/?player="+string(p.ID))
			if data.View.Selected != nil && p.ID == data.View.Selected.ID {
				h.Attr("class", "active")
			}
			h.Raw(`>`)
			h.Text(p.PlayerName)
			h.Raw(`</a></li>`)
		}
		h.Raw(`</ul>`)
	})
}

func addPlayerForm(data DashboardData) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		h.Raw(`<form method="post" action="/players" id="add-player-form"><h3>Add player</h3>`)
		h.Component(components.FormError(data.PlayerError))
		h.Component(markup.CSRFField(data.CSRFToken))
		h.Component(components.Input("Player name", "player_name", "text", data.PlayerName))
		h.Raw(`<button type="submit">Add</button></form>`)
	})
}

func addSessionForm(data DashboardData, player *model.Player) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		f := data.Session
		date := f.SessionDate
		if date == "" {
			date = data.Today
		}

		h.Raw(`<form method="post" action="/sessions" id="add-session-form"><h3>Record session</h3>`)
		h.Component(components.FormError(data.SessionError))
		h.Component(markup.CSRFField(data.CSRFToken))
		h.Raw(`<input type="hidden" name="player_id"`)
		h.Attr("value", string(player.ID))
		h.Raw(`>`)
		h.Component(components.Input("Date", "session_date", "date", date))
		h.Component(components.Input("Map", "map_name", "text", f.MapName))
		h.Component(components.Input("HS %", "hs_rate", "number", f.HSRate))
		h.Component(components.Input("Accuracy %", "accuracy", "number", f.Accuracy))
		h.Component(components.Input("Kills", "kills", "number", f.Kills))
		h.Component(components.Input("Deaths", "deaths", "number", f.Deaths))
		h.Component(components.Input("Duration (minutes)", "duration_minutes", "number", f.DurationMinutes))
		h.Component(components.Input("Exercise", "exercise_type", "text", f.ExerciseType))
		h.Raw(`<label>Notes<textarea name="notes">`)
		h.Text(f.Notes)
		h.Raw(`</textarea></label><button type="submit">Save session</button></form>`)
	})
}
