package pages

import (
	"github.com/a-h/templ"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/chart"
	"github.com/mcoot/cs2coach/internal/services/stats"
	"github.com/mcoot/cs2coach/internal/web/templates/components"
	"github.com/mcoot/cs2coach/internal/web/templates/layout"
	"github.com/mcoot/cs2coach/internal/web/templates/markup"
)

// PlayerData is the per-player detail page
type PlayerData struct {
	layout.PageData
	Player   *model.Player
	Sessions []*model.TrainingSession
	Summary  stats.Summary
	Chart    *chart.Chart
}

// Player renders a player's chart, summary and full session log
func Player(data PlayerData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(h *markup.Writer) {
		h.Raw(`<section class="player"><h1 id="player-name">`)
		h.Text(data.Player.PlayerName)
		h.Raw(`</h1>`)
		h.Component(components.Summary(data.Summary))
		h.Component(components.MetricPicker("/player/"+string(data.Player.ID), data.Chart.Metric))
		h.Component(components.Chart(data.Chart))
		h.Raw(`<h2>Sessions</h2>`)
		h.Component(components.SessionsTable(data.Sessions))
		h.Raw(`</section>`)
	}))
}

// CoachData lists every player for coaches and admins
type CoachData struct {
	layout.PageData
	Players []*model.Player
}

// Coach renders the all-players overview
func Coach(data CoachData) templ.Component {
	return layout.Base(data.PageData, markup.Component(func(h *markup.Writer) {
		h.Raw(`<section class="coach"><h1>All players</h1>`)
		if len(data.Players) == 0 {
			h.Raw(`<p class="empty">No players yet.</p></section>`)
			return
		}
		h.Raw(`<ul class="players">`)
		for _, p := range data.Players {
			h.Raw(`<li><a`)
			h.Attr("href", "/player/"+string(p.ID))
			h.Raw(`>`)
			h.Text(p.PlayerName)
			h.Raw(`</a></li>`)
		}
		h.Raw(`</ul></section>`)
	}))
}
