// Package components holds fragments shared between pages.
package components

import (
	"fmt"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/chart"
	"github.com/mcoot/cs2coach/internal/services/stats"
	"github.com/mcoot/cs2coach/internal/web/templates/markup"
)

// FormError shows a validation or provider message above a form
func FormError(message string) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		if message == "" {
			return
		}
		h.Raw(`<p class="error" role="alert">`)
		h.Text(message)
		h.Raw(`</p>`)
	})
}

// FormSuccess shows a confirmation above a form
func FormSuccess(message string) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		if message == "" {
			return
		}
		h.Raw(`<p class="success">`)
		h.Text(message)
		h.Raw(`</p>`)
	})
}

// Input renders a labelled form input
func Input(label, name, kind, value string) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		h.Raw(`<label>`)
		h.Text(label)
		h.Raw(`<input`)
		h.Attr("type", kind)
		h.Attr("name", name)
		if value != "" {
			h.Attr("value", value)
		}
		if kind == "number" {
			h.Attr("step", "any")
		}
		h.Raw(`></label>`)
	})
}

// Summary renders the four summary figures with two decimals
func Summary(s stats.Summary) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		h.Raw(`<dl class="summary">`)
		figure(h, "avg-hs", "Avg HS %", fixed2(s.AvgHSRate))
		figure(h, "kd", "K/D", fixed2(s.KDRatio))
		figure(h, "avg-accuracy", "Avg Accuracy %", fixed2(s.AvgAccuracy))
		figure(h, "session-count", "Sessions", strconv.Itoa(s.SessionCount))
		h.Raw(`</dl>`)
	})
}

func figure(h *markup.Writer, id, label, value string) {
	h.Raw(`<div`)
	h.Attr("id", id)
	h.Raw(`><dt>`)
	h.Text(label)
	h.Raw(`</dt><dd>`)
	h.Text(value)
	h.Raw(`</dd></div>`)
}

// SessionsTable lists sessions in the order given. Notes are rendered as markdown.
func SessionsTable(sessions []*model.TrainingSession) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		if len(sessions) == 0 {
			h.Raw(`<p class="empty">No sessions recorded yet.</p>`)
			return
		}
		h.Raw(`<table class="sessions"><thead><tr>`)
		for _, col := range []string{"Date", "Map", "HS %", "Accuracy %", "Kills", "Deaths", "K/D", "Minutes", "Exercise", "Notes"} {
			h.Raw(`<th>`)
			h.Text(col)
			h.Raw(`</th>`)
		}
		h.Raw(`</tr></thead><tbody>`)
		for _, s := range sessions {
			h.Raw(`<tr class="session">`)
			cell(h, s.SessionDate.Format(time.DateOnly))
			cell(h, s.MapName)
			cell(h, fixed2(s.HSRate))
			cell(h, fixed2(s.Accuracy))
			cell(h, strconv.Itoa(s.Kills))
			cell(h, strconv.Itoa(s.Deaths))
			cell(h, fixed2(stats.Value(s, model.MetricKD)))
			cell(h, strconv.FormatFloat(s.DurationMinutes, 'f', -1, 64))
			cell(h, s.ExerciseType)
			h.Raw(`<td class="notes">`)
			if s.Notes != "" {
				h.Component(markup.Markdown(s.Notes))
			}
			h.Raw(`</td></tr>`)
		}
		h.Raw(`</tbody></table>`)
	})
}

func cell(h *markup.Writer, s string) {
	h.Raw(`<td>`)
	h.Text(s)
	h.Raw(`</td>`)
}

// MetricPicker links to the same page with each chartable metric
func MetricPicker(basePath string, current model.Metric) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		h.Raw(`<div class="metrics">`)
		for _, m := range model.Metrics {
			h.Raw(`<a`)
			h.Attr("href", basePath+"?metric="+string(m))
			if m == current {
				h.Attr("class", "active")
			}
			h.Raw(`>`)
			h.Text(m.Label())
			h.Raw(`</a>`)
		}
		h.Raw(`</div>`)
	})
}

// Chart draws the line chart as inline SVG
func Chart(c *chart.Chart) templ.Component {
	return markup.Component(func(h *markup.Writer) {
		if c.Empty() {
			h.Raw(`<div class="chart empty">No session data to chart.</div>`)
			return
		}

		h.Raw(`<div class="chart"><div class="chart-header"><span>Metric: <strong>`)
		h.Text(c.Metric.Label())
		h.Raw(`</strong></span><span class="range">Min: <strong class="y-min">`)
		h.Text(fixed2(c.YMin))
		h.Raw(`</strong> · Max: <strong class="y-max">`)
		h.Text(fixed2(c.YMax))
		h.Raw(`</strong></span></div>`)

		pad := float64(chart.Padding)
		base := c.Baseline()
		h.Raw(fmt.Sprintf(`<svg width="%d" height="%d" viewBox="0 0 %d %d" role="img">`, c.Width, c.Height, c.Width, c.Height))
		h.Raw(fmt.Sprintf(`<line class="axis" x1="%g" y1="%g" x2="%g" y2="%g" stroke="#3f3f46"></line>`, pad, pad, pad, base))
		h.Raw(fmt.Sprintf(`<line class="axis" x1="%g" y1="%g" x2="%g" y2="%g" stroke="#3f3f46"></line>`, pad, base, float64(c.Width)-pad, base))
		h.Raw(`<path fill="none" stroke="#f97316" stroke-width="2"`)
		h.Attr("d", c.Path())
		h.Raw(`></path>`)
		for _, p := range c.Points {
			h.Raw(fmt.Sprintf(`<g><circle cx="%g" cy="%g" r="3" fill="#fb923c"></circle>`, p.X, p.Y))
			if p.Label != "" {
				h.Raw(fmt.Sprintf(`<text class="x-label" x="%g" y="%g" font-size="10" text-anchor="middle">`, p.X, base+14))
				h.Text(p.Label)
				h.Raw(`</text>`)
			}
			h.Raw(`</g>`)
		}
		h.Raw(fmt.Sprintf(`<text x="%g" y="%g" font-size="10" text-anchor="end">%s</text>`, pad-6, pad, fixed2(c.YMax)))
		h.Raw(fmt.Sprintf(`<text x="%g" y="%g" font-size="10" text-anchor="end">%s</text>`, pad-6, base, fixed2(c.YMin)))
		h.Raw(`</svg></div>`)
	})
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
