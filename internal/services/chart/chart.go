// Package chart turns a list of training sessions into line chart geometry.
package chart

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/stats"
)

const (
	Width         = 640
	Padding       = 30
	DefaultHeight = 220

	// maxLabels bounds how many x-axis dates are labelled
	maxLabels = 6
)

// Point is one plotted session
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
	// Label is the M/D date shown under the point, empty when not labelled
	Label string `json:"label,omitempty"`
}

// Chart is the geometry of a rendered metric series
type Chart struct {
	Metric model.Metric `json:"metric"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	YMin   float64      `json:"y_min"`
	YMax   float64      `json:"y_max"`
	Points []Point      `json:"points"`
}

// Empty reports whether there is nothing to plot
func (c *Chart) Empty() bool {
	return len(c.Points) == 0
}

// Path returns the SVG path data joining every point
func (c *Chart) Path() string {
	if c.Empty() {
		return ""
	}
	parts := make([]string, len(c.Points))
	for i, p := range c.Points {
		parts[i] = formatCoord(p.X) + "," + formatCoord(p.Y)
	}
	return "M " + strings.Join(parts, " L ")
}

// Baseline is the y coordinate of the x axis
func (c *Chart) Baseline() float64 {
	return float64(c.Height - Padding)
}

// Build computes chart geometry for a metric. Sessions are plotted oldest
// first and spaced evenly by index. A non-positive height uses DefaultHeight.
func Build(sessions []*model.TrainingSession, metric model.Metric, height int) *Chart {
	if height <= 0 {
		height = DefaultHeight
	}
	c := &Chart{Metric: metric, Width: Width, Height: height, Points: []Point{}}
	if len(sessions) == 0 {
		return c
	}

	sorted := slices.Clone(sessions)
	slices.SortStableFunc(sorted, func(a, b *model.TrainingSession) int {
		return a.SessionDate.Compare(b.SessionDate)
	})

	values := make([]float64, len(sorted))
	for i, s := range sorted {
		values[i] = stats.Value(s, metric)
	}

	c.YMin = slices.Min(values)
	c.YMax = slices.Max(values)
	if c.YMax == c.YMin {
		c.YMax = c.YMin + 1
	}

	n := len(sorted)
	innerWidth := float64(Width - 2*Padding)
	innerHeight := float64(height - 2*Padding)
	every := int(math.Ceil(float64(n) / maxLabels))

	c.Points = make([]Point, n)
	for i, v := range values {
		ratio := (v - c.YMin) / (c.YMax - c.YMin)
		p := Point{
			X:     Padding + float64(i)/float64(max(n-1, 1))*innerWidth,
			Y:     Padding + innerHeight - ratio*innerHeight,
			Value: v,
		}
		if i%every == 0 {
			d := sorted[i].SessionDate
			p.Label = fmt.Sprintf("%d/%d", int(d.Month()), d.Day())
		}
		c.Points[i] = p
	}
	return c
}

func formatCoord(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
