// Package stats computes aggregate figures over a loaded set of training sessions.
package stats

import (
	"github.com/mcoot/cs2coach/internal/model"
)

// Summary is the set of figures shown above the session table
type Summary struct {
	AvgHSRate    float64 `json:"avg_hs_rate"`
	KDRatio      float64 `json:"kd_ratio"`
	AvgAccuracy  float64 `json:"avg_accuracy"`
	SessionCount int     `json:"session_count"`
}

// Summarize computes every summary figure for the sessions
func Summarize(sessions []*model.TrainingSession) Summary {
	return Summary{
		AvgHSRate:    Average(sessions, model.MetricHSRate),
		KDRatio:      KDRatio(sessions),
		AvgAccuracy:  Average(sessions, model.MetricAccuracy),
		SessionCount: len(sessions),
	}
}

// Average returns sum/count of the metric across sessions, or 0 for none
func Average(sessions []*model.TrainingSession, metric model.Metric) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sessions {
		sum += Value(s, metric)
	}
	return sum / float64(len(sessions))
}

// KDRatio returns total kills over total deaths. With zero deaths it returns
// total kills unchanged.
func KDRatio(sessions []*model.TrainingSession) float64 {
	var kills, deaths int
	for _, s := range sessions {
		kills += s.Kills
		deaths += s.Deaths
	}
	return ratio(kills, deaths)
}

// Value returns one session's scalar for a metric. kd applies the same zero
// deaths rule as KDRatio to the single session.
func Value(s *model.TrainingSession, metric model.Metric) float64 {
	switch metric {
	case model.MetricHSRate:
		return s.HSRate
	case model.MetricAccuracy:
		return s.Accuracy
	case model.MetricKills:
		return float64(s.Kills)
	case model.MetricDeaths:
		return float64(s.Deaths)
	case model.MetricDurationMinutes:
		return s.DurationMinutes
	case model.MetricKD:
		return ratio(s.Kills, s.Deaths)
	default:
		return 0
	}
}

func ratio(kills, deaths int) float64 {
	if deaths == 0 {
		return float64(kills)
	}
	return float64(kills) / float64(deaths)
}
