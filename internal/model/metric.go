package model

// Metric names a per-session value that can be averaged or charted
type Metric string

const (
	MetricHSRate          Metric = "hs_rate"
	MetricAccuracy        Metric = "accuracy"
	MetricKills           Metric = "kills"
	MetricDeaths          Metric = "deaths"
	MetricDurationMinutes Metric = "duration_minutes"
	MetricKD              Metric = "kd" // derived, kills per death
)

// Metrics lists every chartable metric in display order
var Metrics = []Metric{
	MetricHSRate,
	MetricAccuracy,
	MetricKD,
	MetricKills,
	MetricDeaths,
	MetricDurationMinutes,
}

// ParseMetric converts a string to a known Metric
func ParseMetric(s string) (Metric, bool) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Label returns a human-readable metric name
func (m Metric) Label() string {
	switch m {
	case MetricHSRate:
		return "Headshot Rate"
	case MetricAccuracy:
		return "Accuracy"
	case MetricKills:
		return "Kills"
	case MetricDeaths:
		return "Deaths"
	case MetricDurationMinutes:
		return "Duration"
	case MetricKD:
		return "K/D"
	default:
		return string(m)
	}
}
