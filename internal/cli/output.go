package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Player:
		o.printPlayer(v)
	case []Player:
		o.printPlayers(v)
	case TrainingSession:
		o.printSessions([]TrainingSession{v})
	case []TrainingSession:
		o.printSessions(v)
	case Stats:
		o.printStats(v)
	case Chart:
		o.printChart(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	PlayerName string `json:"player_name,omitempty"`
	Role       string `json:"role,omitempty"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
	ExpiresAt    string `json:"expires_at"`
}

// Player response type
type Player struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	PlayerName string `json:"player_name"`
	CreatedAt  string `json:"created_at"`
}

// TrainingSession response type
type TrainingSession struct {
	ID              string  `json:"id"`
	PlayerID        string  `json:"player_id"`
	SessionDate     string  `json:"session_date"`
	HSRate          float64 `json:"hs_rate"`
	Accuracy        float64 `json:"accuracy"`
	Kills           int     `json:"kills"`
	Deaths          int     `json:"deaths"`
	MapName         string  `json:"map_name"`
	DurationMinutes float64 `json:"duration_minutes"`
	Notes           string  `json:"notes,omitempty"`
	ExerciseType    string  `json:"exercise_type,omitempty"`
}

// Stats response type
type Stats struct {
	PlayerID     string  `json:"player_id"`
	AvgHSRate    float64 `json:"avg_hs_rate"`
	KDRatio      float64 `json:"kd_ratio"`
	AvgAccuracy  float64 `json:"avg_accuracy"`
	SessionCount int     `json:"session_count"`
}

// ChartPoint response type
type ChartPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

// Chart response type
type Chart struct {
	Metric string       `json:"metric"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	YMin   float64      `json:"y_min"`
	YMax   float64      `json:"y_max"`
	Points []ChartPoint `json:"points"`
	Path   string       `json:"path"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	_, _ = fmt.Fprintf(o.w, "User: %s (%s)\n", u.Email, u.ID)
	if u.PlayerName != "" {
		_, _ = fmt.Fprintf(o.w, "Player name: %s\n", u.PlayerName)
	}
	role := u.Role
	if role == "" {
		role = "none"
	}
	_, _ = fmt.Fprintf(o.w, "Role: %s\n", role)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	_, _ = fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
	_, _ = fmt.Fprintf(o.w, "Expires: %s\n", a.ExpiresAt)
}

func (o *Output) printPlayer(p Player) {
	_, _ = fmt.Fprintf(o.w, "Player: %s (%s)\n", p.PlayerName, p.ID)
}

func (o *Output) printPlayers(players []Player) {
	if len(players) == 0 {
		_, _ = fmt.Fprintln(o.w, "No players")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tCREATED")
	for _, p := range players {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.PlayerName, p.CreatedAt)
	}
	_ = tw.Flush()
}

func (o *Output) printSessions(sessions []TrainingSession) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(o.w, "No sessions")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tMAP\tHS%\tACC%\tK\tD\tMIN\tEXERCISE")
	for _, s := range sessions {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%d\t%d\t%g\t%s\n",
			s.SessionDate, s.MapName, s.HSRate, s.Accuracy, s.Kills, s.Deaths, s.DurationMinutes, s.ExerciseType)
	}
	_ = tw.Flush()
}

func (o *Output) printStats(s Stats) {
	_, _ = fmt.Fprintf(o.w, "Sessions: %d\n", s.SessionCount)
	_, _ = fmt.Fprintf(o.w, "Avg HS %%: %.2f\n", s.AvgHSRate)
	_, _ = fmt.Fprintf(o.w, "K/D: %.2f\n", s.KDRatio)
	_, _ = fmt.Fprintf(o.w, "Avg Accuracy %%: %.2f\n", s.AvgAccuracy)
}

func (o *Output) printChart(c Chart) {
	if len(c.Points) == 0 {
		_, _ = fmt.Fprintln(o.w, "No session data to chart")
		return
	}
	_, _ = fmt.Fprintf(o.w, "Metric: %s (min %.2f, max %.2f)\n", c.Metric, c.YMin, c.YMax)
	labels := make([]string, 0, len(c.Points))
	for _, p := range c.Points {
		label := p.Label
		if label == "" {
			label = "-"
		}
		labels = append(labels, fmt.Sprintf("%s=%.2f", label, p.Value))
	}
	_, _ = fmt.Fprintln(o.w, strings.Join(labels, " "))
	_, _ = fmt.Fprintf(o.w, "Path: %s\n", c.Path)
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
