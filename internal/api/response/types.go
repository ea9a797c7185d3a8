package response

import (
	"time"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/chart"
	"github.com/mcoot/cs2coach/internal/services/stats"
)

// User represents an account in API responses
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	PlayerName string `json:"player_name,omitempty"`
	Role       string `json:"role,omitempty"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:         string(u.ID),
		Email:      u.Email,
		PlayerName: u.UserMetadata.PlayerName,
		Role:       string(u.AppMetadata.Role),
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User      `json:"user"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Player represents a tracked player in API responses
type Player struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PlayerName string    `json:"player_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:         string(p.ID),
		UserID:     string(p.UserID),
		PlayerName: p.PlayerName,
		CreatedAt:  p.CreatedAt,
	}
}

// PlayersFromModel converts a slice of players
func PlayersFromModel(players []*model.Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return out
}

// TrainingSession represents a recorded session in API responses
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

// SessionFromModel converts a model.TrainingSession to a response TrainingSession
func SessionFromModel(s *model.TrainingSession) TrainingSession {
	return TrainingSession{
		ID:              string(s.ID),
		PlayerID:        string(s.PlayerID),
		SessionDate:     s.SessionDate.Format(time.DateOnly),
		HSRate:          s.HSRate,
		Accuracy:        s.Accuracy,
		Kills:           s.Kills,
		Deaths:          s.Deaths,
		MapName:         s.MapName,
		DurationMinutes: s.DurationMinutes,
		Notes:           s.Notes,
		ExerciseType:    s.ExerciseType,
	}
}

// SessionsFromModel converts a slice of training sessions
func SessionsFromModel(sessions []*model.TrainingSession) []TrainingSession {
	out := make([]TrainingSession, len(sessions))
	for i, s := range sessions {
		out[i] = SessionFromModel(s)
	}
	return out
}

// Stats is the summary block for a player
type Stats struct {
	PlayerID string `json:"player_id"`
	stats.Summary
}

// Chart is the computed chart geometry plus its SVG path
type Chart struct {
	*chart.Chart
	Path string `json:"path"`
}

// ChartFromModel attaches the SVG path to chart geometry
func ChartFromModel(c *chart.Chart) Chart {
	return Chart{Chart: c, Path: c.Path()}
}

// HealthResponse is the response for the health check endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
