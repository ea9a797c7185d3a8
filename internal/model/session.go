package model

import "time"

// TrainingSessionID uniquely identifies a recorded training session
type TrainingSessionID string

// TrainingSession is one recorded practice or match instance
type TrainingSession struct {
	ID              TrainingSessionID `json:"id"`
	PlayerID        PlayerID          `json:"player_id"`
	SessionDate     time.Time         `json:"session_date"`
	HSRate          float64           `json:"hs_rate"`
	Accuracy        float64           `json:"accuracy"`
	Kills           int               `json:"kills"`
	Deaths          int               `json:"deaths"`
	MapName         string            `json:"map_name"`
	DurationMinutes float64           `json:"duration_minutes"`
	Notes           string            `json:"notes"`
	ExerciseType    string            `json:"exercise_type"`
	CreatedAt       time.Time         `json:"created_at"`
}
