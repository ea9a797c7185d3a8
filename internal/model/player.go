package model

import "time"

// PlayerID uniquely identifies a tracked player
type PlayerID string

// Player is a tracked individual owned by one account
type Player struct {
	ID         PlayerID  `json:"id"`
	UserID     UserID    `json:"user_id"`
	PlayerName string    `json:"player_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OwnedBy returns true if the player belongs to the given account
func (p *Player) OwnedBy(userID UserID) bool {
	return p.UserID == userID
}
