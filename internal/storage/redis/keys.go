package redis

import (
	"fmt"

	"github.com/mcoot/cs2coach/internal/model"
)

// keys builds Redis keys under a common prefix
type keys struct {
	prefix string
}

func (k keys) user(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", k.prefix, id)
}

// emailIndex maps a normalized email to a user ID
func (k keys) emailIndex(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", k.prefix, model.NormalizeEmail(email))
}

// usersIndex is a ZSET of every user ID scored by creation time
func (k keys) usersIndex() string {
	return fmt.Sprintf("%s:idx:users", k.prefix)
}

func (k keys) player(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", k.prefix, id)
}

// playersIndex is a ZSET of every player ID scored by creation time
func (k keys) playersIndex() string {
	return fmt.Sprintf("%s:idx:players", k.prefix)
}

// playersByOwnerIndex is a ZSET of the owner's player IDs scored by creation time
func (k keys) playersByOwnerIndex(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:players_by_owner:%s", k.prefix, userID)
}

func (k keys) trainingSession(id model.TrainingSessionID) string {
	return fmt.Sprintf("%s:training_session:%s", k.prefix, id)
}

// sessionsByPlayerIndex is a ZSET of session IDs scored by session date
func (k keys) sessionsByPlayerIndex(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:sessions_by_player:%s", k.prefix, playerID)
}
