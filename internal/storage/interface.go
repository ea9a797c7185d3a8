package storage

import (
	"context"
	"time"

	"github.com/mcoot/cs2coach/internal/model"
)

// Storage defines the provider's row storage
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// ListPlayersByOwner returns the owner's players, newest first
	ListPlayersByOwner(ctx context.Context, userID model.UserID) ([]*model.Player, error)
	// ListPlayers returns every player, newest first
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Training session operations
	SaveTrainingSession(ctx context.Context, session *model.TrainingSession) error
	// ListTrainingSessions returns a player's sessions ordered by session date, latest first
	ListTrainingSessions(ctx context.Context, playerID model.PlayerID) ([]*model.TrainingSession, error)

	TimeSource
}

// TimeSource reports the current time as seen by a database
type TimeSource interface {
	ServerTime(ctx context.Context) (time.Time, error)
}
