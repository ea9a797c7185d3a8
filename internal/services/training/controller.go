package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/cs2coach/internal/dependencies/clock"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/storage"
)

// SessionInput is the user-supplied part of a training session
type SessionInput struct {
	PlayerID        model.PlayerID
	SessionDate     time.Time // zero means today
	HSRate          float64
	Accuracy        float64
	Kills           int
	Deaths          int
	MapName         string
	DurationMinutes float64
	Notes           string
	ExerciseType    string
}

// Controller manages players and their training sessions
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new training Controller
func NewController(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// ListPlayers returns the user's players, newest first
func (c *Controller) ListPlayers(ctx context.Context, userID model.UserID) ([]*model.Player, error) {
	return c.storage.ListPlayersByOwner(ctx, userID)
}

// ListAllPlayers returns every player for coaches and admins
func (c *Controller) ListAllPlayers(ctx context.Context, viewer *model.User) ([]*model.Player, error) {
	if !viewer.CanCoach() {
		return nil, model.ErrForbidden
	}
	return c.storage.ListPlayers(ctx)
}

// CreatePlayer registers a new player owned by the user
func (c *Controller) CreatePlayer(ctx context.Context, userID model.UserID, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrPlayerNameEmpty
	}

	now := c.clock.Now()
	player := &model.Player{
		ID:         model.PlayerID(uuid.NewString()),
		UserID:     userID,
		PlayerName: name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	c.logger.Info("player created", "player_id", player.ID, "user_id", userID)
	return player, nil
}

// GetPlayer fetches a player the viewer may see. Players owned by someone
// else are reported as not found unless the viewer can coach.
func (c *Controller) GetPlayer(ctx context.Context, viewer *model.User, id model.PlayerID) (*model.Player, error) {
	player, err := c.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !player.OwnedBy(viewer.ID) && !viewer.CanCoach() {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

// ListSessions returns a visible player's sessions, latest session date first
func (c *Controller) ListSessions(ctx context.Context, viewer *model.User, id model.PlayerID) ([]*model.TrainingSession, error) {
	if _, err := c.GetPlayer(ctx, viewer, id); err != nil {
		return nil, err
	}
	return c.storage.ListTrainingSessions(ctx, id)
}

// ListOwnSessions returns sessions for a player owned by userID
func (c *Controller) ListOwnSessions(ctx context.Context, userID model.UserID, id model.PlayerID) ([]*model.TrainingSession, error) {
	if _, err := c.ownedPlayer(ctx, userID, id); err != nil {
		return nil, err
	}
	return c.storage.ListTrainingSessions(ctx, id)
}

// AddSession records a training session after verifying the player exists
// and belongs to the user
func (c *Controller) AddSession(ctx context.Context, userID model.UserID, in SessionInput) (*model.TrainingSession, error) {
	if err := validateSession(in); err != nil {
		return nil, err
	}

	if _, err := c.ownedPlayer(ctx, userID, in.PlayerID); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	date := in.SessionDate
	if date.IsZero() {
		date = clock.StartOfDay(now)
	}

	session := &model.TrainingSession{
		ID:              model.TrainingSessionID(uuid.NewString()),
		PlayerID:        in.PlayerID,
		SessionDate:     date,
		HSRate:          in.HSRate,
		Accuracy:        in.Accuracy,
		Kills:           in.Kills,
		Deaths:          in.Deaths,
		MapName:         strings.TrimSpace(in.MapName),
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
		ExerciseType:    strings.TrimSpace(in.ExerciseType),
		CreatedAt:       now,
	}
	if err := c.storage.SaveTrainingSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("training session recorded", "session_id", session.ID, "player_id", session.PlayerID)
	return session, nil
}

func (c *Controller) ownedPlayer(ctx context.Context, userID model.UserID, id model.PlayerID) (*model.Player, error) {
	player, err := c.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !player.OwnedBy(userID) {
		return nil, model.ErrNotPlayerOwner
	}
	return player, nil
}

func validateSession(in SessionInput) error {
	switch {
	case in.PlayerID == "":
		return fmt.Errorf("%w: player is required", model.ErrInvalidSession)
	case strings.TrimSpace(in.MapName) == "":
		return fmt.Errorf("%w: map is required", model.ErrInvalidSession)
	case in.Kills < 0 || in.Deaths < 0:
		return fmt.Errorf("%w: kills and deaths cannot be negative", model.ErrInvalidSession)
	case !finite(in.HSRate, in.Accuracy, in.DurationMinutes):
		return fmt.Errorf("%w: numbers must be finite", model.ErrInvalidSession)
	case in.DurationMinutes < 0:
		return fmt.Errorf("%w: duration cannot be negative", model.ErrInvalidSession)
	}
	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// IsNotVisible reports whether err means the player is missing or hidden from the caller
func IsNotVisible(err error) bool {
	return errors.Is(err, model.ErrPlayerNotFound) || errors.Is(err, model.ErrNotPlayerOwner)
}
