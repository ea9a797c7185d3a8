package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/stats"
	"github.com/mcoot/cs2coach/internal/services/training"
)

// ErrStaleSelection is returned when a newer selection was made while sessions were loading
var ErrStaleSelection = errors.New("player selection changed while loading")

// Ticket tags a sessions fetch with the selection that was current when it was issued
type Ticket struct {
	UserID   model.UserID
	PlayerID model.PlayerID
}

// View is everything the dashboard page renders
type View struct {
	Players  []*model.Player
	Selected *model.Player
	Sessions []*model.TrainingSession
	Summary  stats.Summary
}

// Controller loads dashboard data. The latest selection per user wins: a
// result is discarded when its player is no longer the user's selection.
type Controller struct {
	training *training.Controller
	logger   *slog.Logger

	mu      sync.Mutex
	current map[model.UserID]model.PlayerID
}

// NewController creates a new dashboard Controller
func NewController(training *training.Controller, logger *slog.Logger) *Controller {
	return &Controller{
		training: training,
		logger:   logger,
		current:  make(map[model.UserID]model.PlayerID),
	}
}

// Load fetches the user's players newest first, selecting the first when
// selected is empty, then the selected player's sessions and summary
func (c *Controller) Load(ctx context.Context, user *model.User, selected model.PlayerID) (*View, error) {
	players, err := c.training.ListPlayers(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	view := &View{
		Players:  players,
		Sessions: []*model.TrainingSession{},
	}
	if len(players) == 0 {
		return view, nil
	}

	if selected == "" {
		selected = players[0].ID
	}
	for _, p := range players {
		if p.ID == selected {
			view.Selected = p
			break
		}
	}
	if view.Selected == nil {
		return nil, model.ErrPlayerNotFound
	}

	sessions, err := c.Sessions(ctx, c.Select(user.ID, selected))
	if err != nil {
		return nil, err
	}
	view.Sessions = sessions
	view.Summary = stats.Summarize(sessions)
	return view, nil
}

// Select records playerID as the user's current selection
func (c *Controller) Select(userID model.UserID, playerID model.PlayerID) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current[userID] = playerID
	return Ticket{UserID: userID, PlayerID: playerID}
}

// Sessions loads the ticket's sessions, returning ErrStaleSelection if the
// user selected again before the load finished
func (c *Controller) Sessions(ctx context.Context, ticket Ticket) ([]*model.TrainingSession, error) {
	sessions, err := c.training.ListOwnSessions(ctx, ticket.UserID, ticket.PlayerID)
	if err != nil {
		return nil, err
	}

	if !c.isCurrent(ticket) {
		c.logger.Debug("discarding stale sessions", "user_id", ticket.UserID, "player_id", ticket.PlayerID)
		return nil, ErrStaleSelection
	}
	return sessions, nil
}

func (c *Controller) isCurrent(ticket Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current[ticket.UserID] == ticket.PlayerID
}
