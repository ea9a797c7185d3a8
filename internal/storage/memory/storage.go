package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/cs2coach/internal/dependencies/clock"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.RWMutex
	clock clock.Clock

	users            map[model.UserID]model.User
	emailIndex       map[string]model.UserID
	players          map[model.PlayerID]model.Player
	trainingSessions map[model.PlayerID][]model.TrainingSession
}

// New creates a new in-memory storage instance backed by the system clock
func New() *Storage {
	return NewWithClock(clock.New())
}

// NewWithClock creates an in-memory storage instance that reports the given clock as server time
func NewWithClock(clk clock.Clock) *Storage {
	return &Storage{
		clock:            clk,
		users:            make(map[model.UserID]model.User),
		emailIndex:       make(map[string]model.UserID),
		players:          make(map[model.PlayerID]model.Player),
		trainingSessions: make(map[model.PlayerID][]model.TrainingSession),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.emailIndex[model.NormalizeEmail(user.Email)]; ok && owner != user.ID {
		return model.ErrEmailTaken
	}

	// Drop a stale index entry if the email changed
	if prev, ok := s.users[user.ID]; ok {
		delete(s.emailIndex, model.NormalizeEmail(prev.Email))
	}
	s.users[user.ID] = *user
	s.emailIndex[model.NormalizeEmail(user.Email)] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[model.NormalizeEmail(email)]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		user := u
		users = append(users, &user)
	}
	storage.SortUsers(users)
	return users, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = *player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return &player, nil
}

func (s *Storage) ListPlayersByOwner(ctx context.Context, userID model.UserID) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0)
	for _, p := range s.players {
		if p.UserID != userID {
			continue
		}
		player := p
		players = append(players, &player)
	}
	storage.SortPlayersNewestFirst(players)
	return players, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		player := p
		players = append(players, &player)
	}
	storage.SortPlayersNewestFirst(players)
	return players, nil
}

// Training session operations

func (s *Storage) SaveTrainingSession(ctx context.Context, session *model.TrainingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainingSessions[session.PlayerID] = append(s.trainingSessions[session.PlayerID], *session)
	return nil
}

func (s *Storage) ListTrainingSessions(ctx context.Context, playerID model.PlayerID) ([]*model.TrainingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.trainingSessions[playerID]
	sessions := make([]*model.TrainingSession, 0, len(stored))
	for _, ts := range stored {
		session := ts
		sessions = append(sessions, &session)
	}
	storage.SortSessionsLatestFirst(sessions)
	return sessions, nil
}

func (s *Storage) ServerTime(ctx context.Context) (time.Time, error) {
	return s.clock.Now(), nil
}
