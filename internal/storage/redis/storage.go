package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// A changed email leaves a stale index entry behind unless removed
	prev, err := s.GetUser(ctx, user.ID)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return err
	}

	// Claim the email first so two users can never share one
	emailKey := s.keys.emailIndex(user.Email)
	claimed, err := s.client.SetNX(ctx, emailKey, string(user.ID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		owner, err := s.client.Get(ctx, emailKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if owner != string(user.ID) {
			return model.ErrEmailTaken
		}
	}

	pipe := s.client.TxPipeline()
	if prev != nil && model.NormalizeEmail(prev.Email) != model.NormalizeEmail(user.Email) {
		pipe.Del(ctx, s.keys.emailIndex(prev.Email))
	}
	pipe.Set(ctx, s.keys.user(user.ID), data, 0)
	pipe.ZAdd(ctx, s.keys.usersIndex(), redis.Z{Score: score(user.CreatedAt), Member: string(user.ID)})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, s.keys.user(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	id, err := s.client.Get(ctx, s.keys.emailIndex(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(id))
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := s.client.ZRange(ctx, s.keys.usersIndex(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	userKeys := make([]string, len(ids))
	for i, id := range ids {
		userKeys[i] = s.keys.user(model.UserID(id))
	}

	users, err := mgetJSON[model.User](ctx, s.client, userKeys)
	if err != nil {
		return nil, err
	}
	storage.SortUsers(users)
	return users, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	member := redis.Z{Score: score(player.CreatedAt), Member: string(player.ID)}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.player(player.ID), data, 0)
	pipe.ZAdd(ctx, s.keys.playersIndex(), member)
	pipe.ZAdd(ctx, s.keys.playersByOwnerIndex(player.UserID), member)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, s.keys.player(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayersByOwner(ctx context.Context, userID model.UserID) ([]*model.Player, error) {
	return s.listPlayers(ctx, s.keys.playersByOwnerIndex(userID))
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return s.listPlayers(ctx, s.keys.playersIndex())
}

func (s *Storage) listPlayers(ctx context.Context, indexKey string) ([]*model.Player, error) {
	ids, err := s.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	playerKeys := make([]string, len(ids))
	for i, id := range ids {
		playerKeys[i] = s.keys.player(model.PlayerID(id))
	}

	players, err := mgetJSON[model.Player](ctx, s.client, playerKeys)
	if err != nil {
		return nil, err
	}
	storage.SortPlayersNewestFirst(players)
	return players, nil
}

// Training session operations

func (s *Storage) SaveTrainingSession(ctx context.Context, session *model.TrainingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.trainingSession(session.ID), data, 0)
	pipe.ZAdd(ctx, s.keys.sessionsByPlayerIndex(session.PlayerID), redis.Z{
		Score:  score(session.SessionDate),
		Member: string(session.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListTrainingSessions(ctx context.Context, playerID model.PlayerID) ([]*model.TrainingSession, error) {
	ids, err := s.client.ZRevRange(ctx, s.keys.sessionsByPlayerIndex(playerID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	sessionKeys := make([]string, len(ids))
	for i, id := range ids {
		sessionKeys[i] = s.keys.trainingSession(model.TrainingSessionID(id))
	}

	sessions, err := mgetJSON[model.TrainingSession](ctx, s.client, sessionKeys)
	if err != nil {
		return nil, err
	}
	storage.SortSessionsLatestFirst(sessions)
	return sessions, nil
}

// ServerTime returns the Redis server clock
func (s *Storage) ServerTime(ctx context.Context) (time.Time, error) {
	return s.client.Time(ctx).Result()
}

// mgetJSON fetches and decodes many JSON values at once, skipping missing keys
func mgetJSON[T any](ctx context.Context, client *redis.Client, keys []string) ([]*T, error) {
	if len(keys) == 0 {
		return []*T{}, nil
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*T, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Key vanished between index read and fetch
		}
		var item T
		if err := json.Unmarshal([]byte(str), &item); err != nil {
			continue // Skip invalid data
		}
		items = append(items, &item)
	}
	return items, nil
}
