// Package postgres implements storage.Storage on a pgx connection pool.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/storage"
)

//go:embed schema.sql
var schema string

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	pool *pgxpool.Pool
}

// New connects to the database and applies the schema
func New(ctx context.Context, dsn string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	s := NewWithPool(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool wraps an existing pool without touching the schema
func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Migrate creates any missing tables and indexes
func (s *Storage) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Close releases the pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

const userColumns = `id, email, password_hash, email_confirmed, player_name, role, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var role string
	if err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.EmailConfirmed,
		&u.UserMetadata.PlayerName, &role, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	u.AppMetadata.Role = model.Role(role)
	return &u, nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (
			id, email, email_normalized, password_hash, email_confirmed,
			player_name, role, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			email_normalized = EXCLUDED.email_normalized,
			password_hash = EXCLUDED.password_hash,
			email_confirmed = EXCLUDED.email_confirmed,
			player_name = EXCLUDED.player_name,
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at
	`,
		user.ID, user.Email, model.NormalizeEmail(user.Email), user.PasswordHash, user.EmailConfirmed,
		user.UserMetadata.PlayerName, string(user.AppMetadata.Role), user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", model.ErrEmailTaken, user.Email)
	}
	return err
}

// uniqueViolation is the SQLSTATE for a unique constraint failure. The id
// conflict is handled by the upsert, so on users it means a duplicate email.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_normalized = $1`,
		model.NormalizeEmail(email),
	))
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, email ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const playerColumns = `id, user_id, player_name, created_at, updated_at`

func scanPlayer(row pgx.Row) (*model.Player, error) {
	var p model.Player
	if err := row.Scan(&p.ID, &p.UserID, &p.PlayerName, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO players (id, user_id, player_name, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			updated_at = EXCLUDED.updated_at
	`, player.ID, player.UserID, player.PlayerName, player.CreatedAt, player.UpdatedAt)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return scanPlayer(s.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
}

func (s *Storage) ListPlayersByOwner(ctx context.Context, userID model.UserID) ([]*model.Player, error) {
	return s.queryPlayers(ctx, `
		SELECT `+playerColumns+` FROM players
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return s.queryPlayers(ctx, `SELECT `+playerColumns+` FROM players ORDER BY created_at DESC, id DESC`)
}

func (s *Storage) queryPlayers(ctx context.Context, query string, args ...any) ([]*model.Player, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*model.Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *Storage) SaveTrainingSession(ctx context.Context, v *model.TrainingSession) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO training_sessions (
			id, player_id, session_date, hs_rate, accuracy, kills, deaths,
			map_name, duration_minutes, notes, exercise_type, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		v.ID, v.PlayerID, v.SessionDate, v.HSRate, v.Accuracy, v.Kills, v.Deaths,
		v.MapName, v.DurationMinutes, v.Notes, v.ExerciseType, v.CreatedAt,
	)
	return err
}

func (s *Storage) ListTrainingSessions(ctx context.Context, playerID model.PlayerID) ([]*model.TrainingSession, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, player_id, session_date, hs_rate, accuracy, kills, deaths,
		       map_name, duration_minutes, notes, exercise_type, created_at
		FROM training_sessions
		WHERE player_id = $1
		ORDER BY session_date DESC, created_at DESC
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*model.TrainingSession, 0)
	for rows.Next() {
		var v model.TrainingSession
		if err := rows.Scan(
			&v.ID, &v.PlayerID, &v.SessionDate, &v.HSRate, &v.Accuracy, &v.Kills, &v.Deaths,
			&v.MapName, &v.DurationMinutes, &v.Notes, &v.ExerciseType, &v.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, &v)
	}
	return sessions, rows.Err()
}

// ServerTime returns the database clock via SELECT NOW()
func (s *Storage) ServerTime(ctx context.Context) (time.Time, error) {
	var now time.Time
	err := s.pool.QueryRow(ctx, `SELECT NOW()`).Scan(&now)
	return now, err
}
