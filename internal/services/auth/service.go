package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/cs2coach/internal/dependencies/clock"
	"github.com/mcoot/cs2coach/internal/dependencies/random"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/mailer"
	"github.com/mcoot/cs2coach/internal/services/tokens"
	"github.com/mcoot/cs2coach/internal/storage"
)

// MinPasswordLength is the shortest password the provider accepts
const MinPasswordLength = 6

// Errors. Messages are shown to users verbatim.
var (
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrEmailExists        = errors.New("User already registered")
	ErrEmailRequired      = errors.New("Email is required")
	ErrWeakPassword       = fmt.Errorf("Password should be at least %d characters", MinPasswordLength)
)

// Session represents an authenticated session
type Session struct {
	Token     string
	UserID    model.UserID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service is the auth provider: accounts, sessions, password reset and admin operations
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	tokens  *tokens.Service
	mailer  mailer.Sender

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
	publicURL       string
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration

	// PublicURL is the externally reachable base URL used in emailed links
	PublicURL string
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		PublicURL:       "http://localhost:8080",
	}
}

// New creates a new auth Service
func New(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	tokens *tokens.Service,
	mailer mailer.Sender,
	cfg Config,
) *Service {
	defaults := DefaultConfig()
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = defaults.SessionDuration
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = defaults.PublicURL
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		random:          random,
		tokens:          tokens,
		mailer:          mailer,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
		publicURL:       strings.TrimRight(cfg.PublicURL, "/"),
	}
}

// SignUp registers an account, stores the player name in user metadata and
// creates the account's first player
func (s *Service) SignUp(ctx context.Context, email, password, playerName string) (*model.User, error) {
	return s.register(ctx, email, password, playerName, model.RoleNone)
}

func (s *Service) register(ctx context.Context, email, password, playerName string, role model.Role) (*model.User, error) {
	user, err := s.createUser(ctx, email, password, true)
	if err != nil {
		return nil, err
	}

	if playerName = strings.TrimSpace(playerName); playerName != "" {
		user.UserMetadata.PlayerName = playerName
	}
	user.AppMetadata.Role = role
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	if playerName != "" {
		now := s.clock.Now()
		player := &model.Player{
			ID:         model.PlayerID(uuid.NewString()),
			UserID:     user.ID,
			PlayerName: playerName,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.storage.SavePlayer(ctx, player); err != nil {
			return nil, fmt.Errorf("create first player: %w", err)
		}
	}

	return user, nil
}

// SignIn authenticates by email and password and creates a session
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(user), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// RecoverSession resolves a session token to its current user record
func (s *Service) RecoverSession(ctx context.Context, token string) (*model.User, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.InvalidateSession(token)
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}

// InvalidateSession removes a session (sign out)
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// RequestPasswordReset mails a reset link. Unknown emails succeed silently.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := s.tokens.IssuePasswordReset(user.ID, passwordStamp(user))
	if err != nil {
		return err
	}

	link := s.publicURL + "/reset-password?token=" + url.QueryEscape(token)
	return s.mailer.Send(ctx, mailer.PasswordResetMessage(user.Email, link))
}

// ResetPassword sets a new password using an emailed reset token and ends the
// user's existing sessions. A token stops working once the password changes.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	userID, stamp, err := s.tokens.VerifyPasswordReset(token)
	if err != nil {
		return err
	}

	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return tokens.ErrInvalidToken
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stamp), []byte(passwordStamp(user))) != 1 {
		return tokens.ErrInvalidToken
	}

	if err := s.UpdatePassword(ctx, userID, password); err != nil {
		return err
	}
	s.revokeUserSessions(userID)
	return nil
}

// UpdatePassword replaces the password of a signed-in user
func (s *Service) UpdatePassword(ctx context.Context, userID model.UserID, password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = s.clock.Now()
	return s.storage.SaveUser(ctx, user)
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// createUser hashes the password and persists a new account with no role
func (s *Service) createUser(ctx context.Context, email, password string, confirmed bool) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	_, err := s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:             model.UserID(uuid.NewString()),
		Email:          email,
		PasswordHash:   string(hash),
		EmailConfirmed: confirmed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// createSession creates a new session for a user
func (s *Service) createSession(user *model.User) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     random.Token(s.random),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// passwordStamp fingerprints the stored password hash. bcrypt salts every
// hash, so any password change produces a new stamp.
func passwordStamp(user *model.User) string {
	sum := sha256.Sum256([]byte(user.PasswordHash))
	return hex.EncodeToString(sum[:8])
}

func (s *Service) revokeUserSessions(userID model.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
}
