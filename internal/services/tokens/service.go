// Package tokens issues and verifies signed, single-purpose tokens used for
// password reset links and invitations.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/cs2coach/internal/dependencies/clock"
	"github.com/mcoot/cs2coach/internal/model"
)

// Errors
var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNoSecret     = errors.New("token secret not configured")
)

// Purpose distinguishes what a token may be redeemed for
type Purpose string

const (
	PurposePasswordReset Purpose = "password_reset"
	PurposeInvite        Purpose = "invite"
)

const issuer = "cs2coach"

// Claims carried by every token
type Claims struct {
	jwt.RegisteredClaims
	Purpose Purpose    `json:"purpose"`
	Email   string     `json:"email,omitempty"`
	Role    model.Role `json:"role,omitempty"`
	// Stamp ties a reset token to the password it was issued against
	Stamp string `json:"stamp,omitempty"`
}

// Config holds configuration for the token service
type Config struct {
	Secret        string
	ResetDuration time.Duration
	InviteTTL     time.Duration
}

// DefaultConfig returns default token lifetimes
func DefaultConfig() Config {
	return Config{
		ResetDuration: time.Hour,
		InviteTTL:     7 * 24 * time.Hour,
	}
}

// Service signs and verifies tokens with HMAC-SHA256
type Service struct {
	secret        []byte
	clock         clock.Clock
	resetDuration time.Duration
	inviteTTL     time.Duration
}

// New creates a token service
func New(clk clock.Clock, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.ResetDuration == 0 {
		cfg.ResetDuration = defaults.ResetDuration
	}
	if cfg.InviteTTL == 0 {
		cfg.InviteTTL = defaults.InviteTTL
	}
	return &Service{
		secret:        []byte(cfg.Secret),
		clock:         clk,
		resetDuration: cfg.ResetDuration,
		inviteTTL:     cfg.InviteTTL,
	}
}

// IssuePasswordReset creates a token allowing the user to set a new password.
// The caller checks stamp against the account when the token is redeemed.
func (s *Service) IssuePasswordReset(userID model.UserID, stamp string) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: s.registered(string(userID), s.resetDuration),
		Purpose:          PurposePasswordReset,
		Stamp:            stamp,
	})
}

// VerifyPasswordReset returns the user a reset token was issued for and the
// stamp it carries
func (s *Service) VerifyPasswordReset(token string) (model.UserID, string, error) {
	claims, err := s.verify(token, PurposePasswordReset)
	if err != nil {
		return "", "", err
	}
	return model.UserID(claims.Subject), claims.Stamp, nil
}

// IssueInvite creates an invitation for the given email with a preassigned role
func (s *Service) IssueInvite(email string, role model.Role) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: s.registered(model.NormalizeEmail(email), s.inviteTTL),
		Purpose:          PurposeInvite,
		Email:            model.NormalizeEmail(email),
		Role:             role,
	})
}

// VerifyInvite returns the claims of a valid invitation
func (s *Service) VerifyInvite(token string) (*Claims, error) {
	return s.verify(token, PurposeInvite)
}

func (s *Service) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := s.clock.Now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *Service) sign(claims Claims) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) verify(token string, purpose Purpose) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrNoSecret
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
