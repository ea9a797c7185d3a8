package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email belongs to another user")

	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrNotPlayerOwner  = errors.New("player is not owned by this account")
	ErrPlayerNameEmpty = errors.New("player name is required")

	// Training session errors
	ErrInvalidSession = errors.New("invalid training session")

	// Access errors
	ErrForbidden = errors.New("forbidden")
)
