package model

import (
	"strings"
	"time"
)

// UserID uniquely identifies an account in the auth subsystem
type UserID string

// Role is stamped into a user's app metadata and gates the coach and admin pages
type Role string

const (
	RoleNone   Role = ""
	RolePlayer Role = "player"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

// ParseRole converts a string into a known Role
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleNone, RolePlayer, RoleCoach, RoleAdmin:
		return r, true
	default:
		return RoleNone, false
	}
}

// UserMetadata is profile data supplied by the user at sign-up
type UserMetadata struct {
	PlayerName string `json:"player_name,omitempty"`
}

// AppMetadata is data only the server may change
type AppMetadata struct {
	Role Role `json:"role,omitempty"`
}

// User is an authenticated account
type User struct {
	ID             UserID       `json:"id"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"password_hash"`
	EmailConfirmed bool         `json:"email_confirmed"`
	UserMetadata   UserMetadata `json:"user_metadata"`
	AppMetadata    AppMetadata  `json:"app_metadata"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// IsAdmin returns true if the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.AppMetadata.Role == RoleAdmin
}

// CanCoach returns true if the user may view every player's statistics
func (u *User) CanCoach() bool {
	return u.AppMetadata.Role == RoleCoach || u.AppMetadata.Role == RoleAdmin
}

// DisplayName returns the player name from metadata, falling back to the email
func (u *User) DisplayName() string {
	if u.UserMetadata.PlayerName != "" {
		return u.UserMetadata.PlayerName
	}
	return u.Email
}

// NormalizeEmail lowercases and trims an email for lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
