// Package forms validates user input before any provider call is made.
package forms

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/services/training"
)

// DateLayout is the format of date inputs
const DateLayout = "2006-01-02"

// Validation messages shown inline
const (
	MsgPasswordMismatch   = "Passwords do not match"
	MsgPasswordTooShort   = "Password must be at least 6 characters"
	MsgPlayerNameRequired = "Player name is required"
	MsgEmailRequired      = "Email is required"
	MsgPasswordRequired   = "Password is required"
	MsgMapRequired        = "Map is required"
	MsgPlayerRequired     = "Select a player"
	MsgTokenRequired      = "This link is missing its token"
)

// ValidationError is a local input problem, reported before any network call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validator is implemented by every form
type Validator interface {
	Validate() error
}

// Submit validates the form and, only when valid, makes the single provider call
func Submit(form Validator, call func() error) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return call()
}

// SignUp is the account registration form
type SignUp struct {
	Email           string
	Password        string
	ConfirmPassword string
	PlayerName      string
}

// SignUpFromValues reads a SignUp form from posted values
func SignUpFromValues(v url.Values) SignUp {
	return SignUp{
		Email:           strings.TrimSpace(v.Get("email")),
		Password:        v.Get("password"),
		ConfirmPassword: v.Get("confirm_password"),
		PlayerName:      strings.TrimSpace(v.Get("player_name")),
	}
}

// Validate checks the password match, then its length, then the player name
func (f SignUp) Validate() error {
	if err := validateNewPassword(f.Password, f.ConfirmPassword); err != nil {
		return err
	}
	if strings.TrimSpace(f.PlayerName) == "" {
		return invalid("player_name", MsgPlayerNameRequired)
	}
	return nil
}

func validateNewPassword(password, confirm string) error {
	if password != confirm {
		return invalid("confirm_password", MsgPasswordMismatch)
	}
	if len(password) < auth.MinPasswordLength {
		return invalid("password", MsgPasswordTooShort)
	}
	return nil
}

// Login is the sign-in form
type Login struct {
	Email    string
	Password string
}

// LoginFromValues reads a Login form from posted values
func LoginFromValues(v url.Values) Login {
	return Login{
		Email:    strings.TrimSpace(v.Get("email")),
		Password: v.Get("password"),
	}
}

func (f Login) Validate() error {
	if f.Email == "" {
		return invalid("email", MsgEmailRequired)
	}
	if f.Password == "" {
		return invalid("password", MsgPasswordRequired)
	}
	return nil
}

// AddPlayer is the new player form
type AddPlayer struct {
	Name string
}

// AddPlayerFromValues reads an AddPlayer form from posted values
func AddPlayerFromValues(v url.Values) AddPlayer {
	return AddPlayer{Name: strings.TrimSpace(v.Get("player_name"))}
}

func (f AddPlayer) Validate() error {
	if f.Name == "" {
		return invalid("player_name", MsgPlayerNameRequired)
	}
	return nil
}

// ForgotPassword requests a reset email
type ForgotPassword struct {
	Email string
}

// ForgotPasswordFromValues reads a ForgotPassword form from posted values
func ForgotPasswordFromValues(v url.Values) ForgotPassword {
	return ForgotPassword{Email: strings.TrimSpace(v.Get("email"))}
}

func (f ForgotPassword) Validate() error {
	if f.Email == "" {
		return invalid("email", MsgEmailRequired)
	}
	return nil
}

// ResetPassword sets a new password, either from an emailed token or on the profile page
type ResetPassword struct {
	Token           string
	Password        string
	ConfirmPassword string
}

// ResetPasswordFromValues reads a ResetPassword form from posted values
func ResetPasswordFromValues(v url.Values) ResetPassword {
	return ResetPassword{
		Token:           v.Get("token"),
		Password:        v.Get("password"),
		ConfirmPassword: v.Get("confirm_password"),
	}
}

func (f ResetPassword) Validate() error {
	return validateNewPassword(f.Password, f.ConfirmPassword)
}

// ValidateWithToken additionally requires the emailed token
func (f ResetPassword) ValidateWithToken() error {
	if f.Token == "" {
		return invalid("token", MsgTokenRequired)
	}
	return f.Validate()
}

// InviteSignup registers through an invitation link
type InviteSignup struct {
	Token           string
	Password        string
	ConfirmPassword string
	PlayerName      string
}

// InviteSignupFromValues reads an InviteSignup form from posted values
func InviteSignupFromValues(v url.Values) InviteSignup {
	return InviteSignup{
		Token:           v.Get("token"),
		Password:        v.Get("password"),
		ConfirmPassword: v.Get("confirm_password"),
		PlayerName:      strings.TrimSpace(v.Get("player_name")),
	}
}

func (f InviteSignup) Validate() error {
	if f.Token == "" {
		return invalid("token", MsgTokenRequired)
	}
	return SignUp{Password: f.Password, ConfirmPassword: f.ConfirmPassword, PlayerName: f.PlayerName}.Validate()
}

// AddSession is the training session form. Numbers arrive as text.
type AddSession struct {
	PlayerID        string
	SessionDate     string
	HSRate          string
	Accuracy        string
	Kills           string
	Deaths          string
	MapName         string
	DurationMinutes string
	Notes           string
	ExerciseType    string
}

// AddSessionFromValues reads an AddSession form from posted values
func AddSessionFromValues(v url.Values) AddSession {
	return AddSession{
		PlayerID:        strings.TrimSpace(v.Get("player_id")),
		SessionDate:     strings.TrimSpace(v.Get("session_date")),
		HSRate:          strings.TrimSpace(v.Get("hs_rate")),
		Accuracy:        strings.TrimSpace(v.Get("accuracy")),
		Kills:           strings.TrimSpace(v.Get("kills")),
		Deaths:          strings.TrimSpace(v.Get("deaths")),
		MapName:         strings.TrimSpace(v.Get("map_name")),
		DurationMinutes: strings.TrimSpace(v.Get("duration_minutes")),
		Notes:           v.Get("notes"),
		ExerciseType:    strings.TrimSpace(v.Get("exercise_type")),
	}
}

func (f AddSession) Validate() error {
	_, err := f.Input()
	return err
}

// Input parses the form into a session input. An empty date means today.
func (f AddSession) Input() (training.SessionInput, error) {
	in := training.SessionInput{
		PlayerID:     model.PlayerID(f.PlayerID),
		MapName:      f.MapName,
		Notes:        f.Notes,
		ExerciseType: f.ExerciseType,
	}

	if f.PlayerID == "" {
		return in, invalid("player_id", MsgPlayerRequired)
	}
	if f.SessionDate != "" {
		d, err := time.Parse(DateLayout, f.SessionDate)
		if err != nil {
			return in, invalid("session_date", "Date must be YYYY-MM-DD")
		}
		in.SessionDate = d
	}

	var err error
	if in.HSRate, err = parseFloat(f.HSRate, "hs_rate", "Headshot rate"); err != nil {
		return in, err
	}
	if in.Accuracy, err = parseFloat(f.Accuracy, "accuracy", "Accuracy"); err != nil {
		return in, err
	}
	if in.Kills, err = parseCount(f.Kills, "kills", "Kills"); err != nil {
		return in, err
	}
	if in.Deaths, err = parseCount(f.Deaths, "deaths", "Deaths"); err != nil {
		return in, err
	}
	if f.MapName == "" {
		return in, invalid("map_name", MsgMapRequired)
	}
	if in.DurationMinutes, err = parseFloat(f.DurationMinutes, "duration_minutes", "Duration"); err != nil {
		return in, err
	}
	if in.DurationMinutes < 0 {
		return in, invalid("duration_minutes", "Duration cannot be negative")
	}
	return in, nil
}

func parseFloat(raw, field, label string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid(field, label+" must be a number")
	}
	return v, nil
}

func parseCount(raw, field, label string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, invalid(field, label+" must be a whole number of 0 or more")
	}
	return v, nil
}
