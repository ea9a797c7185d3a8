package request

// SignUpRequest is the request body for creating an account
type SignUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	PlayerName      string `json:"player_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordResetRequest asks for a reset link to be mailed
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest sets a new password using a mailed token
type PasswordResetConfirmRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UpdatePasswordRequest changes the signed-in user's password
type UpdatePasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// CreatePlayerRequest is the request body for adding a player
type CreatePlayerRequest struct {
	PlayerName string `json:"player_name"`
}

// CreateSessionRequest is the request body for recording a training session.
// SessionDate is YYYY-MM-DD; empty means today.
type CreateSessionRequest struct {
	SessionDate     string  `json:"session_date,omitempty"`
	HSRate          float64 `json:"hs_rate"`
	Accuracy        float64 `json:"accuracy"`
	Kills           int     `json:"kills"`
	Deaths          int     `json:"deaths"`
	MapName         string  `json:"map_name"`
	DurationMinutes float64 `json:"duration_minutes"`
	Notes           string  `json:"notes,omitempty"`
	ExerciseType    string  `json:"exercise_type,omitempty"`
}

// BootstrapRequest is the body of the admin bootstrap endpoint
type BootstrapRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
