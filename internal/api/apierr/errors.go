package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/cs2coach/internal/forms"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/services/dashboard"
	"github.com/mcoot/cs2coach/internal/services/tokens"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidation         = "VALIDATION_FAILED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidAPIKey      = "INVALID_API_KEY"
	CodeForbidden          = "FORBIDDEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeNotPlayerOwner     = "NOT_PLAYER_OWNER"
	CodeInvalidTraining    = "INVALID_TRAINING_SESSION"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeStaleSelection     = "STALE_SELECTION"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError. Provider messages are passed
// through unchanged.
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		return &httpError{http.StatusBadRequest, APIError{CodeValidation, ve.Message}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrNotPlayerOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotPlayerOwner, "Player belongs to another account"}}
	case errors.Is(err, model.ErrPlayerNameEmpty):
		return &httpError{http.StatusBadRequest, APIError{CodeValidation, forms.MsgPlayerNameRequired}}
	case errors.Is(err, model.ErrInvalidSession):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTraining, err.Error()}}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Forbidden"}}
	case errors.Is(err, dashboard.ErrStaleSelection):
		return &httpError{http.StatusConflict, APIError{CodeStaleSelection, err.Error()}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCredentials, err.Error()}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrEmailExists):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeEmailExists, err.Error()}}
	case errors.Is(err, auth.ErrWeakPassword):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeWeakPassword, err.Error()}}
	case errors.Is(err, auth.ErrEmailRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeValidation, err.Error()}}
	case errors.Is(err, tokens.ErrInvalidToken):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidToken, "Link is invalid or has expired"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInvalidAPIKeyError is returned when the apikey header is missing or wrong
func NewInvalidAPIKeyError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeInvalidAPIKey, "Invalid API key"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
