package handler

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/cs2coach/internal/api/request"
	"github.com/mcoot/cs2coach/internal/api/response"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/storage"
)

// SetupTokenHeader carries the admin setup token on bootstrap requests
const SetupTokenHeader = "X-Setup-Token"

// BackendHandler serves the unversioned backend endpoints. Errors use a
// flat {"error": message} body.
type BackendHandler struct {
	authService *auth.Service
	timeSource  storage.TimeSource
	setupToken  string
	logger      *slog.Logger
}

// NewBackendHandler creates a new backend handler
func NewBackendHandler(authService *auth.Service, timeSource storage.TimeSource, setupToken string, logger *slog.Logger) *BackendHandler {
	return &BackendHandler{
		authService: authService,
		timeSource:  timeSource,
		setupToken:  setupToken,
		logger:      logger,
	}
}

// Root handles GET /
func (h *BackendHandler) Root(w http.ResponseWriter, _ *http.Request) {
	response.Text(w, http.StatusOK, "Backend running")
}

// Test handles GET /api/test, reporting the database's current time
func (h *BackendHandler) Test(w http.ResponseWriter, r *http.Request) {
	now, err := h.timeSource.ServerTime(r.Context())
	if err != nil {
		h.logger.Error("database time query failed", "error", err)
		response.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"now": now})
}

// Bootstrap handles POST /api/admin/bootstrap. An unset setup token rejects
// every request.
func (h *BackendHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	given := r.Header.Get(SetupTokenHeader)
	if h.setupToken == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.setupToken)) != 1 {
		response.JSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		return
	}

	var req request.BootstrapRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		response.JSON(w, http.StatusBadRequest, map[string]string{"error": "email and password required"})
		return
	}

	user, err := h.authService.Bootstrap(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("admin bootstrap failed", "error", err)
		response.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{"ok": true, "userId": user.ID})
}
