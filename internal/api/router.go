package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cs2coach/internal/api/handler"
	"github.com/mcoot/cs2coach/internal/api/middleware"
	"github.com/mcoot/cs2coach/internal/api/response"
	sharedmw "github.com/mcoot/cs2coach/internal/middleware"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/services/training"
	"github.com/mcoot/cs2coach/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        *auth.Service
	TrainingController *training.Controller
	TimeSource         storage.TimeSource
	ProviderKey        string
	AdminSetupToken    string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register adds the backend and /api/v1 routes to an existing router
func Register(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	backendHandler := handler.NewBackendHandler(cfg.AuthService, cfg.TimeSource, cfg.AdminSetupToken, cfg.Logger)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	playerHandler := handler.NewPlayerHandler(cfg.TrainingController)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	apiKeyMiddleware := middleware.APIKey(cfg.ProviderKey)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// Backend endpoints
	backend := r.NewRoute().Subrouter()
	backend.Use(recoveryMiddleware)
	backend.Use(loggingMiddleware)
	backend.HandleFunc("/api/test", backendHandler.Test).Methods(http.MethodGet)
	backend.HandleFunc("/api/admin/bootstrap", backendHandler.Bootstrap).Methods(http.MethodPost)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Health check endpoint (no key)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	keyed := api.NewRoute().Subrouter()
	keyed.Use(apiKeyMiddleware)

	// Auth routes (no session required)
	keyed.HandleFunc("/auth/signup", authHandler.SignUp).Methods(http.MethodPost)
	keyed.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	keyed.HandleFunc("/auth/password-reset", authHandler.RequestPasswordReset).Methods(http.MethodPost)
	keyed.HandleFunc("/auth/password-reset/confirm", authHandler.ConfirmPasswordReset).Methods(http.MethodPost)

	// Protected routes
	protected := keyed.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/recover", authHandler.Recover).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/password", authHandler.UpdatePassword).Methods(http.MethodPost)

	protected.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/players/{id}/sessions", playerHandler.ListSessions).Methods(http.MethodGet)
	protected.HandleFunc("/players/{id}/sessions", playerHandler.CreateSession).Methods(http.MethodPost)
	protected.HandleFunc("/players/{id}/stats", playerHandler.Stats).Methods(http.MethodGet)
	protected.HandleFunc("/players/{id}/chart", playerHandler.Chart).Methods(http.MethodGet)
}

// NewBackendRouter is the standalone backend: the health text at / plus the API
func NewBackendRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	backendHandler := handler.NewBackendHandler(cfg.AuthService, cfg.TimeSource, cfg.AdminSetupToken, cfg.Logger)
	r.HandleFunc("/", backendHandler.Root).Methods(http.MethodGet)
	Register(r, cfg)
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
