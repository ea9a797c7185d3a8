package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/cs2coach/internal/dependencies/clock"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/services/dashboard"
	"github.com/mcoot/cs2coach/internal/services/session"
	"github.com/mcoot/cs2coach/internal/services/training"
	"github.com/mcoot/cs2coach/internal/web/handler"
	"github.com/mcoot/cs2coach/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger              *slog.Logger
	AuthService         *auth.Service
	TrainingController  *training.Controller
	DashboardController *dashboard.Controller
	Clock               clock.Clock
	SessionTTL          time.Duration
	CSRFKey             []byte // empty disables CSRF protection
	SecureCookies       bool
	StaticDir           string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register adds the web routes to an existing router. The page route
// matches every GET, so register it after more specific routes.
func Register(r *mux.Router, cfg RouterConfig) {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = auth.DefaultConfig().SessionDuration
	}

	// Create handlers
	pageHandler := handler.NewPageHandler(cfg.AuthService, cfg.TrainingController, cfg.DashboardController, cfg.Clock, cfg.Logger)
	authHandler := handler.NewAuthHandler(cfg.AuthService, pageHandler, cfg.SessionTTL, cfg.SecureCookies)
	trainingHandler := handler.NewTrainingHandler(cfg.TrainingController, pageHandler, cfg.Logger)
	accountHandler := handler.NewAccountHandler(cfg.AuthService, pageHandler, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	web := r.NewRoute().Subrouter()
	web.Use(middleware.Recovery(cfg.Logger))
	web.Use(middleware.CSRF(cfg.CSRFKey, cfg.SecureCookies))
	web.Use(middleware.Flash())
	web.Use(middleware.Session(session.NewAuthClient(cfg.AuthService)))
	web.Use(middleware.Logging(cfg.Logger))

	// Auth actions (no session required)
	authRoutes := web.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/signup", authHandler.SignUp).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	authRoutes.HandleFunc("/forgot-password", authHandler.ForgotPassword).Methods(http.MethodPost)
	authRoutes.HandleFunc("/reset-password", authHandler.ResetPassword).Methods(http.MethodPost)
	authRoutes.HandleFunc("/invite", authHandler.AcceptInvite).Methods(http.MethodPost)

	// Protected actions (require a signed-in user)
	protected := web.NewRoute().Subrouter()
	protected.Use(middleware.RequireUser())
	protected.HandleFunc("/players", trainingHandler.AddPlayer).Methods(http.MethodPost)
	protected.HandleFunc("/sessions", trainingHandler.AddSession).Methods(http.MethodPost)
	protected.HandleFunc("/profile/password", accountHandler.UpdatePassword).Methods(http.MethodPost)

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin())
	admin.HandleFunc("/invite", accountHandler.Invite).Methods(http.MethodPost)
	admin.HandleFunc("/role", accountHandler.SetRole).Methods(http.MethodPost)

	// Every page is resolved from the path and the signed-in user
	web.PathPrefix("/").HandlerFunc(pageHandler.View).Methods(http.MethodGet)
}
