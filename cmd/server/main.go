package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/cs2coach/internal/api"
	"github.com/mcoot/cs2coach/internal/config"
	"github.com/mcoot/cs2coach/internal/factory"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/services/tokens"
	"github.com/mcoot/cs2coach/internal/web"
)

// sessionSweepInterval is how often expired sessions are dropped
const sessionSweepInterval = 10 * time.Minute

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	authCfg := auth.DefaultConfig()
	authCfg.PublicURL = cfg.PublicURL
	tokenCfg := tokens.DefaultConfig()
	tokenCfg.Secret = cfg.TokenSecret

	// Create application factory
	app, err := factory.New(ctx, factory.Config{
		ProviderURL:  cfg.ProviderURL,
		DatabaseURL:  cfg.DatabaseURL,
		AuthConfig:   authCfg,
		TokenConfig:  tokenCfg,
		ResendAPIKey: cfg.ResendAPIKey,
		EmailFrom:    cfg.EmailFrom,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	// API routes are registered first so the web catch-all does not shadow them
	router := mux.NewRouter()
	api.Register(router, api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		TrainingController: app.TrainingController,
		TimeSource:         app.TimeSource,
		ProviderKey:        cfg.ProviderKey,
		AdminSetupToken:    cfg.AdminSetupToken,
	})
	web.Register(router, web.RouterConfig{
		Logger:              logger,
		AuthService:         app.AuthService,
		TrainingController:  app.TrainingController,
		DashboardController: app.DashboardController,
		Clock:               app.Clock,
		SessionTTL:          authCfg.SessionDuration,
		CSRFKey:             []byte(cfg.CSRFKey),
		SecureCookies:       cfg.SecureCookies,
		StaticDir:           findStaticDir(),
	})
	if cfg.CSRFKey == "" {
		logger.Warn("CSRF_KEY not set, form CSRF protection is disabled")
	}

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port, err := strconv.Atoi(cfg.Port); err == nil {
		serverConfig.Port = port
	}
	server := api.NewServer(router, serverConfig, logger)

	go sweepSessions(ctx, app.AuthService)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func sweepSessions(ctx context.Context, authService *auth.Service) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			authService.CleanExpiredSessions()
		}
	}
}

// findStaticDir returns the static files directory, or "" when there is none
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		"./static",
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
