// Command backend runs only the HTTP backend: health text, database time,
// admin bootstrap and the JSON API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mcoot/cs2coach/internal/api"
	"github.com/mcoot/cs2coach/internal/config"
	"github.com/mcoot/cs2coach/internal/factory"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/services/tokens"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	authCfg := auth.DefaultConfig()
	authCfg.PublicURL = cfg.PublicURL
	tokenCfg := tokens.DefaultConfig()
	tokenCfg.Secret = cfg.TokenSecret

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

	router := api.NewBackendRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		TrainingController: app.TrainingController,
		TimeSource:         app.TimeSource,
		ProviderKey:        cfg.ProviderKey,
		AdminSetupToken:    cfg.AdminSetupToken,
	})

	serverConfig := api.DefaultServerConfig()
	if port, err := strconv.Atoi(cfg.Port); err == nil {
		serverConfig.Port = port
	}
	server := api.NewServer(router, serverConfig, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

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
}
