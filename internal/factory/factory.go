package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/cs2coach/internal/dependencies/clock"
	"github.com/mcoot/cs2coach/internal/dependencies/random"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/services/dashboard"
	"github.com/mcoot/cs2coach/internal/services/mailer"
	"github.com/mcoot/cs2coach/internal/services/tokens"
	"github.com/mcoot/cs2coach/internal/services/training"
	"github.com/mcoot/cs2coach/internal/storage"
	"github.com/mcoot/cs2coach/internal/storage/memory"
	pgstorage "github.com/mcoot/cs2coach/internal/storage/postgres"
	redisstorage "github.com/mcoot/cs2coach/internal/storage/redis"
)

// Storage type constants, taken from the provider URL scheme
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// TimeSource is the backend database connection, or Storage when none is configured
	TimeSource storage.TimeSource

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Mailer mailer.Sender

	// Services
	Tokens              *tokens.Service
	AuthService         *auth.Service
	TrainingController  *training.Controller
	DashboardController *dashboard.Controller

	closers []func() error
}

// Config holds configuration for the application factory
type Config struct {
	// ProviderURL selects the storage backend by scheme.
	// memory:// (or empty), redis://, rediss://, postgres://, postgresql://
	ProviderURL string
	// DatabaseURL is an optional separate postgres connection for TimeSource
	DatabaseURL string
	// AuthConfig holds configuration for the auth service (optional)
	AuthConfig auth.Config
	// TokenConfig holds configuration for reset and invite tokens.
	// A random secret is generated when Secret is empty.
	TokenConfig tokens.Config
	// ResendAPIKey enables email delivery; when empty emails are only logged
	ResendAPIKey string
	EmailFrom    string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// StorageType returns the backend named by a provider URL
func StorageType(providerURL string) (string, error) {
	if providerURL == "" {
		return StorageTypeMemory, nil
	}
	u, err := url.Parse(providerURL)
	if err != nil {
		return "", fmt.Errorf("parse provider url: %w", err)
	}
	switch u.Scheme {
	case "memory":
		return StorageTypeMemory, nil
	case "redis", "rediss":
		return StorageTypeRedis, nil
	case "postgres", "postgresql":
		return StorageTypePostgres, nil
	default:
		return "", fmt.Errorf("unsupported provider url scheme %q", u.Scheme)
	}
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType, err := StorageType(cfg.ProviderURL)
	if err != nil {
		return nil, err
	}

	var closers []func() error

	// Create storage based on type
	var store storage.Storage
	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.ProviderURL
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store = redisStore
		closers = append(closers, redisStore.Close)
	case StorageTypePostgres:
		pgStore, err := pgstorage.New(ctx, cfg.ProviderURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store = pgStore
		closers = append(closers, pgStore.Close)
	}
	logger.Info("storage configured", slog.String("type", storageType))

	var timeSource storage.TimeSource = store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("open database: %w", err)
		}
		timeSource = pgstorage.NewWithPool(pool)
		closers = append(closers, func() error {
			pool.Close()
			return nil
		})
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	var sender mailer.Sender
	if cfg.ResendAPIKey != "" {
		sender = mailer.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, logger)
	} else {
		logger.Warn("RESEND_API_KEY not set, emails will only be logged")
		sender = mailer.NewLogSender(logger)
	}

	tokenCfg := cfg.TokenConfig
	if tokenCfg.Secret == "" {
		logger.Warn("TOKEN_SECRET not set, reset and invite links will not survive a restart")
		tokenCfg.Secret = random.Token(rnd)
	}

	app := newWithDependencies(store, clk, rnd, sender, tokenCfg, cfg.AuthConfig, logger)
	app.TimeSource = timeSource
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	sender mailer.Sender,
	tokenCfg tokens.Config,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	tokenService := tokens.New(clk, tokenCfg)
	authService := auth.New(store, clk, rnd, tokenService, sender, authCfg)
	trainingController := training.NewController(store, clk, logger)
	dashboardController := dashboard.NewController(trainingController, logger)

	return &App{
		Storage:             store,
		TimeSource:          store,
		Clock:               clk,
		Random:              rnd,
		Mailer:              sender,
		Tokens:              tokenService,
		AuthService:         authService,
		TrainingController:  trainingController,
		DashboardController: dashboardController,
	}
}

// Close releases storage connections
func (a *App) Close() error {
	return closeAll(a.closers)
}

func closeAll(closers []func() error) error {
	var errs []error
	for _, c := range closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
