package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/inkwell/internal/blog/http"
	"github.com/aussiebroadwan/inkwell/internal/blog/service"
	"github.com/aussiebroadwan/inkwell/internal/blog/store"
	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the blog with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager

	// Services
	userService         *service.UserService
	sessionService      *service.SessionService
	postService         *service.PostService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	return NewWithLogger(cfg, slogx.New(slogx.Config{
		Service: "inkwell",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	}))
}

// NewWithLogger is New with a caller supplied logger.
func NewWithLogger(cfg Config, logger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &Application{cfg: cfg, logger: logger}

	// Fail fast on an unreadable pepper rather than at the first login
	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initKeys(); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler is the root HTTP handler, middleware included.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until ctx is cancelled, a shutdown
// signal arrives or the server fails.
func (app *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.server.Addr, err)
	}
	return app.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (app *Application) Serve(ctx context.Context, ln net.Listener) error {
	app.housekeepingService.Start()

	app.logger.Info("inkwell starting", "addr", ln.Addr().String(), "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.Serve(ln)
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
	case <-ctx.Done():
		app.logger.Info("context cancelled, shutting down")
	}

	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down inkwell...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("inkwell stopped")
	return nil
}

// initDatabase opens the configured database and applies migrations
func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initKeys() error {
	if app.cfg.SigningKeyFile == "" {
		km, err := jwtx.NewEphemeralKeyManager(app.cfg.Issuer)
		if err != nil {
			return err
		}
		app.logger.Warn("session signing key is in memory only, sessions end on restart")
		app.keyManager = km
		return nil
	}

	km, err := jwtx.LoadOrGenerateKeyManager(app.cfg.SigningKeyFile, app.cfg.Issuer)
	if err != nil {
		return err
	}
	app.logger.Info("session signing key loaded", "kid", km.Signer.KID())
	app.keyManager = km
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.userService = &service.UserService{Store: app.db}
	app.postService = &service.PostService{Store: app.db}
	app.sessionService = &service.SessionService{
		Store:       app.db,
		Signer:      app.keyManager.Signer,
		Verifier:    app.keyManager.Verifier,
		Issuer:      app.cfg.Issuer,
		SessionTTL:  app.cfg.SessionTTL,
		RememberTTL: app.cfg.RememberTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.cfg.SiteTitle,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.CookieSecure = app.cfg.CookieSecure
	router.UserService = app.userService
	router.SessionService = app.sessionService
	router.PostService = app.postService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
