package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/tabkeep/authd/internal/auth/http"
	"github.com/tabkeep/authd/internal/auth/service"
	"github.com/tabkeep/authd/internal/auth/store"
	mongostore "github.com/tabkeep/authd/internal/auth/store/drivers/mongo"
	"github.com/tabkeep/authd/pkg/cryptox"
	"github.com/tabkeep/authd/pkg/jwtx"
	"github.com/tabkeep/authd/pkg/slogx"
	"github.com/tabkeep/authd/pkg/totpx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	// connectTimeout bounds store connection and index creation at startup.
	connectTimeout = 10 * time.Second
)

// Application encapsulates the auth service with all its dependencies.
// Nothing here is a package-level singleton; New wires everything
// explicitly and Run owns the lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer

	authService      *service.AuthService
	twoFactorService *service.TwoFactorService
	userService      *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	signer, err := jwtx.NewSigner([]byte(cfg.JWTSecret), cfg.Issuer, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(ctx); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase connects the document store and ensures its indexes.
func (app *Application) initDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := mongostore.NewStore(ctx, app.cfg.MongoURI, app.cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("failed to ensure database indexes: %w", err)
	}

	app.logger.Info("database indexes ensured")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	totpEngine := totpx.New(app.cfg.Issuer)

	app.authService = &service.AuthService{
		Store:  app.db,
		Hasher: cryptox.Bcrypt{Cost: cryptox.DefaultCost},
		TOTP:   totpEngine,
		Tokens: app.signer,
	}
	app.twoFactorService = &service.TwoFactorService{
		Store: app.db,
		TOTP:  totpEngine,
	}
	app.userService = &service.UserService{Store: app.db}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.signer, BuildVersion, app.db, app.logger)

	router.AuthService = app.authService
	router.TwoFactorService = app.twoFactorService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
