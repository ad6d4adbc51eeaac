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

	httpapi "github.com/aussiebroadwan/todo/internal/todo/http"
	"github.com/aussiebroadwan/todo/internal/todo/service"
	"github.com/aussiebroadwan/todo/internal/todo/store"
	"github.com/aussiebroadwan/todo/internal/todo/store/drivers/sqlite"
	"github.com/aussiebroadwan/todo/pkg/jwtx"
	"github.com/aussiebroadwan/todo/pkg/oidc"
	"github.com/aussiebroadwan/todo/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the todo service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	keys     *jwtx.RemoteKeySet
	verifier jwtx.Verifier

	// Services
	oidcClient  *oidc.Client
	authorizer  *service.Authorizer
	todoService *service.TodoService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "todo-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.OIDCAuthority == "" {
		return nil, fmt.Errorf("OIDC_AUTHORITY is required")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initVerifier()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("todo service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down todo service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("todo service stopped")
	return nil
}

// Handler exposes the fully wired HTTP surface. Used by in-process tests
// that drive the application through httptest instead of a real listener.
func (app *Application) Handler() http.Handler {
	return app.router
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initVerifier builds the remote JWKS cache and the bearer token
// verifier on top of it. The initial key fetch is best effort: a
// provider outage at boot leaves the cache empty (readyz reports it) and
// the first verification triggers a refresh.
func (app *Application) initVerifier() {
	provider := app.providerConfig()

	app.keys = jwtx.NewRemoteKeySet(provider.JWKSEndpoint(), app.cfg.OIDCTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.OIDCTimeout)
	defer cancel()
	if err := app.keys.Refresh(ctx); err != nil {
		app.logger.Warn("initial JWKS fetch failed, continuing without keys", "error", err)
	}

	verifier := jwtx.NewRemoteVerifier(app.keys, app.cfg.OIDCAuthority, jwtx.ClaimMapping{
		SubjectClaims: app.cfg.SubjectClaims,
		RoleClaim:     app.cfg.RoleClaim,
		SessionClaims: app.cfg.SessionClaims,
		UsernameClaim: app.cfg.UsernameClaim,
	})
	if app.cfg.TokenLeeway > 0 {
		verifier = verifier.WithLeeway(app.cfg.TokenLeeway)
	}
	app.verifier = verifier
}

// initServices initializes the provider client and business logic services
func (app *Application) initServices() {
	app.oidcClient = oidc.NewClient(app.providerConfig())
	app.authorizer = service.NewAuthorizer(app.policy())
	app.todoService = &service.TodoService{Store: app.db}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.OIDC = app.oidcClient
	router.Authorizer = app.authorizer
	router.TodoService = app.todoService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func (app *Application) providerConfig() oidc.ProviderConfig {
	return oidc.ProviderConfig{
		Authority: app.cfg.OIDCAuthority,
		TokenURL:  app.cfg.OIDCTokenURL,
		RevokeURL: app.cfg.OIDCRevokeURL,
		JWKSURL:   app.cfg.OIDCJWKSURL,
		Scope:     app.cfg.OIDCScope,
		Timeout:   app.cfg.OIDCTimeout,
	}
}

// policy builds the role policy: one shared role for everything unless a
// per-operation override is configured.
func (app *Application) policy() service.Policy {
	policy := service.SharedRolePolicy(app.cfg.SharedRole)

	overrides := map[service.Operation][]string{
		service.OpList:   app.cfg.ListRoles,
		service.OpRead:   app.cfg.ReadRoles,
		service.OpCreate: app.cfg.CreateRoles,
		service.OpUpdate: app.cfg.UpdateRoles,
		service.OpDelete: app.cfg.DeleteRoles,
	}
	for op, roles := range overrides {
		if len(roles) > 0 {
			policy[op] = roles
		}
	}

	return policy
}
