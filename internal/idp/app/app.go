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

	httpapi "github.com/libelulasoft/agil-idp/internal/idp/http"
	"github.com/libelulasoft/agil-idp/internal/idp/service"
	"github.com/libelulasoft/agil-idp/internal/idp/store"
	"github.com/libelulasoft/agil-idp/internal/idp/upstream"
	"github.com/libelulasoft/agil-idp/pkg/jwtx"
	"github.com/libelulasoft/agil-idp/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	// signingKeyID is the kid published in the JWKS and stamped on every token.
	signingKeyID = "key-1"
)

// Application encapsulates the identity provider with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	keys     *jwtx.KeySet
	signer   jwtx.Signer
	verifier jwtx.Verifier
	codes    *store.CodeStore
	tokens   *store.TokenStore

	authority *upstream.Authority
	directory *upstream.Directory

	// Services
	authorizeService    *service.AuthorizeService
	tokenService        *service.TokenService
	userInfoService     *service.UserInfoService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "agil-idp",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := app.initKeys(); err != nil {
		return nil, err
	}

	app.initStores()
	app.initUpstreams()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("identity provider starting",
		"port", app.cfg.Port, "issuer", app.cfg.Issuer, "version", BuildVersion)

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

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down identity provider...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	app.logger.Info("identity provider stopped")
	return nil
}

// initKeys derives the HS256 signing key from the configured secret and
// loads it into the key set.
func (app *Application) initKeys() error {
	signer, err := jwtx.NewSignerHS256(signingKeyID, []byte(app.cfg.SigningSecret))
	if err != nil {
		return fmt.Errorf("failed to initialize signing key: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return fmt.Errorf("failed to register signing key: %w", err)
	}

	app.signer = signer
	app.keys = keys
	app.verifier = jwtx.NewCommonHS256(keys, app.cfg.Issuer, []string{app.cfg.ClientID})

	app.logger.Info("signing key loaded", "kid", signingKeyID, "alg", signer.Alg())
	return nil
}

// initStores initializes the volatile code and token stores. All grant state
// lives in process memory and is lost on restart, which is the intended
// trade-off for this provider.
func (app *Application) initStores() {
	app.codes = store.NewCodeStore(app.cfg.CodeTTL)
	app.tokens = store.NewTokenStore(app.cfg.AccessTokenTTL)
}

// initUpstreams initializes the external credential authority and profile
// directory clients. The directory is optional; without one the subject's
// email is their identity and profile claims stay empty.
func (app *Application) initUpstreams() {
	app.authority = upstream.NewAuthority(app.cfg.AuthorityURL)

	if app.cfg.DirectoryURL != "" {
		app.directory = upstream.NewDirectory(app.cfg.DirectoryURL, app.cfg.DirectoryServiceKey)
	} else {
		app.logger.Warn("no profile directory configured, tokens will carry email-only identities")
	}
}

// profileDirectory returns the directory as the service-layer interface,
// keeping it a true nil when unconfigured.
func (app *Application) profileDirectory() service.ProfileDirectory {
	if app.directory == nil {
		return nil
	}
	return app.directory
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authorizeService = &service.AuthorizeService{
		Codes:            app.codes,
		Authority:        app.authority,
		Directory:        app.profileDirectory(),
		ClientID:         app.cfg.ClientID,
		AllowedRedirects: app.cfg.AllowedRedirects,
	}

	app.tokenService = &service.TokenService{
		Signer:       app.signer,
		Codes:        app.codes,
		Tokens:       app.tokens,
		Authority:    app.authority,
		Directory:    app.profileDirectory(),
		Issuer:       app.cfg.Issuer,
		ClientID:     app.cfg.ClientID,
		ClientSecret: app.cfg.ClientSecret,
		AccessTTL:    app.cfg.AccessTokenTTL,
	}

	app.userInfoService = &service.UserInfoService{
		Tokens:    app.tokens,
		Directory: app.profileDirectory(),
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.codes,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		app.cfg.Issuer,
		BuildVersion,
		app.codes,
		app.tokens,
		app.logger,
	)

	// Wire services to router
	router.AuthorizeService = app.authorizeService
	router.TokenService = app.tokenService
	router.UserInfoService = app.userInfoService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
