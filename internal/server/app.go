// Package server wires the Gatekeeper components together: the PostgreSQL
// store and its migrations, the credential and identity services, metrics,
// and the HTTP and gRPC transports. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/config"
	"github.com/dmitrijs2005/gatekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/gatekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gatekeeper/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	metrics     *metrics.Metrics
	credentials *services.CredentialService
	identity    *services.IdentityResolver
	admin       *services.AccountAdminService
}

// openDB is a seam for tests.
var openDB = repomanager.OpenDB

// NewApp connects to the database, applies migrations and builds the
// services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app, err := newApp(c, logger, db, rm)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	issuer, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret: []byte(c.SecretKey),
		TTL:    c.AccessTokenValidityDuration,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("token issuer init error: %w", err)
	}

	m := metrics.NewMetrics(prometheus.NewRegistry())
	hasher := auth.NewPasswordHasher(c.BcryptCost)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		metrics:     m,
		credentials: services.NewCredentialService(db, rm, hasher, issuer, logger, m),
		identity:    services.NewIdentityResolver(db, rm, issuer, logger, m),
		admin:       services.NewAccountAdminService(db, rm, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// promote grants the admin role to the configured bootstrap account. A
// missing account is not fatal; the operator may register it later and
// restart.
func (app *App) promote(ctx context.Context) {
	email := app.config.PromoteEmail
	if email == "" {
		return
	}

	account, err := app.admin.Promote(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			app.logger.Warn(ctx, "promote: account not found", "email", email)
			return
		}
		app.logger.Error(ctx, "promote failed", "email", email, "error", err.Error())
		return
	}

	app.logger.Info(ctx, "account promoted", "id", account.ID, "email", account.Email)
}

func (app *App) httpServer() *httpapi.HTTPServer {
	return httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.credentials, app.identity, app.admin,
		httpapi.WithPrefix(app.config.APIPrefix),
		httpapi.WithMetrics(app.metrics),
		httpapi.WithShutdownTimeout(app.config.ShutdownTimeout),
	)
}

func (app *App) grpcServer() *gs.GRPCServer {
	return gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.credentials, app.identity, app.admin, app.metrics)
}

// Run serves both transports until ctx is cancelled, a termination signal
// arrives or one of the servers fails. The database is closed on return.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)
	app.promote(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.httpServer().Run(gctx)
	})

	g.Go(func() error {
		return app.grpcServer().Run(gctx)
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server error", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
