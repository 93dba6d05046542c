package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/leadflow/crm-api/internal/api"
	"github.com/leadflow/crm-api/internal/api/handler"
	"github.com/leadflow/crm-api/internal/core/ports"
	"github.com/leadflow/crm-api/internal/core/service"
	"github.com/leadflow/crm-api/internal/infrastructure/db/memory"
	mongodb "github.com/leadflow/crm-api/internal/infrastructure/db/mongo"
	"github.com/leadflow/crm-api/internal/infrastructure/db/postgres"
	redisdb "github.com/leadflow/crm-api/internal/infrastructure/db/redis"
	"github.com/leadflow/crm-api/internal/infrastructure/queue"
	"github.com/leadflow/crm-api/internal/infrastructure/telemetry"
	"github.com/leadflow/crm-api/internal/pkg/config"
	"github.com/leadflow/crm-api/pkg/logger"
)

// repositories is one store driver's set of ports.
type repositories struct {
	users      ports.UserRepository
	leads      ports.LeadRepository
	activities ports.ActivityRepository
}

// Application owns every long-lived dependency of the service.
type Application struct {
	cfg *config.Config
	log zerolog.Logger

	repos      repositories
	revoker    ports.TokenRevoker
	readiness  map[string]handler.Pinger
	dispatcher *queue.Dispatcher
	auth       *service.AuthService

	echo   *echo.Echo
	server *http.Server

	// closers run in reverse order on shutdown.
	closers []func(context.Context) error
}

// New builds the application from cfg. Connections opened before a failure
// are closed again.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		log: logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.IsDevelopment(),
			Service: cfg.Telemetry.ServiceName,
			Env:     cfg.Env,
		}),
		readiness: make(map[string]handler.Pinger),
	}

	if err := app.init(ctx); err != nil {
		app.close(context.Background())
		return nil, err
	}
	return app, nil
}

func (app *Application) init(ctx context.Context) error {
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    app.cfg.Telemetry.OTLPEndpoint,
		Insecure:    app.cfg.Telemetry.OTLPInsecure,
		ServiceName: app.cfg.Telemetry.ServiceName,
		Environment: app.cfg.Env,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	app.closers = append(app.closers, shutdownTracing)

	if err := app.initStore(ctx); err != nil {
		return err
	}
	if err := app.initRedis(ctx); err != nil {
		return err
	}
	return app.initServices(ctx)
}

func (app *Application) initStore(ctx context.Context) error {
	switch app.cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: app.cfg.Mongo.URI, Database: app.cfg.Mongo.Database})
		if err != nil {
			return err
		}
		app.closers = append(app.closers, client.Disconnect)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		app.repos = repositories{
			users:      mongodb.NewUserRepository(db),
			leads:      mongodb.NewLeadRepository(db),
			activities: mongodb.NewActivityRepository(db),
		}
		app.readiness["mongodb"] = handler.PingFunc(func(ctx context.Context) error { return mongodb.Ping(ctx, db) })

	case config.DriverPostgres:
		db, err := postgres.Open(app.cfg.Postgres.DSN, app.log)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, func(context.Context) error { return postgres.Close(db) })
		if err := postgres.Migrate(db); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
		app.repos = repositories{
			users:      postgres.NewUserRepository(db),
			leads:      postgres.NewLeadRepository(db),
			activities: postgres.NewActivityRepository(db),
		}
		app.readiness["postgres"] = handler.PingFunc(func(ctx context.Context) error { return postgres.Ping(ctx, db) })

	case config.DriverMemory:
		store := memory.NewStore()
		app.repos = repositories{
			users:      store.Users(),
			leads:      store.Leads(),
			activities: store.Activities(),
		}
		app.log.Warn().Msg("using in-memory store; data is lost on restart")

	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.Store.Driver)
	}

	app.log.Info().Str("driver", app.cfg.Store.Driver).Msg("store ready")
	return nil
}

func (app *Application) initRedis(ctx context.Context) error {
	if app.cfg.Redis.Addr == "" {
		app.log.Info().Msg("redis not configured; logout is client-side only")
		return nil
	}
	client, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     app.cfg.Redis.Addr,
		Password: app.cfg.Redis.Password,
		DB:       app.cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	app.closers = append(app.closers, func(context.Context) error { return client.Close() })
	app.revoker = redisdb.NewDenylist(client)
	app.readiness["redis"] = handler.PingFunc(func(ctx context.Context) error { return redisdb.Ping(ctx, client) })
	return nil
}

func (app *Application) initServices(ctx context.Context) error {
	tokens, err := service.NewTokenService(app.cfg.Auth.JWTSecret, app.cfg.Auth.JWTIssuer, app.cfg.Auth.JWTTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	hasher := service.NewBcryptHasher(app.cfg.Auth.BcryptCost)

	authOpts := []service.AuthOption{service.WithAdminSignup(app.cfg.Auth.AllowAdminSignup)}
	if app.revoker != nil {
		authOpts = append(authOpts, service.WithRevoker(app.revoker))
	}
	app.auth = service.NewAuthService(app.repos.users, hasher, tokens, app.log, authOpts...)

	if err := app.auth.EnsureAdmin(ctx, app.cfg.Auth.AdminEmail, app.cfg.Auth.AdminPassword, app.cfg.Auth.AdminName); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	recorder := service.NewActivityService(app.repos.leads, app.repos.activities, app.log)
	app.dispatcher = queue.NewDispatcher(app.cfg.Workers, recorder, app.log)

	leads := service.NewLeadService(app.repos.leads, app.repos.activities, app.repos.users, app.dispatcher, app.log)
	authenticator := service.NewAuthenticator(tokens, app.repos.users, app.revoker, app.log)

	app.echo = api.NewRouter(api.Deps{
		Log:                app.log,
		ServiceName:        app.cfg.Telemetry.ServiceName,
		Authenticator:      authenticator,
		AuthService:        app.auth,
		LeadService:        leads,
		Readiness:          app.readiness,
		AuthRatePerSecond:  app.cfg.RateLimit.AuthPerSecond,
		AuthBurst:          app.cfg.RateLimit.AuthBurst,
		Metrics:            app.cfg.Telemetry.Metrics,
		CORSAllowedOrigins: app.cfg.CORSAllowedOrigins,
	})
	app.server = &http.Server{
		Addr:              ":" + app.cfg.Port,
		Handler:           app.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run serves HTTP until ctx is cancelled or the server fails, then shuts
// down gracefully.
func (app *Application) Run(ctx context.Context) error {
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	app.dispatcher.Start(workersCtx)

	serverErrors := make(chan error, 1)
	go func() {
		app.log.Info().Str("addr", app.server.Addr).Msg("crm api listening")
		serverErrors <- app.server.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		app.log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.log.Error().Err(err).Msg("graceful server shutdown failed")
		_ = app.server.Close()
	}

	// Requests are finished, so no more events can arrive.
	stopWorkers()
	app.dispatcher.Wait()

	app.close(shutdownCtx)
	app.log.Info().Msg("crm api stopped")
	return runErr
}

func (app *Application) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](ctx); err != nil {
			app.log.Error().Err(err).Msg("error releasing resource")
		}
	}
	app.closers = nil
}
