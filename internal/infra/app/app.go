package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arklim/contacts-service/internal/core/port"
	"github.com/arklim/contacts-service/internal/infra/config"
	"github.com/arklim/contacts-service/internal/infra/database"
	kafkainfra "github.com/arklim/contacts-service/internal/infra/kafka"
	"github.com/arklim/contacts-service/internal/infra/logger"
	redisinfra "github.com/arklim/contacts-service/internal/infra/redis"
	"github.com/arklim/contacts-service/internal/infra/security"
	memoryrepo "github.com/arklim/contacts-service/internal/repository/memory"
	postgresrepo "github.com/arklim/contacts-service/internal/repository/postgres"
	redisdocrepo "github.com/arklim/contacts-service/internal/repository/redisdoc"
	"github.com/arklim/contacts-service/internal/transport/http/middleware"
	"github.com/arklim/contacts-service/internal/transport/http/routes"
	"github.com/arklim/contacts-service/internal/usecase"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app := &Application{cfg: cfg, logger: log}

	contacts, err := app.buildRepository(ctx, log)
	if err != nil {
		return nil, err
	}

	authenticator, err := buildAuthenticator(cfg.Security)
	if err != nil {
		app.closeResources()
		return nil, err
	}

	tokens, err := security.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	eventPublisher := app.buildEventPublisher(log)

	contactService := usecase.NewContactService(contacts, authenticator, eventPublisher, log)
	authService := usecase.NewAuthService(contacts, authenticator, tokens, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	deps := routes.Dependencies{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics,
		Services: routes.ServiceSet{
			Contacts: contactService,
			Auth:     authService,
		},
	}
	if app.pool != nil {
		deps.Database = app.pool
	}
	if app.redis != nil {
		deps.Cache = app.redis
	}

	app.engine = routes.Register(deps)

	return app, nil
}

// buildRepository selects the persistence backend and owns the connection it
// opens.
func (a *Application) buildRepository(ctx context.Context, log *zap.Logger) (port.ContactRepository, error) {
	switch a.cfg.Storage.Backend {
	case "memory":
		log.Info("using in-memory contact repository")
		return memoryrepo.NewContactRepository(), nil

	case "postgres":
		pool, err := database.NewPostgresPool(ctx, a.cfg.Postgres, log)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		a.pool = pool
		return postgresrepo.NewContactRepository(pool), nil

	case "redis":
		client, err := redisinfra.NewClient(a.cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.redis = client
		return redisdocrepo.NewContactRepository(client.Client(), a.cfg.Redis.KeyPrefix), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
}

func buildAuthenticator(cfg config.SecuritySettings) (port.Authenticator, error) {
	switch cfg.Authenticator {
	case "", "argon2":
		argonCfg := security.Argon2Config{
			Memory:      cfg.Argon2.Memory,
			Iterations:  cfg.Argon2.Iterations,
			Parallelism: cfg.Argon2.Parallelism,
			SaltLength:  cfg.Argon2.SaltLength,
			KeyLength:   cfg.Argon2.KeyLength,
		}
		authenticator, err := security.NewArgon2Authenticator(argonCfg)
		if err != nil {
			return nil, fmt.Errorf("init argon2 authenticator: %w", err)
		}
		return authenticator, nil

	case "plain":
		return security.NewPlainAuthenticator(), nil

	default:
		return nil, fmt.Errorf("unknown authenticator %q", cfg.Authenticator)
	}
}

func (a *Application) buildEventPublisher(log *zap.Logger) port.EventPublisher {
	if len(a.cfg.Kafka.Brokers) == 0 {
		log.Info("kafka brokers not configured, using stub publisher")
		return kafkainfra.NewStubPublisher(log)
	}

	producer, err := kafkainfra.NewProducer(a.cfg.Kafka, log)
	if err != nil {
		log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
		return kafkainfra.NewStubPublisher(log)
	}

	a.producer = producer
	log.Info("kafka event publisher initialized", zap.Strings("brokers", a.cfg.Kafka.Brokers))
	return kafkainfra.NewEventPublisher(producer, a.cfg.App, log)
}

func (a *Application) closeResources() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.producer != nil {
		_ = a.producer.Close()
	}
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.closeResources()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting contacts API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
		zap.String("backend", a.cfg.Storage.Backend),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
