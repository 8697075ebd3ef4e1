package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Bvcott21/ai-store/internal/auth"
	"github.com/Bvcott21/ai-store/internal/config"
	"github.com/Bvcott21/ai-store/internal/event"
	handler "github.com/Bvcott21/ai-store/internal/handler/http"
	"github.com/Bvcott21/ai-store/internal/repository"
	"github.com/Bvcott21/ai-store/internal/repository/postgres"
	redisrepo "github.com/Bvcott21/ai-store/internal/repository/redis"
	"github.com/Bvcott21/ai-store/internal/service"
	"github.com/Bvcott21/ai-store/migrations"
	"github.com/Bvcott21/ai-store/pkg/database"
	"github.com/Bvcott21/ai-store/pkg/health"
	pkgkafka "github.com/Bvcott21/ai-store/pkg/kafka"
	"github.com/Bvcott21/ai-store/pkg/tracing"
)

// Version is reported in traces.
const Version = "0.1.0"

// App wires together all dependencies and runs the auth service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
	// stopBackground ends goroutines owned by the router, such as the
	// rate limiter's eviction loop.
	stopBackground context.CancelFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.closeResources()
		}
	}()

	// Initialize OpenTelemetry tracing.
	a.tracerShutdown, err = tracing.InitTracer(ctx, cfg.TracingConfig(Version))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL and apply migrations.
	a.pool, err = OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, a.pool, config.ServiceName); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}
	if cfg.SlowQueryThresholdMS > 0 {
		database.SetSlowQueryLogging(cfg.SlowQueryThreshold(), logger)
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return a.pool.Ping(ctx)
	})

	// Login throttle.
	var attempts repository.LoginAttemptStore = redisrepo.NopLoginAttemptStore{}
	maxAttempts := int64(0)
	if cfg.LoginThrottleEnabled {
		a.redis, err = database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		attempts = redisrepo.NewLoginAttemptStore(a.redis, cfg.LoginAttemptWindow)
		maxAttempts = cfg.LoginMaxAttempts
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
		logger.Info("login throttle enabled",
			slog.String("addr", cfg.Redis().Addr()),
			slog.Int64("max_attempts", maxAttempts),
			slog.Duration("window", cfg.LoginAttemptWindow),
		)
	}

	// Events.
	var events service.EventPublisher = event.NopProducer{}
	if len(cfg.KafkaBrokers) > 0 {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher := pkgkafka.NewBreakerPublisher(a.producer, pkgkafka.DefaultBreakerConfig("user-events"), logger)
		events = event.NewProducer(publisher, logger)
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return a.producer.Ping(ctx)
		})
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("no kafka brokers configured, registration events disabled")
	}

	// Build the dependency graph.
	tokens, err := auth.NewTokenCodec(cfg.Token())
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	users := postgres.NewUserRepository(a.pool)
	roles := postgres.NewRoleRepository(a.pool)
	tx := postgres.NewTransactor(a.pool)

	authService := service.NewAuthService(users, hasher, tokens, attempts, maxAttempts, logger)
	registration := service.NewRegistrationService(users, roles, tx, hasher, tokens, events, logger)

	// HTTP router.
	bgCtx, stop := context.WithCancel(context.Background())
	a.stopBackground = stop
	router := handler.NewRouter(bgCtx, handler.RouterConfig{
		ServiceName:  config.ServiceName,
		Auth:         authService,
		Resolver:     authService,
		Registration: registration,
		Profiles:     authService,
		Health:       healthHandler,
		Logger:       logger,
		CORS:         cfg.CORS(),
		RateLimit:    cfg.RateLimit(),
		PprofCIDRs:   cfg.PprofAllowedCIDRs,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// OpenStore connects to PostgreSQL and applies pending migrations.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", pgCfg.Host),
		slog.Int("port", pgCfg.Port),
		slog.String("database", pgCfg.DBName),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")
	return pool, nil
}

// Seed registers n demo accounts when the store is empty. Events are not
// published for seeded accounts.
func Seed(ctx context.Context, cfg *config.Config, logger *slog.Logger, n int) (int, error) {
	pool, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return 0, err
	}
	defer pool.Close()

	tokens, err := auth.NewTokenCodec(cfg.Token())
	if err != nil {
		return 0, fmt.Errorf("token codec: %w", err)
	}

	users := postgres.NewUserRepository(pool)
	roles := postgres.NewRoleRepository(pool)
	registration := service.NewRegistrationService(
		users, roles, postgres.NewTransactor(pool),
		auth.NewBcryptHasher(cfg.BcryptCost), tokens, event.NopProducer{}, logger,
	)
	return service.NewSeeder(users, roles, registration, logger).Seed(ctx, n)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.closeResources()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer, Redis, PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Drain in-flight HTTP requests (5s budget).
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 2. Flush pending spans after HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
		a.tracerShutdown = nil
	}

	// 3. Close clients.
	if err := a.closeResources(); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// closeResources releases clients opened by NewApp. It is safe to call on a
// partially built App.
func (a *App) closeResources() error {
	var errs []error

	if a.stopBackground != nil {
		a.stopBackground()
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
		a.producer = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
		a.redis = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	if a.tracerShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = a.tracerShutdown(ctx)
		a.tracerShutdown = nil
	}
	return errors.Join(errs...)
}
