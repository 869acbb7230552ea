package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/AltPeach/bahr-naturals/internal/config"
	"github.com/AltPeach/bahr-naturals/internal/domain"
	"github.com/AltPeach/bahr-naturals/internal/event"
	handler "github.com/AltPeach/bahr-naturals/internal/handler/http"
	"github.com/AltPeach/bahr-naturals/internal/notify"
	"github.com/AltPeach/bahr-naturals/internal/pricing"
	postgresrepo "github.com/AltPeach/bahr-naturals/internal/repository/postgres"
	redisrepo "github.com/AltPeach/bahr-naturals/internal/repository/redis"
	"github.com/AltPeach/bahr-naturals/internal/service"
	"github.com/AltPeach/bahr-naturals/pkg/database"
	"github.com/AltPeach/bahr-naturals/pkg/health"
	"github.com/AltPeach/bahr-naturals/pkg/httpclient"
	pkgkafka "github.com/AltPeach/bahr-naturals/pkg/kafka"
	"github.com/AltPeach/bahr-naturals/pkg/tracing"
)

// App wires together all dependencies and runs the cart service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	pool            *pgxpool.Pool
	producer        *pkgkafka.Producer
	checkoutService *service.CheckoutService
	httpServer      *http.Server
	tracerShutdown  func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tracing.
	var tracerShutdown func(context.Context) error
	if cfg.TracingEnabled {
		var err error
		tracerShutdown, err = tracing.InitTracer(ctx, tracing.Config{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.TracingEndpoint,
			SampleRate:  cfg.TracingSampleRate,
			Insecure:    cfg.IsDevelopment(),
		})
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
	}

	// Redis holds the live carts.
	redisCfg := database.DefaultRedisConfig(cfg.RedisAddr)
	redisCfg.Password = cfg.RedisPassword
	redisCfg.DB = cfg.RedisDB
	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Postgres holds the checkout order snapshots.
	pool, err := database.NewPostgresPool(ctx, database.DefaultPostgresConfig(cfg.PostgresDSN))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to Postgres")

	if err := postgresrepo.Migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// Kafka producer for domain events.
	var publisher event.Publisher = event.NoopPublisher{}
	var producer *pkgkafka.Producer
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewKafkaPublisher(producer, cfg.KafkaCartTopic, cfg.KafkaCheckoutTopic, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Handoff client, retrying and breaker-protected.
	baseClient := httpclient.New(httpclient.DefaultConfig())
	breakerCfg := httpclient.CircuitBreakerConfig{
		Name:         "checkout-handoff",
		MaxRequests:  cfg.BreakerMaxRequests,
		Interval:     cfg.BreakerInterval,
		Timeout:      cfg.BreakerTimeout,
		FailureRatio: cfg.BreakerFailureRatio,
		MinRequests:  cfg.BreakerMinRequests,
	}
	handoffClient := httpclient.NewCircuitBreakerClient(baseClient, breakerCfg, logger)

	// Build the dependency graph.
	notifier := notify.NewLogNotifier(logger)
	calculator := pricing.NewCalculator(
		cfg.TaxRateDecimal(),
		cfg.ShippingFlatRateDecimal(),
		cfg.FreeShippingThresholdDecimal(),
	)
	cartRepo := redisrepo.NewCartRepository(rdb, cfg.CartTTL, logger)
	checkoutRepo := postgresrepo.NewCheckoutRepository(pool)

	cartService := service.NewCartService(cartRepo, calculator, publisher, notifier, logger, cfg.Currency)
	cartService.Subscribe(func(ctx context.Context, snapshot *domain.CartSnapshot) {
		logger.DebugContext(ctx, "cart changed",
			slog.Int("item_count", snapshot.ItemCount),
			slog.String("total", snapshot.Total.StringFixed(2)),
		)
	})
	checkoutService := service.NewCheckoutService(
		cartRepo, checkoutRepo, calculator, handoffClient, publisher, notifier, logger,
		cfg.CheckoutHandoffURL, cfg.CheckoutHandoffTimeout, cfg.Currency,
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", cartRepo.Ping)
	healthHandler.Register("postgres", checkoutRepo.Ping)
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	// HTTP router.
	router := handler.NewRouter(cartService, checkoutService, healthHandler, logger, handler.RouterConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		PprofCIDRs:  cfg.PprofAllowedCIDRs,
		CORSOrigins: cfg.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		pool:            pool,
		producer:        producer,
		checkoutService: checkoutService,
		httpServer:      httpServer,
		tracerShutdown:  tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Let in-flight checkout handoffs finish before closing their sinks.
	a.checkoutService.Wait()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
