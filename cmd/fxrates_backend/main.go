package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	portssvc "github.com/atlasfx/fxrates/internal/core/ports/services"
	"github.com/atlasfx/fxrates/internal/core/services"
	"github.com/atlasfx/fxrates/internal/handlers"
	"github.com/atlasfx/fxrates/internal/metrics"
	"github.com/atlasfx/fxrates/internal/middleware"
	"github.com/atlasfx/fxrates/internal/platform/config"
	"github.com/atlasfx/fxrates/internal/providers/exchangerateapi"
	rediscache "github.com/atlasfx/fxrates/internal/repositories/cache"
	"github.com/atlasfx/fxrates/internal/repositories/database/pgsql"
	"github.com/atlasfx/fxrates/internal/scheduler"
	"github.com/atlasfx/fxrates/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title FX Rates API
// @version 1.0
// @description Exchange rate ingestion, resolution and conversion service.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The resolution path degrades to store lookups when the cache is
		// down, so a missing Redis is a warning, not a startup failure.
		logger.Warn("Redis unreachable at startup", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
	}
	defer redisClient.Close()

	fxMetrics := metrics.NewFxMetrics()

	rateRepo := pgsql.NewPgxRateRecordRepository(dbPool)
	auditRepo := pgsql.NewPgxConversionAuditRepository(dbPool)
	rateCache := rediscache.NewRedisRateCache(redisClient, logger)
	provider := exchangerateapi.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderName, cfg.FetchTimeout, logger)

	resolutionService := services.NewRateResolutionService(rateRepo, rateCache, cfg.CacheTTL, logger, fxMetrics)
	conversionService := services.NewConversionService(resolutionService, rateRepo, auditRepo, cfg.ConversionMargin, logger, fxMetrics)
	ingestionService := services.NewIngestionService(provider, rateRepo, cfg.IngestMaxRetries, cfg.IngestRetryDelay, logger, fxMetrics)

	serviceContainer := &portssvc.ServiceContainer{
		Rate:       resolutionService,
		Conversion: conversionService,
		Ingestion:  ingestionService,
	}

	ingestScheduler := scheduler.NewIngestionScheduler(ingestionService, cfg.IngestCron, logger)
	if err := ingestScheduler.Start(ctx); err != nil {
		logger.Error("Failed to start ingestion scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if rate, err := limiter.NewRateFromFormatted(cfg.RateLimit); err == nil {
		limiterInstance := limiter.New(memorystore.NewStore(), rate)
		r.Use(middleware.RateLimit(limiterInstance))
	} else {
		logger.Warn("Invalid RATE_LIMIT format, rate limiting disabled", slog.String("value", cfg.RateLimit))
	}

	handlers.RegisterValidators()
	handlers.RegisterRoutes(r, cfg, serviceContainer)

	// Stop the scheduler cleanly on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Shutdown signal received")
		ingestScheduler.Stop()
		os.Exit(0)
	}()

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending up migrations from the migrations directory.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations, using the
	// pgx stdlib driver to stay compatible with the main pool.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
