package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/fintrackd/fintrack_app/internal/adapters/cache"
	"github.com/fintrackd/fintrack_app/internal/adapters/database/pgsql"
	"github.com/fintrackd/fintrack_app/internal/adapters/fxrates"
	"github.com/fintrackd/fintrack_app/internal/core/ports"
	portsrepo "github.com/fintrackd/fintrack_app/internal/core/ports/repositories"
	"github.com/fintrackd/fintrack_app/internal/core/services"
	"github.com/fintrackd/fintrack_app/internal/handlers"
	"github.com/fintrackd/fintrack_app/internal/middleware"
	"github.com/fintrackd/fintrack_app/pkg/config"
	"github.com/fintrackd/fintrack_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title FinTrack Backend API
// @version 1.0
// @description Multi-currency personal finance tracker backend.

// @host localhost:8080
// @BasePath /
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		os.Exit(1)
	}

	// Repositories
	bookRepo := pgsql.NewBookRepository(dbPool)
	repos := portsrepo.RepositoryProvider{
		BookRepo:     bookRepo,
		EntryRepo:    pgsql.NewEntryRepository(dbPool),
		CurrencyRepo: pgsql.NewCurrencyRepository(dbPool),
		SettingsRepo: pgsql.NewSettingsRepository(dbPool),
	}

	// Rate provider, with locked books answered from the repository
	rateProvider := fxrates.NewClient(cfg.RateAPIBaseURL, cfg.RateAPITimeout, fxrates.NewRepositoryLockSource(bookRepo))

	// Optional totals cache
	var totalsCache ports.TotalsCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisTotalsCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Error("Failed to initialize totals cache", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(context.Background()); err != nil {
			logger.Warn("Totals cache unreachable, continuing without it", slog.String("error", err.Error()))
		} else {
			totalsCache = redisCache
			logger.Info("Totals cache connected.")
		}
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, rateProvider, totalsCache)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate := limiter.Rate{Period: 1 * time.Minute, Limit: 300}
	r.Use(middleware.RateLimit(limiter.New(memorystore.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory using a temporary database/sql connection.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

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

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
