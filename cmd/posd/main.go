package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tnvirji/pharmapos/internal/adapters/database/sqlite"
	remotepgsql "github.com/tnvirji/pharmapos/internal/adapters/remote/pgsql"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
	"github.com/tnvirji/pharmapos/internal/core/services"
	"github.com/tnvirji/pharmapos/internal/handlers"
	"github.com/tnvirji/pharmapos/internal/middleware"
	"github.com/tnvirji/pharmapos/internal/platform/config"
	"github.com/tnvirji/pharmapos/internal/platform/session"
	"github.com/tnvirji/pharmapos/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Local store first: the client must take writes whether or not the
	// remote is reachable.
	store, err := sqlite.Open(cfg.LocalDBPath)
	if err != nil {
		logger.Error("Failed to open local store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Local store opened", slog.String("path", cfg.LocalDBPath))

	repos := portsrepo.RepositoryProvider{
		TxManager: store,
		Catalog:   sqlite.NewCatalogRepository(),
		Parties:   sqlite.NewPartyRepository(),
		Documents: sqlite.NewDocumentRepository(),
		Cash:      sqlite.NewCashRepository(),
		Deals:     sqlite.NewDealRepository(),
		Activity:  sqlite.NewActivityRepository(),
		Sequences: sqlite.NewSequenceRepository(),
		Outbox:    sqlite.NewOutboxRepository(),
	}

	holder := session.NewHolder()

	var remote portsrepo.RemoteStore
	remoteConfigured := cfg.RemoteDBURL != ""
	if remoteConfigured {
		pool, perr := database.NewPgxPool(context.Background(), cfg.RemoteDBURL)
		if perr != nil {
			logger.Error("Failed to initialize remote pool", slog.String("error", perr.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(pool)

		if cfg.RunMigration {
			runRemoteMigrations(cfg, logger)
		}
		remote = remotepgsql.NewRemoteStore(pool)
	} else {
		logger.Warn("No remote configured; outbox entries will accumulate as PENDING")
		remote = remotepgsql.NewRemoteStore(nil)
	}

	container := services.NewServiceContainer(cfg, repos, remote, holder, logger)

	// The drain loop only runs with a remote to drain against; triggers
	// fired while offline are harmless.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if remoteConfigured {
		go container.Sync.Run(ctx)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	limiterInstance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: time.Minute,
		Limit:  600,
	})
	r.Use(middleware.RateLimit(limiterInstance))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, holder)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runRemoteMigrations applies the central-store schema. Migration
// failures are fatal only when migrations were explicitly requested.
func runRemoteMigrations(cfg *config.Config, logger *slog.Logger) {
	migrationDB, err := sql.Open("pgx", cfg.RemoteDBURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer migrationDB.Close()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
}
