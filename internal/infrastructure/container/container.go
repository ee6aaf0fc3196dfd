// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/esasma/API-Recettes/internal/application/recipe"
	domainrecipe "github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/domain/shared"
	"github.com/esasma/API-Recettes/internal/infrastructure/config"
	"github.com/esasma/API-Recettes/internal/infrastructure/events"
	"github.com/esasma/API-Recettes/internal/infrastructure/http/apiserver"
	"github.com/esasma/API-Recettes/internal/infrastructure/monitoring"
	gormrepo "github.com/esasma/API-Recettes/internal/infrastructure/persistence/gorm"
	"github.com/esasma/API-Recettes/internal/infrastructure/persistence/memory"
	"github.com/esasma/API-Recettes/internal/infrastructure/persistence/migrations"
	"github.com/esasma/API-Recettes/internal/infrastructure/persistence/postgres"
	rediscache "github.com/esasma/API-Recettes/internal/infrastructure/persistence/redis"
	"github.com/esasma/API-Recettes/internal/infrastructure/persistence/sqlite"
	"github.com/esasma/API-Recettes/internal/ports/inbound"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	"github.com/esasma/API-Recettes/pkg/healthcheck"
	"github.com/esasma/API-Recettes/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	CacheModule,

	// Repository modules
	RepositoryModule,

	// Event modules
	EventModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	NewTracing,
)

// DatabaseModule provides the catalog database
var DatabaseModule = fx.Provide(
	NewDatabase,
)

// CacheModule provides the read cache
var CacheModule = fx.Provide(
	NewRedisClient,
	NewCache,
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(
		gormrepo.NewCatalogStore,
		fx.As(new(outbound.CatalogStore)),
	),
)

// EventModule provides event handling
var EventModule = fx.Provide(
	NewEventDispatcher,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(cache outbound.CacheRepository, cfg *config.Config, log *zap.Logger) *recipe.DetailCache {
		return recipe.NewDetailCache(cache, cfg.Cache.RecipeDetailTTL, log)
	},
	fx.Annotate(
		recipe.NewRecipeService,
		fx.As(new(inbound.RecipeService)),
	),
	fx.Annotate(
		recipe.NewCuisineService,
		fx.As(new(inbound.CuisineService)),
	),
)

// HTTPModule provides health checks and the HTTP server
var HTTPModule = fx.Provide(
	NewHealthCheck,
	NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// NewTracing creates the tracer provider and flushes it on stop
func NewTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
	tp, err := monitoring.NewTracingProvider(monitoring.TracingConfig{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		Endpoint:       cfg.Monitoring.OTLPEndpoint,
		Insecure:       cfg.Monitoring.OTLPInsecure,
		SamplingRate:   cfg.Monitoring.SamplingRate,
		Enabled:        cfg.Monitoring.EnableTracing,
	}, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: tp.Shutdown,
	})
	return tp, nil
}

// NewDatabase opens the configured database and brings its schema up to date
func NewDatabase(cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err = openPostgres(cfg, log)
	default:
		db, err = sqlite.SetupDatabase(sqlite.Options{
			Path:               cfg.Database.Path,
			LogLevel:           cfg.Database.LogLevel,
			SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		}, log)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Database.Seed {
		if err := sqlite.SeedDatabase(db); err != nil {
			log.Warn("Failed to seed database", zap.Error(err))
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := metrics.RegisterDB(sqlDB, cfg.Database.Driver); err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}

	return db, nil
}

func openPostgres(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := postgres.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if !cfg.Database.AutoMigrate {
		return db, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	migrator, err := migrations.New(sqlDB, cfg.Database.Database, log)
	if err != nil {
		return nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, err
	}
	return db, nil
}

// NewRedisClient connects to Redis when it is enabled; it returns nil otherwise
func NewRedisClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout+cfg.Redis.ReadTimeout)
	defer cancel()

	client, err := rediscache.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to Redis", zap.String("address", cfg.Redis.Address()))

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

// NewCache provides the recipe detail cache, backed by Redis when a client
// is available and by process memory otherwise
func NewCache(
	lc fx.Lifecycle,
	cfg *config.Config,
	client *redis.Client,
	metrics *monitoring.MetricsCollector,
	log *zap.Logger,
) outbound.CacheRepository {
	if client != nil {
		return monitoring.InstrumentCache(rediscache.NewCacheRepository(client, log), metrics)
	}

	log.Info("Using in-memory cache")
	cache := memory.NewCacheRepository(cfg.Cache.CleanupInterval)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			cache.Close()
			return nil
		},
	})
	return monitoring.InstrumentCache(cache, metrics)
}

// NewEventDispatcher creates the dispatcher and subscribes the catalog's
// audit handlers
func NewEventDispatcher(metrics *monitoring.MetricsCollector, log *zap.Logger) outbound.EventPublisher {
	dispatcher := events.NewDispatcher(metrics, log)
	audit := log.Named("audit")

	dispatcher.Register("cuisine.reassigned", func(ctx context.Context, event shared.DomainEvent) error {
		e, ok := event.(domainrecipe.CuisineReassignedEvent)
		if !ok {
			return nil
		}
		audit.Info("Cuisine recipes reassigned",
			zap.Int64("cuisine_id", e.CuisineID),
			zap.Int64("fallback_cuisine_id", e.FallbackCuisineID),
			zap.Int("recipes", len(e.RecipeIDs)),
		)
		return nil
	})
	dispatcher.Register("recipe.decomposed", func(ctx context.Context, event shared.DomainEvent) error {
		if e, ok := event.(domainrecipe.RecipeDecomposedEvent); ok {
			audit.Info("Recipe deleted", zap.Int64("recipe_id", e.RecipeID))
		}
		return nil
	})

	return dispatcher
}

// NewHealthCheck registers a checker per backing service
func NewHealthCheck(cfg *config.Config, db *gorm.DB, client *redis.Client, log *zap.Logger) (*healthcheck.HealthCheck, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	health := healthcheck.New(cfg.App.Version, log)
	health.Register("database", healthcheck.NewDatabaseChecker(sqlDB))
	if client != nil {
		health.Register("redis", healthcheck.NewRedisChecker(client))
	}
	return health, nil
}

// NewServer builds the API server from the catalog services
func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	recipes inbound.RecipeService,
	cuisines inbound.CuisineService,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
) *apiserver.Server {
	return apiserver.NewServer(cfg, log, apiserver.Dependencies{
		Recipes:  recipes,
		Cuisines: cuisines,
		Health:   health,
		Metrics:  metrics,
	})
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	server *apiserver.Server,
	_ *monitoring.TracingProvider,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API-Recettes",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
			)

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down API-Recettes")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()

			return nil
		},
	})
}
