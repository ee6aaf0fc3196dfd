// Package postgres provides the PostgreSQL connection for production deployments
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/esasma/API-Recettes/internal/infrastructure/config"
	gormrepo "github.com/esasma/API-Recettes/internal/infrastructure/persistence/gorm"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// Open connects to PostgreSQL, configures the pool and registers read replicas.
// Transactions always run on the primary; plain reads are spread over replicas.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormrepo.NewLogger(log, cfg.LogLevel, cfg.SlowQueryThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := registerReplicas(db, cfg, log); err != nil {
		return nil, err
	}

	log.Info("Connected to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("read_replicas", len(cfg.ReadReplicas)),
	)

	return db, nil
}

func registerReplicas(db *gorm.DB, cfg config.DatabaseConfig, log *zap.Logger) error {
	if len(cfg.ReadReplicas) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, len(cfg.ReadReplicas))
	for i, host := range cfg.ReadReplicas {
		replicas[i] = postgres.Open(cfg.DSNForHost(host))
	}

	resolver := dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}).
		SetMaxOpenConns(cfg.MaxOpenConns).
		SetMaxIdleConns(cfg.MaxIdleConns).
		SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Use(resolver); err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}

	log.Info("Read replicas configured", zap.Strings("hosts", cfg.ReadReplicas))
	return nil
}
