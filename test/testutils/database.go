// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/esasma/API-Recettes/internal/infrastructure/config"
	"github.com/esasma/API-Recettes/internal/infrastructure/persistence/migrations"
	"github.com/esasma/API-Recettes/internal/infrastructure/persistence/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// catalogTables lists every catalog table, dependents first
var catalogTables = []string{
	"recipe_allergy_tags",
	"recipe_dietary_tags",
	"instruction_steps",
	"recipe_ingredients",
	"recipes",
	"allergy_tags",
	"dietary_tags",
	"ingredients",
	"goals",
	"cuisines",
}

// TestDatabase is a migrated PostgreSQL instance running in a container
type TestDatabase struct {
	Container testcontainers.Container
	DB        *sql.DB
	GormDB    *gorm.DB
	PgxPool   *pgxpool.Pool
	DSN       string
	t         *testing.T
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Port     nat.Port
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:15-alpine",
		Database: "recettes_test",
		Username: "test_user",
		Password: "test_password",
		Port:     "5432/tcp",
	}
}

// SetupTestDatabase starts PostgreSQL and applies the catalog migrations
func SetupTestDatabase(t *testing.T) *TestDatabase {
	return SetupTestDatabaseWithConfig(t, DefaultDatabaseConfig())
}

// SetupTestDatabaseWithConfig starts PostgreSQL with cfg and applies the
// catalog migrations. The container is terminated when t finishes.
func SetupTestDatabaseWithConfig(t *testing.T, cfg DatabaseConfig) *TestDatabase {
	t.Helper()
	ctx := context.Background()

	dsnFor := func(host string, port nat.Port) string {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.Username, cfg.Password, host, port.Port(), cfg.Database)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.Image,
			ExposedPorts: []string{string(cfg.Port)},
			Env: map[string]string{
				"POSTGRES_DB":       cfg.Database,
				"POSTGRES_USER":     cfg.Username,
				"POSTGRES_PASSWORD": cfg.Password,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
				wait.ForSQL(cfg.Port, "pgx", dsnFor),
			),
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,noexec,nosuid,size=512m",
			},
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start postgres container")

	testDB := &TestDatabase{Container: container, t: t}
	t.Cleanup(testDB.Cleanup)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, cfg.Port)
	require.NoError(t, err)
	testDB.DSN = dsnFor(host, port)

	testDB.DB, err = sql.Open("pgx", testDB.DSN)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, testDB.DB.PingContext(ctx), "Failed to ping test database")

	logger := zaptest.NewLogger(t)

	migrator, err := migrations.New(testDB.DB, cfg.Database, logger)
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, migrator.Up(), "Failed to run migrations")

	testDB.GormDB, err = postgres.Open(config.DatabaseConfig{
		Host:               host,
		Port:               port.Int(),
		Database:           cfg.Database,
		Username:           cfg.Username,
		Password:           cfg.Password,
		SSLMode:            "disable",
		MaxOpenConns:       10,
		MaxIdleConns:       2,
		ConnMaxLifetime:    time.Hour,
		LogLevel:           "silent",
		SlowQueryThreshold: time.Second,
	}, logger)
	require.NoError(t, err, "Failed to create GORM connection")

	poolConfig, err := pgxpool.ParseConfig(testDB.DSN)
	require.NoError(t, err, "Failed to parse pgx config")
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1

	testDB.PgxPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err, "Failed to create pgx pool")

	return testDB
}

// SeedCatalog inserts the reference rows most tests start from:
// cuisines 1 Italian and 2 Mexican, goal 1 Maintenance, ingredients
// 1 Rice and 2 Water, dietary tag 1 Vegan, allergy tag 1 Gluten.
func (td *TestDatabase) SeedCatalog() error {
	_, err := td.DB.Exec(`
		INSERT INTO cuisines (id, name) VALUES (1, 'Italian'), (2, 'Mexican');
		INSERT INTO goals (id, name) VALUES (1, 'Maintenance');
		INSERT INTO ingredients (id, name, unit) VALUES (1, 'Rice', 'grams'), (2, 'Water', 'ml');
		INSERT INTO dietary_tags (id, name) VALUES (1, 'Vegan');
		INSERT INTO allergy_tags (id, name) VALUES (1, 'Gluten');
		SELECT setval(pg_get_serial_sequence('cuisines', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('goals', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('ingredients', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('dietary_tags', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('allergy_tags', 'id'), 100);
	`)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return nil
}

// TruncateAllTables removes all rows while preserving the schema
func (td *TestDatabase) TruncateAllTables() error {
	for _, table := range catalogTables {
		if _, err := td.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}

// CountRows counts the rows of table, optionally filtered by a where clause
func (td *TestDatabase) CountRows(ctx context.Context, table, where string, args ...any) (int64, error) {
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var count int64
	if err := td.PgxPool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// Cleanup closes all connections and stops the container
func (td *TestDatabase) Cleanup() {
	ctx := context.Background()

	if td.PgxPool != nil {
		td.PgxPool.Close()
	}
	if td.GormDB != nil {
		if sqlDB, err := td.GormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if td.DB != nil {
		_ = td.DB.Close()
	}
	if td.Container != nil {
		if err := td.Container.Terminate(ctx); err != nil {
			td.t.Logf("Failed to terminate postgres container: %v", err)
		}
	}
}
