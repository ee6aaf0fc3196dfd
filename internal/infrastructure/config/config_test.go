package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "API-Recettes", cfg.App.Name)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.Cache.RecipeDetailTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoad_FileAndEnvironmentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
app:
  name: recettes-test
server:
  port: 9000
database:
  driver: postgres
  host: db.internal
  database: catalog
  read_replicas:
    - replica-1:5433
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("RECETTES_SERVER_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "recettes-test", cfg.App.Name)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, []string{"replica-1:5433"}, cfg.Database.ReadReplicas)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:        AppConfig{Name: "recettes"},
			Server:     ServerConfig{Port: 8080},
			Database:   DatabaseConfig{Driver: DriverSQLite},
			Monitoring: MonitoringConfig{SamplingRate: 0.5},
			RateLimit:  RateLimitConfig{Enable: true, RequestsPerMin: 60},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid sqlite", mutate: func(*Config) {}},
		{name: "missing app name", mutate: func(c *Config) { c.App.Name = "" }, wantErr: "app.name"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "database.driver"},
		{name: "postgres without database", mutate: func(c *Config) {
			c.Database.Driver = DriverPostgres
			c.Database.Host = "localhost"
		}, wantErr: "database.database"},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "sampling rate above one", mutate: func(c *Config) { c.Monitoring.SamplingRate = 1.5 }, wantErr: "sampling_rate"},
		{name: "rate limit without budget", mutate: func(c *Config) { c.RateLimit.RequestsPerMin = 0 }, wantErr: "requests_per_min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSNForHost(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "primary",
		Port:     5432,
		Database: "recettes",
		Username: "app",
		Password: "secret",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=primary port=5432 user=app password=secret dbname=recettes sslmode=disable", cfg.DSN())
	assert.Equal(t, "host=replica port=5433 user=app password=secret dbname=recettes sslmode=disable", cfg.DSNForHost("replica:5433"))
	assert.Equal(t, "host=replica port=5432 user=app password=secret dbname=recettes sslmode=disable", cfg.DSNForHost("replica"))
}
