package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
	CORSOrigins    string `mapstructure:"CORS_ORIGINS"` // comma separated, "*" allows any

	// Storage: one registry file plus one SQLite file per tenant, all under DataDir
	DataDir           string `mapstructure:"DATA_DIR"`
	RegistryDB        string `mapstructure:"REGISTRY_DB"`
	SQLiteBusyTimeout int    `mapstructure:"SQLITE_BUSY_TIMEOUT_MS"`
	TxTimeoutSeconds  int    `mapstructure:"TX_TIMEOUT_SECONDS"`

	// Redis (optional; empty disables low-stock alert jobs)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Tracing (optional; empty endpoint disables OTLP export)
	OTelEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `mapstructure:"SERVICE_NAME"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", 8000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("WORKER_POOL_SIZE", 2)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("REGISTRY_DB", "users.db")
	v.SetDefault("SQLITE_BUSY_TIMEOUT_MS", 5000)
	v.SetDefault("TX_TIMEOUT_SECONDS", 10)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("SERVICE_NAME", "sevensystem")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_HOURS", 8)

	// Optional .env file for local development; a missing file is fine
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RegistryPath is the full path of the users registry database.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.DataDir, c.RegistryDB)
}

// TxTimeout bounds every ledger-affecting transaction.
func (c *Config) TxTimeout() time.Duration {
	if c.TxTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TxTimeoutSeconds) * time.Second
}

func (c *Config) IsProduction() bool { return c.Env == "production" }
