package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    // local gateway port
	LogLevel    string
	LogFormat   string
	Environment string
	ServiceName string
	Version     string

	// Remote ledger boundary
	LedgerURL     string
	LedgerAPIKey  string
	LedgerTimeout time.Duration
	LedgerPort    int // listen port for the ledgerd stub

	// Config provider cache
	ConfigCacheSize int
	ConfigCacheTTL  time.Duration

	// Ledger stub database (ledgerd only; empty DBHost means in-memory)
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		ServiceName: getEnv("SERVICE_NAME", "primevault"),
		Version:     getEnv("VERSION", "dev"),

		LedgerURL:    getEnv("LEDGER_URL", "http://localhost:9090"),
		LedgerAPIKey: getEnv("LEDGER_API_KEY", ""),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "primevault"),
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	timeoutSecs, err := getEnvInt("LEDGER_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	cfg.LedgerTimeout = time.Duration(timeoutSecs) * time.Second

	ledgerPort, err := getEnvInt("LEDGER_PORT", 9090)
	if err != nil {
		return nil, err
	}
	cfg.LedgerPort = ledgerPort

	cacheSize, err := getEnvInt("CONFIG_CACHE_SIZE", 128)
	if err != nil {
		return nil, err
	}
	cfg.ConfigCacheSize = cacheSize

	cacheTTLSecs, err := getEnvInt("CONFIG_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	cfg.ConfigCacheTTL = time.Duration(cacheTTLSecs) * time.Second

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// UsePostgres reports whether the ledger stub should run against Postgres
// instead of the in-memory store
func (c *Config) UsePostgres() bool {
	return c.DBHost != ""
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
