package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends selectable with STORE_BACKEND
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	// Storage
	StoreBackend string
	DatabaseURL  string
	TablePrefix  string
	SQLitePath   string
	DataDir      string
	// Cache (optional, empty RedisURL disables it)
	RedisURL string
	CacheTTL time.Duration

	// Logging (optional, empty LogDir logs to stdout only)
	LogDir      string
	LogMaxFiles int

	// Migration defaults
	SourceLanguage  string
	DefaultAuthor   string
	CreatedAtWindow time.Duration
	// BlockSchemaPath overrides the embedded block kind schema
	BlockSchemaPath string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		TablePrefix:  getTablePrefix(env),
		SQLitePath:   getEnv("SQLITE_PATH", "granth.db"),
		DataDir:      getEnv("DATA_DIR", "data/books"),
		RedisURL:     getEnv("REDIS_URL", ""),
		CacheTTL:     getDuration("CACHE_TTL", 10*time.Minute),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),

		SourceLanguage:  getEnv("SOURCE_LANGUAGE", ""),
		DefaultAuthor:   getEnv("DEFAULT_AUTHOR", "Anonymous"),
		CreatedAtWindow: getDuration("CREATED_AT_WINDOW", 30*24*time.Hour),
		BlockSchemaPath: getEnv("BLOCK_SCHEMA_PATH", ""),
	}
}

// Validate reports settings the selected backend cannot start without
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s backend", BackendSQLite)
		}
	case BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the %s backend", BackendFile)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %s, %s or %s)",
			c.StoreBackend, BackendPostgres, BackendSQLite, BackendFile)
	}
	return nil
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

// getDuration accepts Go durations ("90m", "720h") and falls back on anything else
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
