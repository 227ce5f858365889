// Package config reads runtime settings from the environment and an optional
// .env file. Command-line flags override what Load returns.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDB              = "JSTOPIA_DB"
	EnvDBDriver        = "JSTOPIA_DB_DRIVER"
	EnvCatalog         = "JSTOPIA_CATALOG"
	EnvAddr            = "JSTOPIA_ADDR"
	EnvLogLevel        = "JSTOPIA_LOG_LEVEL"
	EnvLogFormat       = "JSTOPIA_LOG_FORMAT"
	EnvRequiredCorrect = "JSTOPIA_REQUIRED_CORRECT"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Log      LogConfig

	// CatalogPath is a YAML catalog file. Empty means the built-in catalog.
	CatalogPath string
	// RequiredCorrect is the per-topic completion cap. Zero keeps the
	// engine default.
	RequiredCorrect int
}

type DatabaseConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string // empty means the default SQLite path
}

type ServerConfig struct {
	Addr string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env from the working directory if present, then the process
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver: getEnv(EnvDBDriver, "sqlite"),
			DSN:    getEnv(EnvDB, ""),
		},
		Server: ServerConfig{
			Addr: getEnv(EnvAddr, ":8080"),
		},
		Log: LogConfig{
			Level:  getEnv(EnvLogLevel, "info"),
			Format: getEnv(EnvLogFormat, "console"),
		},
		CatalogPath: getEnv(EnvCatalog, ""),
	}

	if v := getEnv(EnvRequiredCorrect, ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", EnvRequiredCorrect, v)
		}
		cfg.RequiredCorrect = n
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
