// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	KPIAPIURL          string
	DatabasePath       string
	RecordsPath        string
	ListenAddr         string
	LogLevel           string
	LogFile            string
	AlertChangePercent float64
	QueryLogRetention  time.Duration
}

// Default values
const (
	defaultKPIAPIURL          = "http://localhost:8000"
	defaultListenAddr         = ":8080"
	defaultLogLevel           = "info"
	defaultAlertChangePercent = 20
	defaultQueryLogRetention  = 30 * 24 * time.Hour
)

// appDirName is the per-user configuration directory name.
const appDirName = "kpidash"

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		KPIAPIURL:          strings.TrimRight(getEnvString("KPI_API_URL", defaultKPIAPIURL), "/"),
		DatabasePath:       getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		RecordsPath:        getEnvString("RECORDS_PATH", ""),
		ListenAddr:         getEnvString("LISTEN_ADDR", defaultListenAddr),
		LogLevel:           getEnvString("LOG_LEVEL", defaultLogLevel),
		LogFile:            getEnvString("LOG_FILE", getDefaultLogPath()),
		AlertChangePercent: getEnvFloat("ALERT_CHANGE_PERCENT", defaultAlertChangePercent),
		QueryLogRetention:  getEnvDuration("QUERY_LOG_RETENTION", defaultQueryLogRetention),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	u, err := url.Parse(c.KPIAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("KPI_API_URL must be an absolute http(s) URL, got %q", c.KPIAPIURL)
	}
	if c.AlertChangePercent < 0 {
		return fmt.Errorf("ALERT_CHANGE_PERCENT must not be negative, got %v", c.AlertChangePercent)
	}
	return nil
}

// AlertsEnabled reports whether KPI change notifications are on.
func (c *Config) AlertsEnabled() bool {
	return c.AlertChangePercent > 0
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", appDirName, ".env"),
			filepath.Join(home, ".kpidash", ".env"),
		)
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

func configDir() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".config", appDirName), true
}

// getDefaultDatabasePath returns the default path for the query log database.
func getDefaultDatabasePath() string {
	dir, ok := configDir()
	if !ok {
		return "queries.db"
	}
	return filepath.Join(dir, "queries.db")
}

// getDefaultLogPath returns the default log file path.
func getDefaultLogPath() string {
	dir, ok := configDir()
	if !ok {
		return "kpidash.log"
	}
	return filepath.Join(dir, "kpidash.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "720h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
