// Package config contains everything related to configuration
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrStatsAPIMissing is returned when a sync is requested without an upstream URL.
var ErrStatsAPIMissing = errors.New("STATS_API_URL is required for syncing")

// Config holds the application configuration.
type Config struct {
	DatabasePath    string
	MigrationsPath  string
	PreferencesPath string
	LogPath         string
	LogLevel        string
	StatsAPIURL     string
	StatsAPIKey     string
	RefreshInterval time.Duration
	SyncInterval    time.Duration
	RetentionDays   int
	Notifications   bool
}

// Default values
const (
	defaultRefreshInterval = 30 * time.Second
	defaultSyncInterval    = time.Hour
	defaultLogLevel        = "info"
	appDirName             = "ttml-stats-tui"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	base := getDefaultConfigDir()
	cfg := &Config{
		DatabasePath:    getEnvString("DATABASE_PATH", filepath.Join(base, "analytics.db")),
		MigrationsPath:  getEnvString("MIGRATIONS_PATH", filepath.Join(base, "account-migrations.yaml")),
		PreferencesPath: getEnvString("PREFERENCES_PATH", filepath.Join(base, "preferences.json")),
		LogPath:         getEnvString("LOG_PATH", filepath.Join(base, "tsd.log")),
		LogLevel:        strings.ToLower(getEnvString("LOG_LEVEL", defaultLogLevel)),
		StatsAPIURL:     getEnvString("STATS_API_URL", ""),
		StatsAPIKey:     getEnvString("STATS_API_KEY", ""),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		SyncInterval:    getEnvDuration("SYNC_INTERVAL", defaultSyncInterval),
		RetentionDays:   getEnvInt("RETENTION_DAYS", 0),
		Notifications:   getEnvBool("NOTIFICATIONS", true),
	}

	for _, path := range []string{cfg.DatabasePath, cfg.PreferencesPath, cfg.LogPath} {
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ValidateSync checks the settings needed by the sync job.
func (c *Config) ValidateSync() error {
	if c.StatsAPIURL == "" {
		return ErrStatsAPIMissing
	}
	return nil
}

// Retention returns the retention window, or 0 to keep everything.
func (c *Config) Retention() time.Duration {
	if c.RetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appDirName, ".env"))
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// getDefaultConfigDir returns the directory holding the database, logs and preferences.
func getDefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", appDirName)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
