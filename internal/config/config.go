// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reelwrapped/reelwrapped-server/internal/validation"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Storage StorageConfig
	TMDB    TMDBConfig
	Upload  UploadConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `json:"environment" validate:"required,oneof=development staging production"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `json:"level" validate:"required,oneof=debug info warn error"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name         string        `json:"name"`
	Port         string        `json:"port" validate:"required"`
	ReadTimeout  time.Duration `json:"read_timeout"`  // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration `json:"write_timeout"` // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration `json:"idle_timeout"`  // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      `json:"cors_origins"`  // Allowed CORS origins for the frontend
}

// StorageConfig holds data storage configuration.
type StorageConfig struct {
	// BasePath is the root directory for sessions, uploads and the
	// response cache (default: ~/ReelWrapped/data).
	BasePath string `json:"base_path" validate:"required"`
}

// TMDBConfig holds TMDB API client configuration.
type TMDBConfig struct {
	// APIKey is the TMDB v3 API key injected into every request.
	APIKey string `json:"-" validate:"required"`
	// BaseURL overrides the TMDB API base URL (used in tests).
	BaseURL string `json:"base_url" validate:"required,url"`
	// MaxConcurrent caps simultaneous open connections to TMDB (default: 20).
	MaxConcurrent int `json:"max_concurrent" validate:"gte=1,lte=100"`
	// RequestsPerSecond throttles network fetches; cache hits are exempt (default: 20).
	RequestsPerSecond float64 `json:"requests_per_second" validate:"gt=0"`
	// Burst is the rate limiter burst size (default: 5).
	Burst int `json:"burst" validate:"gte=1"`
	// CachePath is the directory for cached API responses (default: {storage}/cache/tmdb).
	CachePath string `json:"cache_path" validate:"required"`
}

// UploadConfig holds export upload staging configuration.
type UploadConfig struct {
	// Dir is where uploaded archives are staged (default: {storage}/uploads).
	Dir string `json:"dir" validate:"required"`
	// MaxSizeMB is the largest accepted archive in megabytes (default: 64).
	MaxSizeMB int `json:"max_size_mb" validate:"gte=1"`
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	storagePath := flag.String("storage-path", "", "Base path for data storage")
	serverName := flag.String("server-name", "", "Name for the server")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins")

	// TMDB flags
	tmdbKey := flag.String("tmdb-api-key", "", "TMDB v3 API key")
	tmdbBaseURL := flag.String("tmdb-base-url", "", "TMDB API base URL")
	tmdbMaxConcurrent := flag.String("tmdb-max-concurrent", "", "Max concurrent TMDB connections (default: 20)")
	tmdbCachePath := flag.String("tmdb-cache-path", "", "Path for the TMDB response cache")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name:        getConfigValue(*serverName, "SERVER_NAME", "Reel Wrapped Server"),
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "http://localhost:3000")),
		},
		Storage: StorageConfig{
			BasePath: getConfigValue(*storagePath, "STORAGE_PATH", ""),
		},
		TMDB: TMDBConfig{
			APIKey:            getConfigValue(*tmdbKey, "TMDB_API_KEY", ""),
			BaseURL:           getConfigValue(*tmdbBaseURL, "TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			MaxConcurrent:     getIntConfigValue(*tmdbMaxConcurrent, "TMDB_MAX_CONCURRENT", 20),
			RequestsPerSecond: getFloatConfigValue("", "TMDB_REQUESTS_PER_SECOND", 20),
			Burst:             getIntConfigValue("", "TMDB_BURST", 5),
			CachePath:         getConfigValue(*tmdbCachePath, "TMDB_CACHE_PATH", ""),
		},
		Upload: UploadConfig{
			Dir:       getConfigValue("", "UPLOAD_DIR", ""),
			MaxSizeMB: getIntConfigValue("", "UPLOAD_MAX_SIZE_MB", 64),
		},
	}

	// Parse server timeouts.
	var err error
	if cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	// Expand storage-relative paths.
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	v := validation.New()
	if err := v.Validate(c.App); err != nil {
		return err
	}
	if err := v.Validate(c.Logger); err != nil {
		return err
	}
	if err := v.Validate(c.Server); err != nil {
		return err
	}
	if err := v.Validate(c.Storage); err != nil {
		return err
	}
	if err := v.Validate(c.TMDB); err != nil {
		return err
	}
	return v.Validate(c.Upload)
}

// expandPaths expands ~ in the storage path and fills in the derived
// defaults for the cache and upload directories.
func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	base, err := expandPath(c.Storage.BasePath, filepath.Join(homeDir, "ReelWrapped", "data"))
	if err != nil {
		return fmt.Errorf("invalid storage path: %w", err)
	}
	c.Storage.BasePath = base

	cache, err := expandPath(c.TMDB.CachePath, filepath.Join(base, "cache", "tmdb"))
	if err != nil {
		return fmt.Errorf("invalid cache path: %w", err)
	}
	c.TMDB.CachePath = cache

	uploads, err := expandPath(c.Upload.Dir, filepath.Join(base, "uploads"))
	if err != nil {
		return fmt.Errorf("invalid upload dir: %w", err)
	}
	c.Upload.Dir = uploads

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

// parseDurationValue resolves a duration from flag, env var, or default.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return d, nil
}

// splitList splits a comma-separated value, trimming whitespace.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
