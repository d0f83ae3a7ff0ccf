package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/cesargomez89/soundhall/internal/constants"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"soundhall.yaml",
	"soundhall.yml",
}

// MinSessionSecretLength is the shortest accepted cookie signing key.
const MinSessionSecretLength = 32

// Config holds all application configuration
type Config struct {
	Port              string        `koanf:"port"`
	DBPath            string        `koanf:"db_path"`
	MediaDir          string        `koanf:"media_dir"`
	SessionSecret     string        `koanf:"session_secret"`
	SessionMaxAge     time.Duration `koanf:"session_max_age"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	LogLevel          string        `koanf:"log_level"`
	LogFormat         string        `koanf:"log_format"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	MaxUploadMB       int64         `koanf:"max_upload_mb"`
}

func defaultConfig() *Config {
	return &Config{
		Port:              constants.DefaultPort,
		DBPath:            constants.DefaultDBPath,
		MediaDir:          constants.DefaultMediaDir,
		SessionMaxAge:     constants.DefaultSessionMaxAge,
		AdminUsername:     constants.DefaultAdminUsername,
		LogLevel:          "info",
		LogFormat:         "text",
		RateLimitRequests: constants.DefaultRateLimitRequests,
		RateLimitWindow:   constants.DefaultRateLimitWindow,
		MaxUploadMB:       constants.DefaultMaxUploadMB,
	}
}

// Load layers defaults, an optional YAML file and environment variables,
// in increasing order of priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// envKeys maps the supported environment variables onto config keys.
var envKeys = map[string]string{
	"PORT":                "port",
	"DB_PATH":             "db_path",
	"MEDIA_DIR":           "media_dir",
	"SESSION_SECRET":      "session_secret",
	"SESSION_MAX_AGE":     "session_max_age",
	"ADMIN_USERNAME":      "admin_username",
	"ADMIN_PASSWORD":      "admin_password",
	"LOG_LEVEL":           "log_level",
	"LOG_FORMAT":          "log_format",
	"RATE_LIMIT_REQUESTS": "rate_limit_requests",
	"RATE_LIMIT_WINDOW":   "rate_limit_window",
	"MAX_UPLOAD_MB":       "max_upload_mb",
}

// envTransformFunc returns "" for variables we do not own so koanf skips them.
func envTransformFunc(key string) string {
	return envKeys[key]
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.MediaDir == "" {
		errors = append(errors, "MEDIA_DIR cannot be empty")
	}

	if len(c.SessionSecret) < MinSessionSecretLength {
		errors = append(errors, fmt.Sprintf("SESSION_SECRET must be at least %d characters", MinSessionSecretLength))
	}

	if c.SessionMaxAge <= 0 {
		errors = append(errors, fmt.Sprintf("SESSION_MAX_AGE must be positive, got: %s", c.SessionMaxAge))
	}

	if c.AdminPassword != "" && c.AdminUsername == "" {
		errors = append(errors, "ADMIN_USERNAME cannot be empty when ADMIN_PASSWORD is set")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if c.RateLimitRequests < 1 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_REQUESTS must be at least 1, got: %d", c.RateLimitRequests))
	}
	if c.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_WINDOW must be positive, got: %s", c.RateLimitWindow))
	}

	if c.MaxUploadMB < 1 {
		errors = append(errors, fmt.Sprintf("MAX_UPLOAD_MB must be at least 1, got: %d", c.MaxUploadMB))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// MaxUploadBytes is the request body limit for multipart uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
