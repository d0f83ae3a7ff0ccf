package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cesargomez89/soundhall/internal/constants"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() Config {
	return Config{
		Port:              "8080",
		DBPath:            "test.db",
		MediaDir:          "/tmp/media",
		SessionSecret:     testSecret,
		SessionMaxAge:     time.Hour,
		AdminUsername:     "admin",
		AdminPassword:     "pass",
		LogLevel:          "info",
		LogFormat:         "text",
		RateLimitRequests: 10,
		RateLimitWindow:   time.Minute,
		MaxUploadMB:       16,
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != constants.DefaultPort {
		t.Errorf("Expected Port to be %s, got %s", constants.DefaultPort, cfg.Port)
	}
	if cfg.DBPath != constants.DefaultDBPath {
		t.Errorf("Expected DBPath to be %s, got %s", constants.DefaultDBPath, cfg.DBPath)
	}
	if cfg.MediaDir != constants.DefaultMediaDir {
		t.Errorf("Expected MediaDir to be %s, got %s", constants.DefaultMediaDir, cfg.MediaDir)
	}
	if cfg.SessionMaxAge != constants.DefaultSessionMaxAge {
		t.Errorf("Expected SessionMaxAge to be %v, got %v", constants.DefaultSessionMaxAge, cfg.SessionMaxAge)
	}
	if cfg.RateLimitRequests != constants.DefaultRateLimitRequests {
		t.Errorf("Expected RateLimitRequests to be %d, got %d", constants.DefaultRateLimitRequests, cfg.RateLimitRequests)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("MEDIA_DIR", "/srv/media")
	t.Setenv("SESSION_MAX_AGE", "2h")
	t.Setenv("RATE_LIMIT_REQUESTS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be 9090, got %s", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected DBPath to be /tmp/test.db, got %s", cfg.DBPath)
	}
	if cfg.MediaDir != "/srv/media" {
		t.Errorf("Expected MediaDir to be /srv/media, got %s", cfg.MediaDir)
	}
	if cfg.SessionMaxAge != 2*time.Hour {
		t.Errorf("Expected SessionMaxAge to be 2h, got %v", cfg.SessionMaxAge)
	}
	if cfg.RateLimitRequests != 3 {
		t.Errorf("Expected RateLimitRequests to be 3, got %d", cfg.RateLimitRequests)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soundhall.yaml")
	content := "port: \"7070\"\nlog_format: json\nadmin_username: root\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	// environment still wins over the file
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "7070" {
		t.Errorf("Expected Port from file to be 7070, got %s", cfg.Port)
	}
	if cfg.AdminUsername != "root" {
		t.Errorf("Expected AdminUsername from file to be root, got %s", cfg.AdminUsername)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("Expected env LOG_FORMAT to override file, got %s", cfg.LogFormat)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	if got := envTransformFunc("DB_PATH"); got != "db_path" {
		t.Errorf("envTransformFunc(DB_PATH) = %q, want db_path", got)
	}
	if got := envTransformFunc("HOME"); got != "" {
		t.Errorf("envTransformFunc(HOME) = %q, want empty", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"admin password optional", func(c *Config) { c.AdminPassword = "" }, false},
		{"invalid port - not a number", func(c *Config) { c.Port = "abc" }, true},
		{"invalid port - out of range", func(c *Config) { c.Port = "99999" }, true},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"empty db path", func(c *Config) { c.DBPath = "" }, true},
		{"empty media dir", func(c *Config) { c.MediaDir = "" }, true},
		{"short session secret", func(c *Config) { c.SessionSecret = "short" }, true},
		{"zero session max age", func(c *Config) { c.SessionMaxAge = 0 }, true},
		{"admin password without username", func(c *Config) { c.AdminUsername = "" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "invalid" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"zero rate limit", func(c *Config) { c.RateLimitRequests = 0 }, true},
		{"zero rate window", func(c *Config) { c.RateLimitWindow = 0 }, true},
		{"zero upload limit", func(c *Config) { c.MaxUploadMB = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = ""
	cfg.DBPath = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "PORT cannot be empty") || !strings.Contains(msg, "DB_PATH cannot be empty") {
		t.Errorf("Expected both problems to be reported, got: %s", msg)
	}
}

func TestMaxUploadBytes(t *testing.T) {
	cfg := validConfig()
	cfg.MaxUploadMB = 2
	if got := cfg.MaxUploadBytes(); got != 2*1024*1024 {
		t.Errorf("MaxUploadBytes() = %d, want %d", got, 2*1024*1024)
	}
}
