// Package config loads service configuration from an optional YAML file
// and the environment. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
	Limits   LimitsConfig   `yaml:"limits"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
	BodyLimit        int           `yaml:"body_limit"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	AllowCredentials bool          `yaml:"allow_credentials"`
	MetricsEnabled   bool          `yaml:"metrics_enabled"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"` // text|json
	IncludeCaller bool   `yaml:"include_caller"`
}

// DatabaseConfig describes where evaluation history is kept.
// An empty URL keeps history in memory when HistoryEnabled is set.
type DatabaseConfig struct {
	URL            string `yaml:"url"`
	HistoryEnabled bool   `yaml:"history_enabled"`
}

// LimitsConfig bounds the size of pipelines accepted for evaluation.
type LimitsConfig struct {
	MaxNodes int `yaml:"max_nodes"`
	MaxEdges int `yaml:"max_edges"`
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8000
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultBodyLimit       = 4 * 1024 * 1024
	defaultAllowedOrigin   = "http://localhost:3000"
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
)

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:             defaultHost,
			Port:             defaultPort,
			ReadTimeout:      defaultReadTimeout,
			WriteTimeout:     defaultWriteTimeout,
			IdleTimeout:      defaultIdleTimeout,
			ShutdownTimeout:  defaultShutdownTimeout,
			BodyLimit:        defaultBodyLimit,
			AllowedOrigins:   []string{defaultAllowedOrigin},
			AllowCredentials: true,
			MetricsEnabled:   true,
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (if non-empty)
// and environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that parsing cannot catch.
func (c Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: port %d is out of range", c.HTTP.Port)
	}
	if c.Limits.MaxNodes < 0 {
		return fmt.Errorf("config: max_nodes must not be negative")
	}
	if c.Limits.MaxEdges < 0 {
		return fmt.Errorf("config: max_edges must not be negative")
	}
	for _, origin := range c.HTTP.AllowedOrigins {
		if origin == "*" && c.HTTP.AllowCredentials {
			return fmt.Errorf("config: wildcard origin cannot be combined with credentials")
		}
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func applyEnv(cfg *Config) error {
	cfg.HTTP.Host = valueOrDefault("SERVER_HOST", cfg.HTTP.Host)

	port, err := parsePort("SERVER_PORT", cfg.HTTP.Port)
	if err != nil {
		return err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("config: invalid %s: %w", d.key, err)
			}
			*d.dst = parsed
		}
	}

	if v := os.Getenv("SERVER_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitCSV(v)
	}
	cfg.Logging.Level = valueOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Database.URL = valueOrDefault("DATABASE_URL", cfg.Database.URL)

	bools := []struct {
		key string
		dst *bool
	}{
		{"SERVER_ALLOW_CREDENTIALS", &cfg.HTTP.AllowCredentials},
		{"SERVER_METRICS_ENABLED", &cfg.HTTP.MetricsEnabled},
		{"LOG_INCLUDE_CALLER", &cfg.Logging.IncludeCaller},
		{"HISTORY_ENABLED", &cfg.Database.HistoryEnabled},
	}
	for _, b := range bools {
		val, err := parseBool(b.key, *b.dst)
		if err != nil {
			return err
		}
		*b.dst = val
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SERVER_BODY_LIMIT", &cfg.HTTP.BodyLimit},
		{"PIPELINE_MAX_NODES", &cfg.Limits.MaxNodes},
		{"PIPELINE_MAX_EDGES", &cfg.Limits.MaxEdges},
	}
	for _, i := range ints {
		val, err := parseInt(i.key, *i.dst)
		if err != nil {
			return err
		}
		*i.dst = val
	}

	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string, fallback bool) (bool, error) {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("config: invalid %s value %q: %w", key, v, err)
		}
		return val, nil
	}
	return fallback, nil
}

func parseInt(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("config: invalid %s value %q: %w", key, v, err)
		}
		return val, nil
	}
	return fallback, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("config: invalid %s value %q: %w", key, v, err)
		}
		return port, nil
	}
	return fallback, nil
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
