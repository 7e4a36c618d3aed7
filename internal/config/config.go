package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrEnvNotConfigured = errors.New("environment not configured")

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// projection
	Locale            string  `toml:"locale"`
	DistanceEnabled   bool    `toml:"distance_enabled"`
	StepsPerKilometre float64 `toml:"steps_per_kilometre"`
	// projection responses cache, in bytes; 0 or less turns it off
	ProjectionCacheSize int `toml:"projection_cache_size"`
	// rate limiting (redis backed)
	RateLimitEnabled       bool   `toml:"rate_limit_enabled"`
	RateLimitAllowedPerMin int    `toml:"rate_limit_allowed_per_min"`
	RedisHost              string `toml:"redis_host"`
	RedisPort              string `toml:"redis_port"`
	// cors
	AllowedOrigins []string `toml:"allowed_origins"`
}

type Toml struct {
	Development *Config
	Production  *Config

	meta toml.MetaData
}

func (t *Toml) Get(env string) (*Config, error) {
	var (
		cfg   *Config
		table string
	)
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg, table = t.Development, "development"
	case "prod", "production":
		cfg, table = t.Production, "production"
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvNotConfigured, env)
	}

	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults(func(key string) bool {
		return t.meta.IsDefined(table, key)
	})
	return cfg, nil
}

// Load reads the TOML file at path and returns the config for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	meta, err := toml.DecodeFile(path, &t)
	if err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	t.meta = meta
	return t.Get(env)
}

// applyDefaults fills in unset values. Keys whose zero value is meaningful
// are only defaulted when absent from the file.
func (c *Config) applyDefaults(defined func(key string) bool) {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.Locale == "" {
		c.Locale = "nb"
	}
	if !defined("projection_cache_size") {
		c.ProjectionCacheSize = 10 * 1024 * 1024
	}
	if c.RateLimitAllowedPerMin <= 0 {
		c.RateLimitAllowedPerMin = 60
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
}
