package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/2beens/fittrack/internal/fitness/analytics"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// analytics
	StatsRateLimitAllowedPerMin int                  `toml:"stats_rate_limit_allowed_per_min"`
	DashboardCacheSizeMB        int                  `toml:"dashboard_cache_size_mb"`
	TrendRelativeThreshold      float64              `toml:"trend_relative_threshold"`
	GoalThresholds              analytics.Thresholds `toml:"goal_thresholds"`
}

type Toml struct {
	Development *Config
	DockerDev   *Config `toml:"dockerdev"`
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Default is the base every section is decoded on top of, so a section only
// has to list what it overrides.
func Default() *Config {
	return &Config{
		Environment:                 "development",
		Host:                        "localhost",
		Port:                        9000,
		LogLevel:                    "debug",
		LogToStdout:                 true,
		PostgresHost:                "localhost",
		PostgresPort:                "5432",
		PostgresDBName:              "fittrack_db",
		RedisHost:                   "localhost",
		RedisPort:                   "6379",
		PrometheusMetricsHost:       "localhost",
		PrometheusMetricsPort:       "2112",
		StatsRateLimitAllowedPerMin: 120,
		DashboardCacheSizeMB:        16,
		TrendRelativeThreshold:      analytics.DefaultRelativeThreshold,
		GoalThresholds:              analytics.DefaultThresholds(),
	}
}

func Load(env, path string) (*Config, error) {
	t := &Toml{
		Development: Default(),
		DockerDev:   Default(),
		Production:  Default(),
	}
	if _, err := toml.DecodeFile(path, t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	if c.DashboardCacheSizeMB <= 0 {
		return errors.New("dashboard cache size must be positive")
	}
	if c.StatsRateLimitAllowedPerMin <= 0 {
		return errors.New("stats rate limit must be positive")
	}
	if c.TrendRelativeThreshold < 0 {
		return errors.New("trend relative threshold must not be negative")
	}
	return c.GoalThresholds.Validate()
}

func (c *Config) TrendConfig() analytics.TrendConfig {
	return analytics.TrendConfig{
		RelativeThreshold: c.TrendRelativeThreshold,
	}
}
