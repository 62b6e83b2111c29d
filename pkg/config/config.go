package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"FinLens/pkg/logger"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		SlowThreshold   time.Duration `yaml:"slow_threshold"`
	} `yaml:"server"`
	Logger  logger.Config `yaml:"logger"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Yahoo struct {
		ChartURL   string        `yaml:"chart_url"`
		SummaryURL string        `yaml:"summary_url"`
		UserAgent  string        `yaml:"user_agent"`
		Timeout    time.Duration `yaml:"timeout"`
		RatePerSec float64       `yaml:"rate_per_sec"`
		Burst      int           `yaml:"burst"`
	} `yaml:"yahoo"`
	Cache struct {
		Backend string        `yaml:"backend"` // none, memory, redis, layered
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled"`
		Capacity     float64 `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"ratelimit"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FINLENS_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("FINLENS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("FINLENS_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("FINLENS_LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("YAHOO_CHART_URL"); v != "" {
		c.Yahoo.ChartURL = v
	}
	if v := os.Getenv("YAHOO_SUMMARY_URL"); v != "" {
		c.Yahoo.SummaryURL = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "console"
	}
	if c.Logger.Output == "" {
		c.Logger.Output = "stdout"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Yahoo.ChartURL == "" {
		c.Yahoo.ChartURL = "https://query1.finance.yahoo.com"
	}
	if c.Yahoo.SummaryURL == "" {
		c.Yahoo.SummaryURL = "https://query2.finance.yahoo.com"
	}
	if c.Yahoo.UserAgent == "" {
		c.Yahoo.UserAgent = "Mozilla/5.0"
	}
	if c.Yahoo.Timeout == 0 {
		c.Yahoo.Timeout = 15 * time.Second
	}
	if c.Yahoo.RatePerSec == 0 {
		c.Yahoo.RatePerSec = 2
	}
	if c.Yahoo.Burst == 0 {
		c.Yahoo.Burst = 4
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "none"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 15 * time.Minute
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 20
	}
	if c.RateLimit.RefillPerSec == 0 {
		c.RateLimit.RefillPerSec = 1
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Yahoo.ChartURL == "" || c.Yahoo.SummaryURL == "" {
		return fmt.Errorf("yahoo.chart_url and yahoo.summary_url are required")
	}
	if c.Yahoo.RatePerSec < 0 {
		return fmt.Errorf("yahoo.rate_per_sec cannot be negative")
	}
	switch c.Cache.Backend {
	case "none", "memory":
	case "redis", "layered":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required when cache.backend is '%s'", c.Cache.Backend)
		}
	default:
		return fmt.Errorf("cache.backend must be 'none', 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	return nil
}
