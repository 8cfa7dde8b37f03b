package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Admin    AdminConfig    `yaml:"admin"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`

	// RateLimit throttles the public form endpoints per client IP
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Environment     string        `yaml:"environment"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	GracefulTimeout time.Duration `yaml:"graceful_timeout"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// DatabaseConfig holds the embedded store configuration
type DatabaseConfig struct {
	// Path of the database file; parent directories are created on open
	Path               string        `yaml:"path"`
	BusyTimeout        time.Duration `yaml:"busy_timeout"`
	QueryTimeout       time.Duration `yaml:"query_timeout"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"`
	BootstrapRetries   int           `yaml:"bootstrap_retries"`
}

// AdminConfig holds the seed credential consumed once at bootstrap
type AdminConfig struct {
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	BCryptCost int    `yaml:"bcrypt_cost"`
}

// CacheConfig holds the facet cache configuration
type CacheConfig struct {
	Provider string        `yaml:"provider"` // "none", "memory", "redis"
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

// RateLimitConfig holds the fixed-window limit for public submissions
type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled"`
	Limit   int           `yaml:"limit"`
	Window  time.Duration `yaml:"window"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			Environment:     "development",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			GracefulTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:               "data/hirehub.db",
			BusyTimeout:        5 * time.Second,
			QueryTimeout:       10 * time.Second,
			SlowQueryThreshold: 100 * time.Millisecond,
			BootstrapRetries:   5,
		},
		Admin: AdminConfig{
			Username:   "admin",
			BCryptCost: bcrypt.DefaultCost,
		},
		Cache: CacheConfig{
			Provider: "memory",
			TTL:      time.Minute,
		},
		Logging: LoggingConfig{
			Level: "debug",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Limit:   10,
			Window:  time.Minute,
		},
	}
}

// Load reads configuration: defaults, then an optional YAML file, then
// .env files, then the process environment.
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load() // fallback to .env
		}
	}

	cfg := Default()
	cfg.Server.Environment = env
	if env == "production" {
		cfg.Logging.Level = "info"
	}

	if path := getEnv("HIREHUB_CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getDurationEnv("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.GracefulTimeout = getDurationEnv("SERVER_GRACEFUL_TIMEOUT", c.Server.GracefulTimeout)

	c.Database.Path = getEnv("DATABASE_PATH", c.Database.Path)
	c.Database.BusyTimeout = getDurationEnv("DB_BUSY_TIMEOUT", c.Database.BusyTimeout)
	c.Database.QueryTimeout = getDurationEnv("DB_QUERY_TIMEOUT", c.Database.QueryTimeout)
	c.Database.SlowQueryThreshold = getDurationEnv("DB_SLOW_QUERY_THRESHOLD", c.Database.SlowQueryThreshold)
	c.Database.BootstrapRetries = getIntEnv("DB_BOOTSTRAP_RETRIES", c.Database.BootstrapRetries)

	c.Admin.Username = getEnv("ADMIN_USERNAME", c.Admin.Username)
	c.Admin.Password = getEnv("ADMIN_PASSWORD", c.Admin.Password)
	c.Admin.Email = getEnv("ADMIN_EMAIL", c.Admin.Email)
	c.Admin.Phone = getEnv("ADMIN_PHONE", c.Admin.Phone)
	c.Admin.BCryptCost = getIntEnv("BCRYPT_COST", c.Admin.BCryptCost)

	c.Cache.Provider = strings.ToLower(getEnv("CACHE_PROVIDER", c.Cache.Provider))
	c.Cache.RedisURL = getEnv("REDIS_URL", c.Cache.RedisURL)
	c.Cache.TTL = getDurationEnv("CACHE_TTL", c.Cache.TTL)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)

	c.RateLimit.Enabled = getBoolEnv("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.Limit = getIntEnv("RATE_LIMIT_REQUESTS", c.RateLimit.Limit)
	c.RateLimit.Window = getDurationEnv("RATE_LIMIT_WINDOW", c.RateLimit.Window)
}

// Validate checks the configuration for unusable values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Admin.BCryptCost < bcrypt.MinCost || c.Admin.BCryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Admin.BCryptCost)
	}
	if c.Database.BootstrapRetries < 0 {
		return fmt.Errorf("DB_BOOTSTRAP_RETRIES must not be negative")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	switch c.Cache.Provider {
	case "none", "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_PROVIDER=redis")
		}
	default:
		return fmt.Errorf("unknown cache provider %q", c.Cache.Provider)
	}
	return nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
