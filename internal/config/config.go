package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	AppEnv        string   `envconfig:"APP_ENV" default:"development"`
	Port          string   `envconfig:"PORT" default:"8080"`
	LogFormat     string   `envconfig:"LOG_FORMAT" default:"console"`
	LogLevel      string   `envconfig:"LOG_LEVEL" default:"info"`
	CORSOrigins   []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	StorageDriver string   `envconfig:"STORAGE_DRIVER" default:"memory"`
	StorageDir    string   `envconfig:"STORAGE_DIR" default:"./data"`
	DatabaseURL   string   `envconfig:"DATABASE_URL"`
	RedisAddr     string   `envconfig:"REDIS_ADDR"`

	JWTSecret     string        `envconfig:"JWT_SECRET"`
	JWTIssuer     string        `envconfig:"JWT_ISSUER" default:"ets-hub"`
	JWTTTLMinutes int           `envconfig:"JWT_TTL_MINUTES" default:"60"`
	JWTTTL        time.Duration `ignored:"true"`

	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	DeviceCookie    string        `envconfig:"DEVICE_COOKIE" default:"ets_device"`
	AdminAccessHash string        `envconfig:"ADMIN_ACCESS_HASH"`
	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"20"`
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Port = fallback(c.Port, "8080")
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	c.JWTIssuer = fallback(c.JWTIssuer, "ets-hub")
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.RedisAddr = strings.TrimSpace(c.RedisAddr)
	c.StorageDriver = strings.ToLower(fallback(c.StorageDriver, DriverMemory))
	c.CORSOrigins = normalizeOrigins(c.CORSOrigins)
	if c.JWTTTLMinutes > 0 {
		c.JWTTTL = time.Duration(c.JWTTTLMinutes) * time.Minute
	} else {
		c.JWTTTL = 60 * time.Minute
	}
	if c.LoginRateLimit < 0 {
		c.LoginRateLimit = 0
	}
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StorageDriver {
	case DriverMemory:
	case DriverFile:
		if strings.TrimSpace(c.StorageDir) == "" {
			return errors.New("STORAGE_DIR is required for the file driver")
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// ClientConfig configures the etsctl command.
type ClientConfig struct {
	Home            string `envconfig:"ETS_HOME"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"warn"`
	AdminAccessHash string `envconfig:"ADMIN_ACCESS_HASH"`
}

// LoadClient reads the etsctl configuration. Home defaults to ~/.ets.
func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("process env: %w", err)
	}
	if strings.TrimSpace(cfg.Home) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ClientConfig{}, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".ets")
	}
	return cfg, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func normalizeOrigins(in []string) []string {
	var out []string
	for _, part := range in {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
