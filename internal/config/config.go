package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string         `env:"ENV" envDefault:"development"`
	HTTP     HTTPConfig     `envPrefix:"HTTP_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Flags    FlagsConfig    `envPrefix:"ROLLOUT_"`
	Catalog  CatalogConfig  `envPrefix:"CATALOG_"`
}

type HTTPConfig struct {
	Addr              string        `env:"ADDR" envDefault:":8080"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
}

type DatabaseConfig struct {
	URL      string `env:"URL"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"shop"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type RedisConfig struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"1m"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type FlagsConfig struct {
	APIKey string `env:"API_KEY"`
}

type CatalogConfig struct {
	PageSize   int           `env:"PAGE_SIZE" envDefault:"10"`
	Language   string        `env:"LANGUAGE" envDefault:"en"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`
}

// DSN returns the connection string, preferring DB_URL when it is set
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// RedisEnabled reports whether a cache address was configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// Load reads an optional .env file outside production and parses the environment
func Load() (*Config, error) {
	if os.Getenv("ENV") != "production" {
		// missing .env is fine, the process environment is used as is
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Catalog.PageSize < 1 {
		return nil, fmt.Errorf("CATALOG_PAGE_SIZE must be at least 1, got %d", cfg.Catalog.PageSize)
	}
	return cfg, nil
}
