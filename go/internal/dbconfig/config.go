package dbconfig

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Config holds Postgres connection settings.
type Config struct {
	URL      string `yaml:"url" env:"DATABASE_URL"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Database string `yaml:"database" env:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE"`
}

// Default returns the settings of a local development database
func Default() Config {
	return Config{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "sportsball",
		SSLMode:  "disable",
	}
}

// NewConfigFromEnv reads DB_* environment variables over the defaults.
func NewConfigFromEnv() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse database env: %w", err)
	}
	return cfg, nil
}

// DSN returns the Postgres connection URL. An explicit URL wins over the parts.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}
