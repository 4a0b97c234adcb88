package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mcdev12/sportsball/go/internal/auth"
	"github.com/mcdev12/sportsball/go/internal/dbconfig"
	"github.com/mcdev12/sportsball/go/internal/outbox"
	"github.com/mcdev12/sportsball/go/internal/roster"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "config.yaml"

	driverMemory   = "memory"
	driverPostgres = "postgres"
)

// Config is assembled from defaults, then the YAML file, then the environment
type Config struct {
	Server   ServerConfig          `yaml:"server"`
	Storage  StorageConfig         `yaml:"storage"`
	Database dbconfig.Config       `yaml:"database"`
	Auth     AuthConfig            `yaml:"auth"`
	Roster   roster.Config         `yaml:"roster"`
	Outbox   outbox.Config         `yaml:"outbox"`
	Listener outbox.ListenerConfig `yaml:"listener"`
	NATS     NATSConfig            `yaml:"nats"`
}

type ServerConfig struct {
	Port            string        `yaml:"port" env:"PORT"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"JWT_TTL"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

// NATSConfig enables the JetStream publisher on top of its settings
type NATSConfig struct {
	Enabled                bool `yaml:"enabled" env:"NATS_ENABLED"`
	outbox.JetStreamConfig `yaml:",inline"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Storage:  StorageConfig{Driver: driverMemory},
		Database: dbconfig.Default(),
		Auth: AuthConfig{
			TokenTTL:   24 * time.Hour,
			BcryptCost: auth.DefaultCost,
		},
		Roster:   roster.Config{MaxAttempts: roster.DefaultMaxAttempts},
		Outbox:   outbox.DefaultConfig(),
		Listener: outbox.DefaultListenerConfig(),
		NATS:     NATSConfig{JetStreamConfig: outbox.DefaultJetStreamConfig()},
	}
}

// loadConfig reads path over the defaults and applies environment overrides.
// A missing file is only an error when the path was asked for explicitly.
func loadConfig(path string, required bool) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case driverMemory, driverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	return nil
}
