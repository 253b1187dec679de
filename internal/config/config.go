package config

import (
	"fmt"

	pkgconfig "github.com/VisheshJ2007/StoreSight/pkg/config"
	"github.com/VisheshJ2007/StoreSight/pkg/database"
	"github.com/VisheshJ2007/StoreSight/pkg/validator"
)

// Config holds all configuration for the StoreSight service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development" validate:"oneof=development staging production"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STORESIGHT_HTTP_PORT" envDefault:"8080" validate:"gte=1,lte=65535"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"storesight"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"storesight_secret"`
	PostgresDB   string `env:"STORESIGHT_DB_NAME" envDefault:"storesight"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storesight config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("invalid storesight config: %w", err)
	}
	return nil
}

// Postgres builds the pool configuration for the review store.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPass
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSL
	return pg
}
