package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the settings of the API server.
type Config struct {
	AppPort        string
	DatabaseDriver string
	DatabaseDSN    string
	LogLevel       string
	RabbitMQURL    string
	EventsExchange string
	EventsQueue    string
	StaticDir      string
}

// Load reads the configuration from the environment. Variables from an
// optional .env file are loaded first and never override the real
// environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// A missing .env file is not an error.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "storefront.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("EVENTS_EXCHANGE", "catalog")
	v.SetDefault("EVENTS_QUEUE", "catalog_events")
	v.SetDefault("STATIC_DIR", "")
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		EventsExchange: v.GetString("EVENTS_EXCHANGE"),
		EventsQueue:    v.GetString("EVENTS_QUEUE"),
		StaticDir:      v.GetString("STATIC_DIR"),
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if !strings.Contains(cfg.AppPort, ":") {
		cfg.AppPort = ":" + cfg.AppPort
	}
	return cfg, nil
}

// EventsEnabled reports whether change events should be published.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}
