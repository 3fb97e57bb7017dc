package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the API server and the client CLI.
type Config struct {
	AppPort          string
	OperationLatency time.Duration
	CacheTTL         time.Duration
	RabbitMQURL      string
	EventsQueue      string
	APIBaseURL       string
	ClientTimeout    time.Duration
	SeedProducts     bool
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration through v, applying defaults for unset keys.
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("OPERATION_LATENCY", "100ms")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	v.SetDefault("EVENTS_QUEUE", "inventory_events")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("CLIENT_TIMEOUT", "10s")
	v.SetDefault("SEED_PRODUCTS", true)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:      v.GetString("APP_PORT"),
		RabbitMQURL:  v.GetString("RABBITMQ_URL"),
		EventsQueue:  v.GetString("EVENTS_QUEUE"),
		APIBaseURL:   v.GetString("API_BASE_URL"),
		SeedProducts: v.GetBool("SEED_PRODUCTS"),
	}

	var err error
	if cfg.OperationLatency, err = duration(v, "OPERATION_LATENCY"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = duration(v, "CACHE_TTL"); err != nil {
		return nil, err
	}
	if cfg.ClientTimeout, err = duration(v, "CLIENT_TIMEOUT"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.AppPort == "" {
		return fmt.Errorf("APP_PORT is required")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.RabbitMQURL != "" && c.EventsQueue == "" {
		return fmt.Errorf("EVENTS_QUEUE is required when RABBITMQ_URL is set")
	}
	return nil
}

// duration parses key strictly; viper's own GetDuration turns bad input into zero.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, d)
	}
	return d, nil
}
