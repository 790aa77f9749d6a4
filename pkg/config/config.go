package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the binaries read from the environment.
type Config struct {
	App struct {
		Port string
	}
	API struct {
		BaseURL string
	}
	Poll struct {
		ListInterval  time.Duration
		OrderInterval time.Duration
	}
	Track struct {
		DBPath string
	}
	Metrics struct {
		Addr string
	}
	AMQP struct {
		URL      string // empty disables the AMQP publisher
		Exchange string
	}
}

// Load reads configuration from the environment, optionally seeded from
// a .env file at path.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getEnv("APP_PORT", "8080")
	cfg.API.BaseURL = getEnv("API_BASE_URL", "http://localhost:8080")
	cfg.Track.DBPath = getEnv("TRACK_DB_PATH", "ordertrack.db")
	cfg.Metrics.Addr = getEnv("METRICS_ADDR", ":9090")
	cfg.AMQP.URL = getEnv("AMQP_URL", "")
	cfg.AMQP.Exchange = getEnv("AMQP_EXCHANGE", "order_events")

	var err error
	cfg.Poll.ListInterval, err = getDuration("POLL_LIST_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Poll.OrderInterval, err = getDuration("POLL_ORDER_INTERVAL", 10*time.Second)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
