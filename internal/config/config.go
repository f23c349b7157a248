package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Port string
	}
	Store struct {
		Path string
	}
	Invoice struct {
		LogoPath string
	}
	DeleteDelay time.Duration
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. Every value has a default; a missing .env is not an error.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: failed to load %s: %w", path, err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getEnv("APP_PORT", "8080")
	cfg.Store.Path = getEnv("STORE_PATH", "orders.db")
	cfg.Invoice.LogoPath = getEnv("LOGO_PATH", "")

	delay := getEnv("DELETE_DELAY", "500ms")
	d, err := time.ParseDuration(delay)
	if err != nil {
		return nil, fmt.Errorf("config: invalid DELETE_DELAY %q: %w", delay, err)
	}
	cfg.DeleteDelay = d

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
