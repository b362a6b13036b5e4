// Package config loads process settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	DatasetPath     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    int
	RateLimitBurst  int
	DefaultPerPage  int
}

// Load reads the configuration. A .env file in the working directory, if
// present, seeds variables that are not already set.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the current environment only.
func FromEnv() Config {
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		DatasetPath:     env("DATASET_PATH", "RU.txt"),
		RequestTimeout:  time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		ShutdownTimeout: time.Duration(atoi("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		RateLimitRPS:    atoi("RATE_LIMIT_RPS", 50),
		RateLimitBurst:  atoi("RATE_LIMIT_BURST", 100),
		DefaultPerPage:  atoi("DEFAULT_PER_PAGE", 10),
	}
	if c.DefaultPerPage <= 0 {
		log.Warn().Int("default_per_page", c.DefaultPerPage).Msg("DEFAULT_PER_PAGE must be positive, using 10")
		c.DefaultPerPage = 10
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer setting")
	}
	return def
}
