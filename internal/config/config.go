// Package config loads the client's configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.
type Config struct {
	Env         string        // APP_ENV: dev, test or prod
	Port        string        // APP_PORT: view server port
	BackendURL  string        // BACKEND_URL: REST API root
	HTTPTimeout time.Duration // HTTP_TIMEOUT: per-request backend timeout
	LogLevel    string        // LOG_LEVEL: debug, info, warn, error, off
	SessionTTL  time.Duration // SESSION_IDLE_TTL: idle selection sessions are closed after this

	Live  LiveConfig
	Redis RedisConfig
	Cache CacheConfig
}

// Load reads .env (when present) and the environment.  Values already
// set in the environment win over .env.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() Config {
	return Config{
		Env:         envStr("APP_ENV", "dev"),
		Port:        envStr("APP_PORT", "3000"),
		BackendURL:  envStr("BACKEND_URL", "http://localhost:8080/api"),
		HTTPTimeout: envDur("HTTP_TIMEOUT", 10*time.Second),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		SessionTTL:  envDur("SESSION_IDLE_TTL", 30*time.Minute),
		Live:        LoadLiveConfig(),
		Redis:       LoadRedisConfig(),
		Cache:       LoadCacheConfig(),
	}
}

// Validate reports every invalid setting at once.  In prod, BACKEND_URL
// must be set explicitly.
func (c Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("APP_PORT: %q is not a port", c.Port))
	}
	if u, err := url.Parse(c.BackendURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("BACKEND_URL: %q is not an http(s) url", c.BackendURL))
	}
	if c.Env == "prod" {
		if _, ok := os.LookupEnv("BACKEND_URL"); !ok {
			errs = append(errs, errors.New("BACKEND_URL: required in prod"))
		}
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT: must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_IDLE_TTL: must be positive"))
	}
	if err := c.Live.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
