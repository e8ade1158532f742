package config

import (
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := FromEnv()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, TransportRedis, cfg.Live.Transport)
	assert.Equal(t, 5*time.Second, cfg.Live.ReconnectDelay)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.Cache.Methods["GET"])
	require.NoError(t, cfg.Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "8081")
	t.Setenv("BACKEND_URL", "https://theater.example.com/api")
	t.Setenv("LIVE_TRANSPORT", "amqp")
	t.Setenv("LIVE_RECONNECT_DELAY", "2s")
	t.Setenv("LIVE_RECONNECT_MAX_ATTEMPTS", "3")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_TLS", "yes")
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("SESSION_IDLE_TTL", "5m")

	cfg := FromEnv()
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, TransportAMQP, cfg.Live.Transport)
	assert.Equal(t, 2*time.Second, cfg.Live.ReconnectDelay)
	assert.Equal(t, 3, cfg.Live.MaxAttempts)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.NotNil(t, cfg.Redis.Options().TLSConfig)
	assert.True(t, cfg.Cache.Methods["HEAD"])
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	require.NoError(t, cfg.Validate())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	t.Setenv("REDIS_DB", "x")
	cfg := FromEnv()
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_PORT", "web")
	t.Setenv("LIVE_TRANSPORT", "carrier-pigeon")
	err := FromEnv().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PORT")
	assert.Contains(t, err.Error(), "BACKEND_URL: required in prod")
	assert.Contains(t, err.Error(), "LIVE_TRANSPORT")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DEBUG, ParseLevel("DEBUG"))
	assert.Equal(t, log.OFF, ParseLevel("off"))
	assert.Equal(t, log.INFO, ParseLevel(""))
}
