package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "APP_PORT", "LOG_LEVEL", "COUNTER_STORE", "RABBITMQ_URL", "AMQP_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "redis", cfg.CounterStore)
	assert.Empty(t, cfg.AMQPURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("COUNTER_STORE", "MySQL")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://broker:5672/")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.CounterStore)
	assert.Equal(t, "amqp://broker:5672/", cfg.AMQPURL)
}

func TestLoadRedisConfig(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		port     string
		wantAddr string
	}{
		{name: "defaults", wantAddr: "redis:6379"},
		{name: "custom host", host: "localhost", wantAddr: "localhost:6379"},
		{name: "custom host and port", host: "10.0.0.7", port: "6380", wantAddr: "10.0.0.7:6380"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REDIS_HOST", tt.host)
			t.Setenv("REDIS_PORT", tt.port)
			assert.Equal(t, tt.wantAddr, LoadRedisConfig().Addr())
		})
	}
}

func TestNewRedisClient_DisablesInternalRetries(t *testing.T) {
	client := NewRedisClient(RedisConfig{Host: "localhost", Port: "6379", DialTimeout: time.Second})
	defer client.Close()

	assert.Equal(t, "localhost:6379", client.Options().Addr)
	// go-redis normalizes -1 to zero retries.
	assert.Equal(t, 0, client.Options().MaxRetries)
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)
	assert.Equal(t, "ip_route", cfg.KeyStrategy)
}

func TestLoadRateLimitConfig_SubMillisecondInterval(t *testing.T) {
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "500us")
	t.Setenv("RATE_LIMIT_TTL", "100ms")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, time.Millisecond, cfg.RefillInterval)
	assert.Equal(t, int64(1), cfg.RefillInterval.Milliseconds())
	assert.Equal(t, time.Second, cfg.TTL)
}

func TestEnvBool(t *testing.T) {
	t.Setenv("FLAG", "ON")
	assert.True(t, envBool("FLAG", false))
	t.Setenv("FLAG", "nope")
	assert.True(t, envBool("FLAG", true))
}
