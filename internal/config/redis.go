package config

// This file defines the Redis client constructor.  Redis holds the hit
// counter and, when enabled, the rate limiter buckets.  The client is created
// once at startup and shared by every request; go-redis pools connections
// and is safe for concurrent use.

import (
	"crypto/tls"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes how to reach the Redis server.
type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	TLS         bool
	DialTimeout time.Duration
}

// Addr returns the host:port pair of the server.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// LoadRedisConfig reads the Redis settings.  Supported variables are:
//
//	REDIS_HOST and REDIS_PORT - hostname (default "redis") and port (default 6379)
//	REDIS_PASSWORD - optional password
//	REDIS_DB - database number (default 0)
//	REDIS_TLS - enable TLS when "true" or "1"
//	REDIS_DIAL_TIMEOUT - dial timeout (default 2s)
func LoadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:        envStr("REDIS_HOST", "redis"),
		Port:        envStr("REDIS_PORT", "6379"),
		Password:    envStr("REDIS_PASSWORD", ""),
		DB:          envInt("REDIS_DB", 0),
		TLS:         envBool("REDIS_TLS", false),
		DialTimeout: envDur("REDIS_DIAL_TIMEOUT", 2*time.Second),
	}
}

// NewRedisClient instantiates a Redis client from cfg.  No connection is
// made here: the service must start even while Redis is still coming up, and
// the first request pays the dial.  The client's internal retries are turned
// off because the hit counter runs its own bounded retry loop.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		TLSConfig:   tlsConf,
		DialTimeout: cfg.DialTimeout,
		MaxRetries:  -1,
	})
}
