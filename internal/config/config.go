package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings normalizes enumerated values
	"time"    // time parses duration values
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Every value has a default so the service starts
// with an empty environment and talks to a Redis host named "redis".
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	LogLevel     string // zap log level (debug, info, warn, error)
	CounterStore string // backend holding the counter: "redis" or "mysql"
	DBUser       string // mysql username
	DBPass       string // mysql password (optional)
	DBHost       string // mysql host address
	DBPort       string // mysql port number
	DBName       string // mysql database name
	AMQPURL      string // broker for hit events; empty disables publishing
}

// Load reads configuration values from environment variables and returns a
// Config.  Unset variables fall back to their defaults.
func Load() Config {
	return Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         envStr("APP_PORT", "5000"),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		CounterStore: strings.ToLower(envStr("COUNTER_STORE", "redis")),
		DBUser:       envStr("DB_USER", "root"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       envStr("DB_HOST", "mysql"),
		DBPort:       envStr("DB_PORT", "3306"),
		DBName:       envStr("DB_NAME", "counter"),
		AMQPURL:      amqpURL(),
	}
}

// amqpURL prefers RABBITMQ_URL and falls back to AMQP_URL.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
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
