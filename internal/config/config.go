package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	APIURL         string
	RequestTimeout time.Duration
	ContentType    string
	VocabularyFile string
	FallbackPage   string

	SessionBackend string
	SessionTTL     time.Duration
	RedisAddress   string
	RedisPassword  string
	RedisDB        int
	DatabaseURL    string

	RabbitMQURL        string
	SessionEventsQueue string

	MetricsAddr string
	Version     string
}

func Load() *Config {
	apiURL := os.Getenv("PORTAL_API_URL")
	if apiURL == "" {
		panic("PORTAL_API_URL environment variable is required")
	}

	backend := strings.ToLower(getenv("SESSION_BACKEND", BackendMemory))
	switch backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		panic("SESSION_BACKEND must be one of memory, redis, postgres; got " + backend)
	}

	cfg := &Config{
		APIURL:             apiURL,
		RequestTimeout:     getenvDuration("PORTAL_REQUEST_TIMEOUT", 15*time.Second),
		ContentType:        getenv("PORTAL_CONTENT_TYPE", "application/json"),
		VocabularyFile:     os.Getenv("PORTAL_VOCABULARY_FILE"),
		FallbackPage:       getenv("PORTAL_FALLBACK_PAGE", "index.html"),
		SessionBackend:     backend,
		SessionTTL:         getenvDuration("SESSION_TTL", 12*time.Hour),
		RedisAddress:       getenv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getenvInt("REDIS_DB", 0),
		DatabaseURL:        os.Getenv("DB_CONNECTION_STRING"),
		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),
		SessionEventsQueue: getenv("SESSION_EVENTS_QUEUE", "portal-sessions"),
		MetricsAddr:        os.Getenv("METRICS_ADDR"),
		Version:            getenv("APP_VERSION", "unknown"),
	}

	if cfg.SessionBackend == BackendPostgres && cfg.DatabaseURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required for the postgres session backend")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}

	return cfg
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
