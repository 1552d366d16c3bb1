package config

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const AppName = "SIM Pemesanan Buku ISMUBA & MIPA"

type Config struct {
	HTTPPort             string
	BackendURL           string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	SessionTimeout       time.Duration
	SessionCheckInterval time.Duration
	SessionSecret        string
	TokenMaxAge          time.Duration
	CookieSecure         bool
	RequestTimeout       time.Duration
	BackendTimeout       time.Duration
	ShutdownTimeout      time.Duration
	MaxRequestBodySize   int64
	MasterDataTTL        time.Duration
	SearchDebounce       time.Duration
	KafkaBrokers         []string
	KafkaTopic           string
	LogLevel             string
}

// Load reads .env (when present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file, using process environment")
	}

	return &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		BackendURL:           getEnv("BACKEND_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		SessionTimeout:       getEnvDuration("SESSION_TIMEOUT", 30*time.Minute),
		SessionCheckInterval: getEnvDuration("SESSION_CHECK_INTERVAL", time.Minute),
		SessionSecret:        getEnv("SESSION_SECRET", randomSecret()),
		TokenMaxAge:          getEnvDuration("TOKEN_MAX_AGE", 12*time.Hour),
		CookieSecure:         getEnvBool("COOKIE_SECURE", false),
		RequestTimeout:       getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		BackendTimeout:       getEnvDuration("BACKEND_TIMEOUT", 30*time.Second),
		ShutdownTimeout:      getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxRequestBodySize:   int64(getEnvInt("MAX_REQUEST_BODY", 8<<20)), // 5MB proof as base64 + fields
		MasterDataTTL:        getEnvDuration("MASTER_DATA_TTL", 15*time.Minute),
		SearchDebounce:       getEnvDuration("SEARCH_DEBOUNCE", 500*time.Millisecond),
		KafkaBrokers:         splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:           getEnv("KAFKA_TOPIC", "portal-activity"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	if value := os.Getenv(key + "_SECONDS"); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// randomSecret keeps sessions valid for the life of one process only.
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
