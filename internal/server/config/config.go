package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Defaults for every tunable except the signing secret, which has no
// sensible default and must be provided.
const (
	DefaultAddr       = ":3000"
	DefaultMongoURI   = "mongodb://127.0.0.1:27017"
	DefaultMongoDB    = "task-manager-api"
	DefaultSessionTTL = 7 * 24 * time.Hour
	DefaultBcryptCost = 8
	DefaultRateLimit  = 100
	DefaultRateWindow = time.Minute
)

// Config holds the server configuration, loaded once at startup and
// immutable for the process lifetime.
type Config struct {
	Addr       string
	MongoURI   string
	MongoDB    string
	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int
	RateLimit  int
	RateWindow time.Duration
	LogLevel   slog.Level
}

// Load reads configuration from TASKMASTER_* environment variables,
// falling back to defaults. TASKMASTER_JWT_SECRET is required.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:       getEnv("TASKMASTER_ADDR", DefaultAddr),
		MongoURI:   getEnv("TASKMASTER_MONGO_URI", DefaultMongoURI),
		MongoDB:    getEnv("TASKMASTER_MONGO_DB", DefaultMongoDB),
		JWTSecret:  os.Getenv("TASKMASTER_JWT_SECRET"),
		SessionTTL: DefaultSessionTTL,
		BcryptCost: DefaultBcryptCost,
		RateLimit:  DefaultRateLimit,
		RateWindow: DefaultRateWindow,
		LogLevel:   slog.LevelInfo,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("TASKMASTER_JWT_SECRET is required")
	}

	if v := os.Getenv("TASKMASTER_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid TASKMASTER_SESSION_TTL %q", v)
		}
		cfg.SessionTTL = ttl
	}

	if v := os.Getenv("TASKMASTER_BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil || cost < 4 || cost > 31 {
			return nil, fmt.Errorf("invalid TASKMASTER_BCRYPT_COST %q", v)
		}
		cfg.BcryptCost = cost
	}

	if v := os.Getenv("TASKMASTER_RATE_LIMIT"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("invalid TASKMASTER_RATE_LIMIT %q", v)
		}
		cfg.RateLimit = rate
	}

	if v := os.Getenv("TASKMASTER_RATE_WINDOW"); v != "" {
		window, err := time.ParseDuration(v)
		if err != nil || window <= 0 {
			return nil, fmt.Errorf("invalid TASKMASTER_RATE_WINDOW %q", v)
		}
		cfg.RateWindow = window
	}

	if v := os.Getenv("TASKMASTER_LOG_LEVEL"); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid TASKMASTER_LOG_LEVEL %q", v)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
