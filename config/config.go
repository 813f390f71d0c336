// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"os"
	"strings"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"

	devJWTSecret  = "dev-secret-change-me"
	defaultOrigin = "http://localhost:5173"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required when STORE_BACKEND=mongo")

type Config struct {
	Port           string
	StoreBackend   string
	MongoURI       string
	MongoDatabase  string
	RedisURI       string
	JWTSecret      string
	AllowedOrigins []string
	StaticDir      string
	LogLevel       string
	GinMode        string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendURL        string

	KafkaBrokers []string
	KafkaTopic   string
}

// Load builds a Config from the environment. Call godotenv.Load first if a
// .env file should be honoured.
func Load() (*Config, error) {
	mongoURI := getEnv("MONGODB_URI", "")

	backend := strings.ToLower(getEnv("STORE_BACKEND", ""))
	if backend == "" {
		backend = BackendMemory
		if mongoURI != "" {
			backend = BackendMongo
		}
	}
	if backend != BackendMemory && backend != BackendMongo {
		return nil, errors.New("STORE_BACKEND must be memory or mongo, got " + backend)
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		if backend == BackendMongo {
			return nil, ErrMissingSecret
		}
		secret = devJWTSecret
	}
	if backend == BackendMongo && mongoURI == "" {
		return nil, errors.New("MONGODB_URI is required when STORE_BACKEND=mongo")
	}

	// cors refuses an empty origin list, so a blank setting keeps the default.
	origins := splitAndTrim(getEnv("ALLOWED_ORIGINS", defaultOrigin))
	if len(origins) == 0 {
		origins = []string{defaultOrigin}
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		StoreBackend:       backend,
		MongoURI:           mongoURI,
		MongoDatabase:      getEnv("MONGODB_DATABASE", "activeflow"),
		RedisURI:           getEnv("REDIS_URI", ""),
		JWTSecret:          secret,
		AllowedOrigins:     origins,
		StaticDir:          getEnv("STATIC_DIR", "static"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		FrontendURL:        getEnv("FRONTEND_URL", defaultOrigin),
		KafkaBrokers:       splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "workouts.created"),
	}, nil
}

// GoogleEnabled reports whether Google sign-in credentials are present.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
