package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultJWTSecret is only acceptable outside production
const defaultJWTSecret = "food_ordering_dev_secret_change_me"

type Config struct {
	Port         string
	Env          string
	LogLevel     string
	LogFormat    string
	JWTSecret    string
	TokenTTL     time.Duration
	Database     Database
	RedisURL     string
	RateLimit    int
	RateWindow   time.Duration
	AMQPURL      string
	AMQPExchange string
	CORSOrigins  []string
}

// Database selects and addresses the persistence backend
type Database struct {
	Driver        string // sqlite, postgres or mongo
	DSN           string
	MongoURI      string
	MongoDatabase string
}

// IsProduction reports whether APP_ENV is production
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (if present) and the process environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️  could not read .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only
func FromEnv() (Config, error) {
	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:  getDuration("JWT_EXPIRY", 7*24*time.Hour),
		Database: Database{
			Driver:        strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:           getEnv("DB_DSN", "food_ordering.db"),
			MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase: getEnv("MONGODB_DATABASE", "MadrasMeals"),
		},
		RedisURL:     os.Getenv("REDIS_URL"),
		RateLimit:    getInt("RATE_LIMIT", 100),
		RateWindow:   getDuration("RATE_WINDOW", time.Minute),
		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "orders_topic"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:4000")),
	}

	switch cfg.Database.Driver {
	case "sqlite", "postgres", "mongo":
	default:
		return Config{}, errors.New("DB_DRIVER must be one of sqlite, postgres, mongo")
	}
	if cfg.Database.Driver == "postgres" && os.Getenv("DB_DSN") == "" {
		return Config{}, errors.New("DB_DSN is required when DB_DRIVER=postgres")
	}
	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return Config{}, errors.New("JWT_SECRET must be set in production")
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("JWT_EXPIRY must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️  invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️  invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
