package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/useraccounts/useraccounts-go/internal/model"
)

const defaultJWTSecret = "dev-secret-change-in-production"

var ErrDefaultSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseDSN   string
	JWTSecret     model.Secret
	JWTExpiry     time.Duration
	UserCacheSize int
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/accounts?parseTime=true"),
		JWTSecret:   model.Secret(getEnv("JWT_SECRET", defaultJWTSecret)),
	}

	expiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "10h"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing JWT_EXPIRY: %w", err)
	}
	if expiry <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRY must be positive, got %s", expiry)
	}
	cfg.JWTExpiry = expiry

	size, err := strconv.Atoi(getEnv("USER_CACHE_SIZE", "3"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing USER_CACHE_SIZE: %w", err)
	}
	cfg.UserCacheSize = size

	if cfg.Env == "production" && cfg.JWTSecret.Reveal() == defaultJWTSecret {
		return Config{}, ErrDefaultSecretInProduction
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
