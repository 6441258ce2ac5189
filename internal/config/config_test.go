package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "LOG_LEVEL", "DATABASE_DSN", "JWT_SECRET", "JWT_EXPIRY", "USER_CACHE_SIZE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWTExpiry != 10*time.Hour {
		t.Errorf("JWTExpiry = %s, want 10h", cfg.JWTExpiry)
	}
	if cfg.UserCacheSize != 3 {
		t.Errorf("UserCacheSize = %d, want 3", cfg.UserCacheSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_EXPIRY", "90m")
	t.Setenv("USER_CACHE_SIZE", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.JWTSecret.Reveal() != "s3cr3t" {
		t.Errorf("overrides not applied: port=%s", cfg.Port)
	}
	if cfg.JWTExpiry != 90*time.Minute {
		t.Errorf("JWTExpiry = %s, want 90m", cfg.JWTExpiry)
	}
	if cfg.UserCacheSize != 7 {
		t.Errorf("UserCacheSize = %d, want 7", cfg.UserCacheSize)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"JWT_EXPIRY", "ten hours"},
		{"JWT_EXPIRY", "-1h"},
		{"USER_CACHE_SIZE", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); !errors.Is(err, ErrDefaultSecretInProduction) {
		t.Errorf("Load() error = %v, want ErrDefaultSecretInProduction", err)
	}
}
