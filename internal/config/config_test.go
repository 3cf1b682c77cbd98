package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/clinicdesk_test")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "3001" {
		t.Errorf("expected default port 3001, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected development env, got %s", cfg.Env)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected 20 max conns, got %d", cfg.DBMaxConns)
	}
	if cfg.TokenTTL != 168*time.Hour {
		t.Errorf("expected 168h token ttl, got %s", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/clinicdesk_test")
	os.Unsetenv("JWT_SECRET")

	if _, err := Load(); err == nil {
		t.Error("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("TOKEN_TTL", "24h")
	t.Setenv("CORS_ORIGINS", "https://clinic.example.com,https://admin.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.IsDev() {
		t.Error("expected non-development mode")
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %s", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 cors origins, got %v", cfg.CORSOrigins)
	}
}

func TestValidate_NonPositiveTTL(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/x",
		JWTSecret:   "s",
		TokenTTL:    0,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero token ttl")
	}
}
