package config

import (
	"testing"
	"time"
)

func TestLoadRequiresBackendBaseURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when BACKEND_BASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend:9000/")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("COOKIE_SECURE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendBaseURL != "http://backend:9000" {
		t.Errorf("trailing slash should be stripped, got %q", cfg.BackendBaseURL)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("default addr %q", cfg.HTTPAddr)
	}
	if cfg.CookieMaxAge != 24*time.Hour {
		t.Errorf("default cookie max age %v", cfg.CookieMaxAge)
	}
	if cfg.BackendTimeout != 10*time.Second {
		t.Errorf("default backend timeout %v", cfg.BackendTimeout)
	}
	if cfg.CookieSecure {
		t.Error("dev env should default to an insecure cookie")
	}
	if cfg.RateLimitPerMin != 300 {
		t.Errorf("default rate limit %d", cfg.RateLimitPerMin)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("brokers should default empty, got %v", cfg.KafkaBrokers)
	}
}

func TestLoadParsesBrokersAndDurations(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend:9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("APP_ENV", "prod")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "k1:9092" || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("brokers %v", cfg.KafkaBrokers)
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Errorf("timeout %v", cfg.BackendTimeout)
	}
	if !cfg.CookieSecure {
		t.Error("prod env should default to a secure cookie")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend:9000")
	t.Setenv("BACKEND_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid duration")
	}
	t.Setenv("BACKEND_TIMEOUT", "")
	t.Setenv("COOKIE_SECURE", "maybe")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid boolean")
	}
}
