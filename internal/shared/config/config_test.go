package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REDIS_LOCK_TTL", "")
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Redis.LockTTL != 10*time.Minute {
		t.Errorf("LockTTL = %v, want 10m", cfg.Redis.LockTTL)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.GetAPIBasePath() != "/api/v1" {
		t.Errorf("GetAPIBasePath() = %q", cfg.GetAPIBasePath())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_LOCK_TTL", "90s")
	t.Setenv("PAYMENT_METHODS", "card, ,upi")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("RATE_LIMIT_ENABLED", "not-a-bool")
	cfg := Load()

	if cfg.Redis.LockTTL != 90*time.Second {
		t.Errorf("LockTTL = %v, want 90s", cfg.Redis.LockTTL)
	}
	if len(cfg.PaymentMethods) != 2 || cfg.PaymentMethods[1] != "upi" {
		t.Errorf("PaymentMethods = %v", cfg.PaymentMethods)
	}
	if len(cfg.Events.KafkaBrokers) != 2 {
		t.Errorf("KafkaBrokers = %v", cfg.Events.KafkaBrokers)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("unparseable bool should fall back to default true")
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("BOOKING_API_URL", "http://booking.test/api/v1")
	t.Setenv("BOOKING_REQUEST_TIMEOUT", "250ms")
	cfg := LoadClient()

	if cfg.BaseURL != "http://booking.test/api/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 250*time.Millisecond {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.ReleaseTimeout != 5*time.Second {
		t.Errorf("ReleaseTimeout = %v", cfg.ReleaseTimeout)
	}
}
