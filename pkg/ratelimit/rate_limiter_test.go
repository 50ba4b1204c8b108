package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, cfg *Config) *RateLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, cfg)
}

func TestIsAllowed(t *testing.T) {
	limiter := newTestLimiter(t, &Config{
		Enabled:                 true,
		WindowDuration:          time.Minute,
		DefaultRequests:         10,
		BookingCriticalRequests: 3,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBookingCritical)
		if err != nil {
			t.Fatalf("IsAllowed() error = %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d rejected, want allowed", i+1)
		}
		if want := 3 - i - 1; res.Remaining != want {
			t.Errorf("request %d remaining = %d, want %d", i+1, res.Remaining, want)
		}
	}

	res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBookingCritical)
	if err != nil {
		t.Fatalf("IsAllowed() error = %v", err)
	}
	if res.Allowed {
		t.Error("fourth request allowed, want rejected")
	}

	t.Run("classes and clients are independent", func(t *testing.T) {
		res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeDefault)
		if err != nil || !res.Allowed {
			t.Errorf("default class: allowed = %v, err = %v", res != nil && res.Allowed, err)
		}
		res, err = limiter.IsAllowed(ctx, "10.0.0.2", RateLimitTypeBookingCritical)
		if err != nil || !res.Allowed {
			t.Errorf("other client: allowed = %v, err = %v", res != nil && res.Allowed, err)
		}
	})
}

func TestIsAllowedWhitelistAndDisabled(t *testing.T) {
	cfg := &Config{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 0,
		WhitelistedIPs:  []string{"127.0.0.1"},
	}
	limiter := newTestLimiter(t, cfg)

	res, err := limiter.IsAllowed(context.Background(), "127.0.0.1", RateLimitTypeDefault)
	if err != nil || !res.Allowed {
		t.Fatalf("whitelisted ip: allowed = %v, err = %v", res != nil && res.Allowed, err)
	}

	cfg.Enabled = false
	res, err = limiter.IsAllowed(context.Background(), "10.1.1.1", RateLimitTypeDefault)
	if err != nil || !res.Allowed {
		t.Fatalf("disabled limiter: allowed = %v, err = %v", res != nil && res.Allowed, err)
	}
}

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		path string
		want RateLimitType
	}{
		{"/health", RateLimitTypeHealth},
		{"/api/v1/locks", RateLimitTypeBookingCritical},
		{"/api/v1/locks/:lockId/release", RateLimitTypeBookingCritical},
		{"/api/v1/bookings", RateLimitTypeBookingCritical},
		{"/api/v1/shows/:showId/seats", RateLimitTypePublic},
		{"/api/v1/unknown", RateLimitTypeDefault},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := getRateLimitType(tt.path); got != tt.want {
				t.Errorf("getRateLimitType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := newTestLimiter(t, &Config{
		Enabled:                 true,
		WindowDuration:          time.Minute,
		BookingCriticalRequests: 1,
	})

	engine := gin.New()
	engine.Use(Middleware(limiter))
	engine.POST("/api/v1/locks", func(c *gin.Context) { c.Status(http.StatusCreated) })

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/locks", nil)
		req.Header.Set("X-Real-IP", "192.168.1.5")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	if w := do(); w.Code != http.StatusCreated {
		t.Fatalf("first request status = %d, want 201", w.Code)
	}
	w := do()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if w.Header().Get("X-RateLimit-Limit") != "1" {
		t.Errorf("X-RateLimit-Limit = %q, want 1", w.Header().Get("X-RateLimit-Limit"))
	}
}
