package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := newTokenBucket(10, 1.0) // 10 tokens, 1 token per second

	for i := 0; i < 10; i++ {
		if !bucket.allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	if bucket.allow() {
		t.Error("Expected 11th request to be denied")
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(2, 10.0) // 1 token every 100ms

	bucket.allow()
	bucket.allow()
	if bucket.allow() {
		t.Fatal("Expected empty bucket to deny")
	}

	time.Sleep(150 * time.Millisecond)

	if !bucket.allow() {
		t.Error("Expected request to be allowed after refill")
	}
}

func TestTokenBucket_GetStatus(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 5; i++ {
		bucket.allow()
	}

	remaining, resetTime := bucket.getStatus()
	if remaining != 5 {
		t.Errorf("Expected 5 remaining tokens, got %d", remaining)
	}
	if !resetTime.After(time.Now()) {
		t.Error("Reset time should be in the future")
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/survey", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/survey", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if info.RetryAfter <= 0 {
		t.Error("Expected retry after to be positive")
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/survey", "GET"); !allowed {
			t.Fatalf("Expected whitelisted request %d to be allowed", i+1)
		}
	}

	if allowed, _ := limiter.Allow("192.168.1.1", "/health", "GET"); allowed {
		t.Error("Expected blacklisted request to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/sessions", "POST")
		if !allowed || info.Limit != 0 {
			t.Fatalf("Expected request %d to be allowed without a limit", i+1)
		}
	}
}

func TestLimiter_SubmitSharesBucketAcrossSessions(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	// Burst for submit is 3, spread across different sessions.
	for i := 0; i < 3; i++ {
		path := fmt.Sprintf("/sessions/session-%d/submit", i)
		allowed, info := limiter.Allow("10.0.0.1", path, "POST")
		if !allowed {
			t.Errorf("Expected submit %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
	}

	if allowed, _ := limiter.Allow("10.0.0.1", "/sessions/session-9/submit", "POST"); allowed {
		t.Error("Expected submit beyond burst to be denied")
	}

	// Another client has its own budget.
	if allowed, _ := limiter.Allow("10.0.0.2", "/sessions/session-0/submit", "POST"); !allowed {
		t.Error("Expected other client to be allowed")
	}

	// Field edits use a separate tier.
	if allowed, info := limiter.Allow("10.0.0.1", "/sessions/session-0/fields/venueSetup", "PUT"); !allowed || info.Limit != 600 {
		t.Errorf("Expected field edit to be allowed with limit 600, got allowed=%v limit=%d", allowed, info.Limit)
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET"); !allowed {
			t.Fatalf("Expected health check %d to be allowed", i+1)
		}
	}
	if limiter.Buckets() != 0 {
		t.Errorf("Expected no buckets for unlimited endpoint, got %d", limiter.Buckets())
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/survey", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("Expected 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    10,
		DefaultWindow:   time.Minute,
		CleanupInterval: 10 * time.Millisecond,
	})
	limiter.Stop()
	limiter.Stop()
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/survey", "GET")
	if !allowed {
		t.Error("Expected request to be allowed with default config")
	}
	if info.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", info.Limit)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path     string
		method   string
		wantPath string // "" means no match
	}{
		{"/sessions", "POST", "/sessions"},
		{"/sessions/abc/submit", "POST", "/sessions/*/submit"},
		{"/sessions/abc/fields/venueSetup", "PUT", "/sessions/*/fields/*"},
		{"/sessions/abc/advance", "POST", "/sessions/*/advance"},
		{"/sessions/abc", "DELETE", "/sessions/"},
		{"/sessions//submit", "POST", ""},
		{"/sessions/abc/submit/extra", "POST", ""},
		{"/sessions/abc", "GET", ""},
		{"/responses", "GET", "/responses"},
		{"/responses/abc", "GET", "/responses/*"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantPath == "" {
				if got != nil {
					t.Errorf("Expected no match, got %q", got.Path)
				}
				return
			}
			if got == nil {
				t.Fatalf("Expected match %q, got nil", tt.wantPath)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Expected %q, got %q", tt.wantPath, got.Path)
			}
		})
	}

	health := MatchEndpoint("/health", "GET", configs)
	if health == nil || health.Limit != 0 {
		t.Error("Expected health to match as unlimited")
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg := LoadConfig()
	if cfg.DefaultLimit != 42 {
		t.Errorf("Expected default limit 42, got %d", cfg.DefaultLimit)
	}
	if !cfg.Whitelist["10.0.0.2"] {
		t.Error("Expected whitelist to contain 10.0.0.2")
	}

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	if LoadConfig().Enabled {
		t.Error("Expected limiter to be disabled")
	}
}
