package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllowsUpToMax(t *testing.T) {
	rl := NewRateLimiter(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		allowed, remaining, _ := rl.Allow("10.0.0.1")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if remaining != 5-(i+1) {
			t.Fatalf("request %d: remaining=%d, want %d", i+1, remaining, 5-(i+1))
		}
	}

	allowed, remaining, _ := rl.Allow("10.0.0.1")
	if allowed {
		t.Fatal("sixth request should be rejected")
	}
	if remaining != 0 {
		t.Fatalf("remaining=%d after limit, want 0", remaining)
	}
}

func TestRateLimiterTracksAddressesSeparately(t *testing.T) {
	rl := NewRateLimiter(1, 15*time.Minute)

	if allowed, _, _ := rl.Allow("10.0.0.1"); !allowed {
		t.Fatal("first address should be allowed")
	}
	if allowed, _, _ := rl.Allow("10.0.0.2"); !allowed {
		t.Fatal("second address should have its own bucket")
	}
	if allowed, _, _ := rl.Allow("10.0.0.1"); allowed {
		t.Fatal("first address should now be over its limit")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	b := &bucket{}
	now := time.Now()

	allowed, _, _ := b.take(1, time.Minute, now)
	if !allowed {
		t.Fatal("first take should be allowed")
	}
	allowed, _, _ = b.take(1, time.Minute, now)
	if allowed {
		t.Fatal("second take inside the window should be rejected")
	}

	allowed, remaining, _ := b.take(1, time.Minute, now.Add(2*time.Minute))
	if !allowed {
		t.Fatal("take after window expiry should be allowed again")
	}
	if remaining != 0 {
		t.Fatalf("remaining=%d after reset, want 0", remaining)
	}
}

func TestRateLimitHandlerResponds429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRateLimiter(1, 15*time.Minute).Handler()

	r := gin.New()
	r.POST("/login", handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "192.168.1.9:4000"
		r.ServeHTTP(w, req)
		return w
	}

	first := do()
	if first.Code != http.StatusOK {
		t.Fatalf("first request: status %d, want 200", first.Code)
	}
	if first.Header().Get("RateLimit-Limit") != "1" {
		t.Fatalf("missing RateLimit-Limit header: %q", first.Header().Get("RateLimit-Limit"))
	}

	second := do()
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", second.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(second.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body did not parse: %v", err)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
	if body["message"] != "Too many requests, please try again later." {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}
