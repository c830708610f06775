package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimit(t *testing.T) {
	h := RateLimit(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/user/token", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if got := do("10.0.0.1:1234"); got != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, got, http.StatusOK)
		}
	}
	if got := do("10.0.0.1:5678"); got != http.StatusTooManyRequests {
		t.Errorf("over burst: status = %d, want %d", got, http.StatusTooManyRequests)
	}
	if got := do("10.0.0.2:1234"); got != http.StatusOK {
		t.Errorf("other client: status = %d, want %d", got, http.StatusOK)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(0, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, rec.Code, http.StatusOK)
		}
	}
}

func TestIPRateLimiterSweepsIdleVisitors(t *testing.T) {
	rl := newIPRateLimiter(1, 1)
	start := time.Now()

	rl.allow("10.0.0.1", start)
	rl.allow("10.0.0.2", start.Add(visitorIdle))

	rl.allow("10.0.0.3", start.Add(2*visitorIdle+time.Second))

	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Error("idle visitor was not swept")
	}
	if len(rl.visitors) != 1 {
		t.Errorf("visitors = %d, want 1", len(rl.visitors))
	}
}
