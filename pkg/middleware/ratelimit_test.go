package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(3, time.Hour)
	for i := 0; i < 3; i++ {
		if !l.Allow("client-a") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if l.Allow("client-a") {
		t.Error("request over the limit was allowed")
	}
	// Other clients have their own bucket.
	if !l.Allow("client-b") {
		t.Error("fresh client denied")
	}
}

func TestLimiterRefills(t *testing.T) {
	l := NewLimiter(10, 100*time.Millisecond)
	for i := 0; i < 10; i++ {
		l.Allow("client")
	}
	if l.Allow("client") {
		t.Fatal("bucket not exhausted")
	}
	time.Sleep(150 * time.Millisecond)
	if !l.Allow("client") {
		t.Error("bucket did not refill after the window elapsed")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewLimiter(2, time.Hour)
	handler := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/chat", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first requests = %v, want 200s", statuses[:2])
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", statuses[2])
	}

	// Health endpoints bypass the limiter entirely.
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health request = %d, want 200", rec.Code)
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:4321"
	if got := clientKey(req); got != "192.168.1.5" {
		t.Errorf("clientKey = %q, want host part of RemoteAddr", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientKey(req); got != "203.0.113.9" {
		t.Errorf("clientKey = %q, want first forwarded address", got)
	}
}
