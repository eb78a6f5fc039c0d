// Package integration contains tests that verify the interaction between the
// chat handler, middleware stack, and health endpoints. These tests use
// httptest servers with real handler wiring but no external dependencies
// (Redis, Kafka, and PostgreSQL are left unwired).
//
// Run with:
//
//	go test -v ./test/integration/...
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/aerovia-labs/faq-service/internal/chat/handler"
	"github.com/aerovia-labs/faq-service/internal/faq"
	"github.com/aerovia-labs/faq-service/internal/resolver"
	"github.com/aerovia-labs/faq-service/pkg/health"
	"github.com/aerovia-labs/faq-service/pkg/middleware"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newChatServer(t *testing.T, rateLimit int) *httptest.Server {
	t.Helper()

	catalogue := faq.Drone()
	res := resolver.New(catalogue, resolver.Config{})
	chatHandler := handler.New(res, nil, nil, nil)

	checker := health.NewChecker("faq-service")
	checker.Extra["faq_count"] = catalogue.Len()
	checker.Register("catalogue", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{Status: health.StatusUp}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/chat", chatHandler.Chat)
	mux.HandleFunc("POST /api/v1/chat", chatHandler.Chat)
	mux.HandleFunc("GET /api/v1/catalogue", chatHandler.Catalogue)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var root http.Handler = mux
	if rateLimit > 0 {
		root = middleware.RateLimit(middleware.NewLimiter(rateLimit, time.Minute))(root)
	}
	root = middleware.RequestID(root)

	srv := httptest.NewServer(root)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, rawURL string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(rawURL)
	if err != nil {
		t.Fatalf("GET %s: %v", rawURL, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s: %v", rawURL, err)
		}
	}
	return resp
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestChatEndToEnd(t *testing.T) {
	srv := newChatServer(t, 0)

	var resp resolver.Response
	httpResp := getJSON(t,
		srv.URL+"/api/v1/chat?question="+url.QueryEscape("What is the flight time of this drone?"),
		&resp)
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", httpResp.StatusCode)
	}
	if !resp.Matched {
		t.Error("Matched = false, want true")
	}
	if httpResp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID response header")
	}
}

func TestChatRequestIDIsHonoured(t *testing.T) {
	srv := newChatServer(t, 0)

	req, err := http.NewRequest(http.MethodGet,
		srv.URL+"/api/v1/chat?question=gps", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-Request-ID", "test-request-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "test-request-42" {
		t.Errorf("X-Request-ID = %q, want echoed value", got)
	}
}

func TestChatRateLimit(t *testing.T) {
	srv := newChatServer(t, 3)

	var lastStatus int
	for i := 0; i < 5; i++ {
		resp, err := http.Get(srv.URL + "/api/v1/chat?question=gps")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		lastStatus = resp.StatusCode
	}
	if lastStatus != http.StatusTooManyRequests {
		t.Errorf("status after exhausting limit = %d, want 429", lastStatus)
	}

	// Health endpoints are exempt from the limiter.
	resp, err := http.Get(srv.URL + "/health/live")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200 despite exhausted limit", resp.StatusCode)
	}
}

func TestHealthLiveReportsCatalogueSize(t *testing.T) {
	srv := newChatServer(t, 0)

	var payload map[string]any
	resp := getJSON(t, srv.URL+"/health/live", &payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if payload["service"] != "faq-service" {
		t.Errorf("service = %v", payload["service"])
	}
	if count, ok := payload["faq_count"].(float64); !ok || count != 8 {
		t.Errorf("faq_count = %v, want 8", payload["faq_count"])
	}
}

func TestHealthReady(t *testing.T) {
	srv := newChatServer(t, 0)

	var report health.Report
	resp := getJSON(t, srv.URL+"/health/ready", &report)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if report.Status != health.StatusUp {
		t.Errorf("status = %q, want up", report.Status)
	}
	if _, ok := report.Components["catalogue"]; !ok {
		t.Error("catalogue component missing from readiness report")
	}
}

func TestCatalogueEndpoint(t *testing.T) {
	srv := newChatServer(t, 0)

	var payload struct {
		Count     int      `json:"count"`
		Questions []string `json:"questions"`
	}
	resp := getJSON(t, srv.URL+"/api/v1/catalogue", &payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if payload.Count != 8 {
		t.Errorf("count = %d, want 8", payload.Count)
	}
}
