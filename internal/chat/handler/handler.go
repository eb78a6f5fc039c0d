// Package handler implements the HTTP surface of the chat service: the
// /api/v1/chat endpoint, catalogue listing, and cache management. It is a
// thin shell over the resolver; all matching logic lives in internal/match
// and internal/resolver.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aerovia-labs/faq-service/internal/analytics"
	"github.com/aerovia-labs/faq-service/internal/chat/cache"
	"github.com/aerovia-labs/faq-service/internal/resolver"
	apperrors "github.com/aerovia-labs/faq-service/pkg/errors"
	"github.com/aerovia-labs/faq-service/pkg/logger"
	"github.com/aerovia-labs/faq-service/pkg/metrics"
	"github.com/aerovia-labs/faq-service/pkg/middleware"
)

// Asker resolves one question. *resolver.Resolver satisfies it; tests and
// alternative engines can substitute their own.
type Asker interface {
	Ask(question string) (resolver.Response, error)
}

// Tracker receives one analytics event per resolved question.
type Tracker interface {
	Track(event analytics.ChatEvent)
}

type Handler struct {
	resolver  *resolver.Resolver
	cache     *cache.AnswerCache
	collector Tracker
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New wires the chat handler. cache, collector, and m may each be nil; the
// handler then runs uncached, untracked, or unmetered respectively.
func New(res *resolver.Resolver, answerCache *cache.AnswerCache, collector Tracker, m *metrics.Metrics) *Handler {
	return &Handler{
		resolver:  res,
		cache:     answerCache,
		collector: collector,
		metrics:   m,
		logger:    logger.WithComponent("chat-handler"),
	}
}

type chatRequest struct {
	Question  string `json:"question"`
	UserInput string `json:"user_input"`
}

// Chat answers a single question. GET reads the question from the `question`
// or `user_input` query parameter; POST additionally accepts a JSON body
// with the same field names.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	question, err := extractQuestion(r)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), "invalid request body")
		return
	}
	question = strings.TrimSpace(question)
	if question == "" {
		h.countOutcome("invalid")
		h.writeError(w, http.StatusBadRequest, "please provide a question")
		return
	}

	var resp resolver.Response
	cacheHit := false
	if h.cache != nil {
		resp, cacheHit, err = h.cache.GetOrCompute(ctx, question, func() (resolver.Response, error) {
			return h.resolver.Ask(question)
		})
	} else {
		resp, err = h.resolver.Ask(question)
	}
	if err != nil {
		// The resolver only fails on empty input, which was screened above,
		// so anything here is unexpected.
		if errors.Is(err, apperrors.ErrEmptyQuery) {
			h.countOutcome("invalid")
			h.writeError(w, http.StatusBadRequest, "please provide a question")
			return
		}
		log.Error("resolve failed", "question", question, "error", err)
		h.writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	latency := time.Since(start)
	log.Info("question resolved",
		"question", question,
		"matched", resp.Matched,
		"confidence", fmt.Sprintf("%.3f", resp.Confidence),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)

	h.observe(resp, cacheHit, latency)
	if h.collector != nil {
		eventType := analytics.EventAnswered
		if !resp.Matched {
			eventType = analytics.EventFallback
		}
		h.collector.Track(analytics.ChatEvent{
			Type:            eventType,
			Question:        question,
			Matched:         resp.Matched,
			MatchedQuestion: resp.MatchedQuestion,
			Confidence:      resp.Confidence,
			CacheHit:        cacheHit,
			LatencyMs:       latency.Milliseconds(),
			Timestamp:       time.Now().UTC(),
			RequestID:       middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// Catalogue lists the canonical questions the service can answer.
func (h *Handler) Catalogue(w http.ResponseWriter, r *http.Request) {
	questions := h.resolver.Catalogue().Questions()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(questions),
		"questions": questions,
	})
}

// CacheStats reports answer-cache hit/miss counters.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate drops every cached answer.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

// extractQuestion pulls the question from query parameters or, for POST, a
// JSON body. A malformed body is a collaborator failure surfaced as 400; it
// must not crash the process or leak as a fallback answer.
func extractQuestion(r *http.Request) (string, error) {
	if q := r.URL.Query().Get("question"); q != "" {
		return q, nil
	}
	if q := r.URL.Query().Get("user_input"); q != "" {
		return q, nil
	}
	if r.Method != http.MethodPost || r.Body == nil || r.ContentLength == 0 {
		return "", nil
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "malformed request body: %v", err)
	}
	if req.Question != "" {
		return req.Question, nil
	}
	return req.UserInput, nil
}

func (h *Handler) observe(resp resolver.Response, cacheHit bool, latency time.Duration) {
	if h.metrics == nil {
		return
	}
	outcome := "answered"
	if !resp.Matched {
		outcome = "fallback"
	}
	h.metrics.QuestionsTotal.WithLabelValues(outcome).Inc()
	h.metrics.MatchConfidence.Observe(resp.Confidence)
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.ChatLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
}

func (h *Handler) countOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.QuestionsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
