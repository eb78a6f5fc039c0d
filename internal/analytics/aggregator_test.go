package analytics

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"
)

func answeredEvent(question string, confidence float64, latencyMs int64) ChatEvent {
	return ChatEvent{
		Type:       EventAnswered,
		Question:   question,
		Matched:    true,
		Confidence: confidence,
		LatencyMs:  latencyMs,
		Timestamp:  time.Now().UTC(),
	}
}

func fallbackEvent(question string) ChatEvent {
	return ChatEvent{
		Type:      EventFallback,
		Question:  question,
		Matched:   false,
		LatencyMs: 1,
		Timestamp: time.Now().UTC(),
	}
}

func TestAggregatorRecord(t *testing.T) {
	agg := NewAggregator(nil)

	agg.Record(answeredEvent("flight time", 0.8, 10))
	agg.Record(answeredEvent("flight time", 0.8, 20))
	agg.Record(answeredEvent("gps", 0.6, 30))
	agg.Record(fallbackEvent("weather"))

	stats := agg.Stats()
	if stats.TotalQuestions != 4 {
		t.Errorf("TotalQuestions = %d, want 4", stats.TotalQuestions)
	}
	if stats.Answered != 3 {
		t.Errorf("Answered = %d, want 3", stats.Answered)
	}
	if stats.Fallbacks != 1 {
		t.Errorf("Fallbacks = %d, want 1", stats.Fallbacks)
	}
	wantAvg := (0.8 + 0.8 + 0.6 + 0.0) / 4.0
	if math.Abs(stats.AvgConfidence-wantAvg) > 1e-9 {
		t.Errorf("AvgConfidence = %v, want %v", stats.AvgConfidence, wantAvg)
	}
}

func TestAggregatorTopQuestions(t *testing.T) {
	agg := NewAggregator(nil)
	for i := 0; i < 5; i++ {
		agg.Record(answeredEvent("flight time", 0.8, 5))
	}
	for i := 0; i < 3; i++ {
		agg.Record(answeredEvent("gps", 0.7, 5))
	}
	agg.Record(answeredEvent("camera", 0.6, 5))

	stats := agg.Stats()
	if len(stats.TopQuestions) != 3 {
		t.Fatalf("TopQuestions = %d entries, want 3", len(stats.TopQuestions))
	}
	if stats.TopQuestions[0].Question != "flight time" || stats.TopQuestions[0].Count != 5 {
		t.Errorf("TopQuestions[0] = %+v", stats.TopQuestions[0])
	}
	if stats.TopQuestions[1].Question != "gps" {
		t.Errorf("TopQuestions[1] = %+v", stats.TopQuestions[1])
	}
}

func TestAggregatorFallbackQuestions(t *testing.T) {
	agg := NewAggregator(nil)
	agg.Record(answeredEvent("flight time", 0.9, 5))
	agg.Record(fallbackEvent("weather"))
	agg.Record(fallbackEvent("weather"))
	agg.Record(fallbackEvent("stock price"))

	stats := agg.Stats()
	if len(stats.FallbackQuestions) != 2 {
		t.Fatalf("FallbackQuestions = %d entries, want 2", len(stats.FallbackQuestions))
	}
	if stats.FallbackQuestions[0].Question != "weather" || stats.FallbackQuestions[0].Count != 2 {
		t.Errorf("FallbackQuestions[0] = %+v", stats.FallbackQuestions[0])
	}
	for _, qc := range stats.FallbackQuestions {
		if qc.Question == "flight time" {
			t.Error("answered question leaked into fallback list")
		}
	}
}

func TestAggregatorLatencyPercentiles(t *testing.T) {
	agg := NewAggregator(nil)
	for i := int64(1); i <= 100; i++ {
		agg.Record(answeredEvent("q", 0.5, i))
	}

	stats := agg.Stats()
	if stats.P50LatencyMs < 45 || stats.P50LatencyMs > 55 {
		t.Errorf("P50 = %d, want around 50", stats.P50LatencyMs)
	}
	if stats.P95LatencyMs < 90 || stats.P95LatencyMs > 100 {
		t.Errorf("P95 = %d, want around 95", stats.P95LatencyMs)
	}
	if stats.P99LatencyMs < 95 || stats.P99LatencyMs > 100 {
		t.Errorf("P99 = %d, want around 99", stats.P99LatencyMs)
	}
	if math.Abs(stats.AvgLatencyMs-50.5) > 1e-9 {
		t.Errorf("AvgLatencyMs = %v, want 50.5", stats.AvgLatencyMs)
	}
}

func TestAggregatorCacheCounters(t *testing.T) {
	agg := NewAggregator(nil)
	hit := answeredEvent("q", 0.8, 1)
	hit.CacheHit = true
	agg.Record(hit)
	agg.Record(answeredEvent("q", 0.8, 5))
	agg.Record(answeredEvent("q", 0.8, 5))

	stats := agg.Stats()
	if stats.CacheHits != 1 {
		t.Errorf("CacheHits = %d, want 1", stats.CacheHits)
	}
	if stats.CacheMisses != 2 {
		t.Errorf("CacheMisses = %d, want 2", stats.CacheMisses)
	}
}

func TestAggregatorConcurrentRecord(t *testing.T) {
	agg := NewAggregator(nil)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				agg.Record(answeredEvent("q", 0.5, 10))
			}
		}()
	}
	wg.Wait()

	stats := agg.Stats()
	if stats.TotalQuestions != 800 {
		t.Errorf("TotalQuestions = %d, want 800", stats.TotalQuestions)
	}
}

func TestHandleEventDecodesChatEvents(t *testing.T) {
	agg := NewAggregator(nil)
	handler := HandleEvent(agg)

	event := answeredEvent("flight time", 0.82, 12)
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := handler(context.Background(), []byte("key"), value); err != nil {
		t.Fatalf("handler: %v", err)
	}

	// Garbage payloads are skipped, not fatal.
	if err := handler(context.Background(), []byte("key"), []byte("not json")); err != nil {
		t.Fatalf("handler on garbage payload: %v", err)
	}

	stats := agg.Stats()
	if stats.TotalQuestions != 1 {
		t.Errorf("TotalQuestions = %d, want 1", stats.TotalQuestions)
	}
}

func TestAggregatorStartWithoutConsumer(t *testing.T) {
	agg := NewAggregator(nil)
	if err := agg.Start(context.Background()); err != nil {
		t.Errorf("Start without consumer = %v, want nil", err)
	}
}
