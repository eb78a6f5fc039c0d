package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aerovia-labs/faq-service/pkg/kafka"
	"github.com/aerovia-labs/faq-service/pkg/logger"
)

// AggregatedStats is the dashboard view of chat traffic.
type AggregatedStats struct {
	TotalQuestions    int64        `json:"total_questions"`
	Answered          int64        `json:"answered"`
	Fallbacks         int64        `json:"fallbacks"`
	CacheHits         int64        `json:"cache_hits"`
	CacheMisses       int64        `json:"cache_misses"`
	AvgConfidence     float64      `json:"avg_confidence"`
	AvgLatencyMs      float64      `json:"avg_latency_ms"`
	P50LatencyMs      int64        `json:"p50_latency_ms"`
	P95LatencyMs      int64        `json:"p95_latency_ms"`
	P99LatencyMs      int64        `json:"p99_latency_ms"`
	TopQuestions      []QueryCount `json:"top_questions"`
	FallbackQuestions []QueryCount `json:"fallback_questions"`
	QuestionsPerMin   float64      `json:"questions_per_minute"`
}

type QueryCount struct {
	Question string `json:"question"`
	Count    int64  `json:"count"`
}

// Aggregator consumes chat events and maintains in-memory statistics.
// Fallback questions are tracked separately: they are the signal for which
// catalogue entries are missing.
type Aggregator struct {
	mu                sync.RWMutex
	totalQuestions    atomic.Int64
	answered          atomic.Int64
	fallbacks         atomic.Int64
	cacheHits         atomic.Int64
	cacheMisses       atomic.Int64
	latencies         []int64
	confidenceSum     float64
	questionCounts    map[string]int64
	fallbackQuestions map[string]int64
	startTime         time.Time

	consumer *kafka.Consumer
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator fed by the given consumer. The
// consumer's handler must be built with HandleEvent on this aggregator.
func NewAggregator(consumer *kafka.Consumer) *Aggregator {
	return &Aggregator{
		latencies:         make([]int64, 0, 10000),
		questionCounts:    make(map[string]int64),
		fallbackQuestions: make(map[string]int64),
		startTime:         time.Now(),
		consumer:          consumer,
		logger:            logger.WithComponent("analytics-aggregator"),
	}
}

// Start runs the underlying consumer until ctx is cancelled. An aggregator
// built without a consumer (direct Record feed) starts as a no-op.
func (a *Aggregator) Start(ctx context.Context) error {
	if a.consumer == nil {
		return nil
	}
	a.logger.Info("analytics aggregator starting")
	return a.consumer.Start(ctx)
}

// HandleEvent returns a Kafka message handler that records chat events into
// the aggregator. Undecodable events are logged and skipped.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[ChatEvent](value)
		if err != nil {
			agg.logger.Error("failed to decode chat event", "error", err)
			return nil
		}
		agg.Record(event)
		return nil
	}
}

// Record folds one event into the statistics. Exported so the single-process
// server can feed the aggregator directly when Kafka is unavailable.
func (a *Aggregator) Record(event ChatEvent) {
	a.totalQuestions.Add(1)
	if event.Matched {
		a.answered.Add(1)
	} else {
		a.fallbacks.Add(1)
	}
	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}

	a.mu.Lock()
	a.latencies = append(a.latencies, event.LatencyMs)
	a.confidenceSum += event.Confidence
	a.questionCounts[event.Question]++
	if !event.Matched {
		a.fallbackQuestions[event.Question]++
	}
	a.mu.Unlock()
}

// Stats returns a snapshot of the aggregated statistics.
func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalQuestions: a.totalQuestions.Load(),
		Answered:       a.answered.Load(),
		Fallbacks:      a.fallbacks.Load(),
		CacheHits:      a.cacheHits.Load(),
		CacheMisses:    a.cacheMisses.Load(),
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
		stats.AvgConfidence = a.confidenceSum / float64(len(sorted))
	}
	stats.TopQuestions = topN(a.questionCounts, 10)
	stats.FallbackQuestions = topN(a.fallbackQuestions, 10)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.QuestionsPerMin = float64(stats.TotalQuestions) / elapsed
	}
	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for question, count := range counts {
		result = append(result, QueryCount{Question: question, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Question < result[j].Question
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
