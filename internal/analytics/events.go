// Package analytics collects, aggregates, and serves statistics about chat
// traffic: questions asked, answered-vs-fallback outcomes, confidence, cache
// behaviour, and latency. Events flow from the chat handler through a
// buffered collector into Kafka, and from Kafka into an in-memory aggregator.
package analytics

import "time"

type EventType string

const (
	EventAnswered  EventType = "answered"
	EventFallback  EventType = "fallback"
	EventCacheHit  EventType = "cache_hit"
	EventCacheMiss EventType = "cache_miss"
)

// ChatEvent describes one resolved question.
type ChatEvent struct {
	Type            EventType `json:"type"`
	Question        string    `json:"question"`
	Matched         bool      `json:"matched"`
	MatchedQuestion string    `json:"matched_question,omitempty"`
	Confidence      float64   `json:"confidence"`
	CacheHit        bool      `json:"cache_hit"`
	LatencyMs       int64     `json:"latency_ms"`
	Timestamp       time.Time `json:"timestamp"`
	RequestID       string    `json:"request_id,omitempty"`
}
