package match

import (
	"math"
	"testing"

	"github.com/aerovia-labs/faq-service/internal/faq"
)

func TestHybridScoreFormula(t *testing.T) {
	entry := faq.Entry{
		Question: "What is the flight time of this drone?",
		Answer:   "About 30 minutes.",
		Keywords: []string{"flight", "time", "battery", "minutes", "duration"},
	}
	h := NewHybrid(0.7, 0.3)

	query := "battery duration"
	sim := Similarity(query, entry.Question)
	kw := KeywordOverlap(query, entry.Keywords)
	want := 0.7*sim + 0.3*kw

	if got := h.Score(query, entry); math.Abs(got-want) > 1e-9 {
		t.Errorf("Score(%q) = %v, want %v", query, got, want)
	}
}

func TestHybridDefaultWeights(t *testing.T) {
	h := NewHybrid(0, 0)
	if h.SimilarityWeight != DefaultSimilarityWeight {
		t.Errorf("SimilarityWeight = %v, want %v", h.SimilarityWeight, DefaultSimilarityWeight)
	}
	if h.KeywordWeight != DefaultKeywordWeight {
		t.Errorf("KeywordWeight = %v, want %v", h.KeywordWeight, DefaultKeywordWeight)
	}

	h = NewHybrid(-1, -1)
	if h.SimilarityWeight != DefaultSimilarityWeight || h.KeywordWeight != DefaultKeywordWeight {
		t.Errorf("negative weights not replaced with defaults: %v, %v", h.SimilarityWeight, h.KeywordWeight)
	}
}

func TestHybridCustomWeights(t *testing.T) {
	// Weights are not required to sum to 1.
	h := NewHybrid(1.0, 1.0)
	entry := faq.Entry{
		Question: "Does this drone have GPS?",
		Answer:   "Yes.",
		Keywords: []string{"gps"},
	}
	query := "Does this drone have GPS?"
	want := 1.0*1.0 + 1.0*1.0
	if got := h.Score(query, entry); math.Abs(got-want) > ratioTolerance {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestHybridSwappableSubScorers(t *testing.T) {
	h := &Hybrid{
		Similarity:       func(a, b string) float64 { return 0.5 },
		Keyword:          func(q string, kws []string) float64 { return 1.0 },
		SimilarityWeight: 0.7,
		KeywordWeight:    0.3,
	}
	got := h.Score("anything", faq.Entry{Question: "q", Answer: "a"})
	want := 0.7*0.5 + 0.3*1.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score with stub sub-scorers = %v, want %v", got, want)
	}
}

func TestHybridKeywordMonotonicity(t *testing.T) {
	// Adding a keyword that the query contains never decreases the score.
	h := NewHybrid(0.7, 0.3)
	query := "how fast can it fly in sport mode"

	entry := faq.Entry{
		Question: "What is the maximum speed?",
		Answer:   "Up to 60 km/h.",
		Keywords: []string{"maximum", "speed"},
	}
	before := h.Score(query, entry)

	entry.Keywords = append(entry.Keywords, "sport")
	after := h.Score(query, entry)

	if after < before {
		t.Errorf("score decreased after adding matching keyword: before=%v after=%v", before, after)
	}
}

func TestHybridImplementsScorer(t *testing.T) {
	var _ Scorer = (*Hybrid)(nil)
}
