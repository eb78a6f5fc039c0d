package match

import "github.com/aerovia-labs/faq-service/internal/faq"

// Default weights for the hybrid scorer. Lexical similarity dominates;
// keyword overlap pulls up terse queries that share vocabulary with an entry
// but not its phrasing.
const (
	DefaultSimilarityWeight = 0.7
	DefaultKeywordWeight    = 0.3
)

// Scorer scores a catalogue entry against a query. Implementations must be
// pure: same inputs, same score.
type Scorer interface {
	Score(query string, entry faq.Entry) float64
}

// SimilarityFunc scores the lexical similarity of two strings in [0,1].
type SimilarityFunc func(a, b string) float64

// KeywordFunc scores keyword overlap between a query and a keyword set
// in [0,1].
type KeywordFunc func(query string, keywords []string) float64

// Hybrid combines a similarity scorer and a keyword scorer with fixed
// weights:
//
//	score = SimilarityWeight*similarity(query, entry.Question) +
//	        KeywordWeight*keyword(query, entry.Keywords)
//
// Weights need not sum to 1; only the formula above is guaranteed. Either
// sub-scorer can be swapped out without touching the combination logic.
type Hybrid struct {
	Similarity       SimilarityFunc
	Keyword          KeywordFunc
	SimilarityWeight float64
	KeywordWeight    float64
}

// NewHybrid returns a Hybrid built from the package's default scorers and the
// given weights. Non-positive weights fall back to the defaults.
func NewHybrid(similarityWeight, keywordWeight float64) *Hybrid {
	if similarityWeight <= 0 {
		similarityWeight = DefaultSimilarityWeight
	}
	if keywordWeight <= 0 {
		keywordWeight = DefaultKeywordWeight
	}
	return &Hybrid{
		Similarity:       Similarity,
		Keyword:          KeywordOverlap,
		SimilarityWeight: similarityWeight,
		KeywordWeight:    keywordWeight,
	}
}

// Score implements Scorer.
func (h *Hybrid) Score(query string, entry faq.Entry) float64 {
	return h.SimilarityWeight*h.Similarity(query, entry.Question) +
		h.KeywordWeight*h.Keyword(query, entry.Keywords)
}
