// Package resolver turns matching-engine results into user-facing answers by
// applying the confidence threshold policy. A Resolver holds no per-request
// state: every Ask call is independent and idempotent.
package resolver

import (
	"strings"

	"github.com/aerovia-labs/faq-service/internal/faq"
	"github.com/aerovia-labs/faq-service/internal/match"
	"github.com/aerovia-labs/faq-service/pkg/errors"
)

// ConfidenceThreshold is the minimum combined score for a match to be
// accepted. The comparison is inclusive: a score exactly at the threshold is
// a match.
const ConfidenceThreshold = 0.4

// DefaultFallbackMessage is returned when no catalogue entry clears the
// confidence threshold. The message is configuration, not logic; deployments
// override it via Config.
const DefaultFallbackMessage = "I'm not trained to answer this question yet. " +
	"Please contact our support helpline for more details."

// Response is the result of asking a single question.
type Response struct {
	Answer          string  `json:"answer"`
	Confidence      float64 `json:"confidence"`
	MatchedQuestion string  `json:"matched_question,omitempty"`
	Matched         bool    `json:"matched"`
}

// Config tunes a Resolver. Zero values select the package defaults.
type Config struct {
	// Threshold is the inclusive confidence cut-off. Zero means
	// ConfidenceThreshold.
	Threshold float64
	// FallbackMessage replaces DefaultFallbackMessage when non-empty.
	FallbackMessage string
	// Scorer replaces the default hybrid scorer when non-nil. Anything
	// implementing match.Scorer can serve, which is how an alternative
	// matching engine plugs in behind the same Ask contract.
	Scorer match.Scorer
}

// Resolver answers questions against a fixed catalogue.
type Resolver struct {
	catalogue *faq.Catalogue
	scorer    match.Scorer
	threshold float64
	fallback  string
}

// New creates a Resolver over the given catalogue.
func New(catalogue *faq.Catalogue, cfg Config) *Resolver {
	if cfg.Threshold == 0 {
		cfg.Threshold = ConfidenceThreshold
	}
	if cfg.FallbackMessage == "" {
		cfg.FallbackMessage = DefaultFallbackMessage
	}
	if cfg.Scorer == nil {
		cfg.Scorer = match.NewHybrid(match.DefaultSimilarityWeight, match.DefaultKeywordWeight)
	}
	return &Resolver{
		catalogue: catalogue,
		scorer:    cfg.Scorer,
		threshold: cfg.Threshold,
		fallback:  cfg.FallbackMessage,
	}
}

// Ask scores the question against every catalogue entry and returns either
// the best-matching answer or the fallback message.
//
// An empty or whitespace-only question returns errors.ErrEmptyQuery without
// invoking the matching engine; it must never be folded into a fallback
// answer. A confident miss (best score below the threshold) is not an error:
// it returns the fallback message with Matched=false and the rejected
// candidate's confidence.
func (r *Resolver) Ask(question string) (Response, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Response{}, errors.ErrEmptyQuery
	}

	result := match.FindBest(question, r.catalogue, r.scorer)
	if result.Entry != nil && result.Score >= r.threshold {
		return Response{
			Answer:          result.Entry.Answer,
			Confidence:      result.Score,
			MatchedQuestion: result.Entry.Question,
			Matched:         true,
		}, nil
	}
	return Response{
		Answer:     r.fallback,
		Confidence: result.Score,
		Matched:    false,
	}, nil
}

// Catalogue returns the catalogue the resolver answers from.
func (r *Resolver) Catalogue() *faq.Catalogue {
	return r.catalogue
}

// Threshold returns the configured confidence threshold.
func (r *Resolver) Threshold() float64 {
	return r.threshold
}
