package match

import "github.com/aerovia-labs/faq-service/internal/faq"

// Result is the outcome of scoring a query against a catalogue. Entry is nil
// when the catalogue is empty. Score is the best entry's combined score, or
// 0.0 when no entry exists.
type Result struct {
	Entry *faq.Entry
	Score float64
}

// FindBest scans the catalogue in order and returns the entry with the
// highest score. Comparison is strict greater-than, so ties keep the earliest
// entry. The scan is O(catalogue size * string length); the catalogue is
// small and static, so no index is kept.
func FindBest(query string, catalogue *faq.Catalogue, scorer Scorer) Result {
	best := Result{}
	for i := 0; i < catalogue.Len(); i++ {
		entry := catalogue.At(i)
		if score := scorer.Score(query, entry); score > best.Score {
			best.Entry = &entry
			best.Score = score
		}
	}
	return best
}
