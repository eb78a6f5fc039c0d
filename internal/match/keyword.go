package match

import "strings"

// KeywordOverlap returns the fraction of keywords that appear as substrings
// of the case-folded query, in [0,1]. Matching is substring containment, not
// token-boundary matching, so a keyword may match inside a longer word.
//
// An empty keyword set scores exactly 0.0.
func KeywordOverlap(query string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0.0
	}
	lowered := strings.ToLower(query)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}
