// Package match implements the FAQ matching engine: a lexical similarity
// scorer, a keyword overlap scorer, a weighted hybrid combining the two, and
// the best-match selection over a catalogue. All scoring is pure and operates
// on immutable inputs, so every function here is safe for concurrent use.
package match

import "strings"

// Similarity returns the gestalt pattern-matching ratio between two strings
// after case-folding, in [0,1]. The ratio is 2*M / (len(a)+len(b)) where M is
// the total length of matched characters found by recursively locating the
// longest common contiguous substring and recursing on the unmatched left and
// right remainders (Ratcliff/Obershelp).
//
// Identical strings score 1.0, fully disjoint strings 0.0. Two empty strings
// are considered identical.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchedLength(ra, rb)) / float64(total)
}

// matchedLength sums the lengths of all matching blocks between a and b.
func matchedLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return matchedLength(a[:ai], b[:bi]) +
		size +
		matchedLength(a[ai+size:], b[bi+size:])
}

// longestCommonBlock finds the longest common contiguous substring of a and
// b, preferring the earliest occurrence in a and then in b on equal length.
// Single-row dynamic programming: j2len[j] holds the length of the common
// run ending at a[i-1], b[j].
func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	j2len := make(map[int]int, len(b))
	for i := range a {
		next := make(map[int]int, len(b))
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > size {
				ai, bi, size = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return ai, bi, size
}
