package match

import (
	"math"
	"testing"
)

func TestKeywordOverlap(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		keywords []string
		want     float64
	}{
		{
			name:     "all keywords present",
			query:    "how long does the battery last in minutes",
			keywords: []string{"battery", "minutes"},
			want:     1.0,
		},
		{
			name:     "partial overlap",
			query:    "battery duration",
			keywords: []string{"flight", "time", "battery", "minutes", "duration"},
			want:     0.4,
		},
		{
			name:     "single of four",
			query:    "GPS",
			keywords: []string{"gps", "glonass", "positioning", "navigation"},
			want:     0.25,
		},
		{
			name:     "no overlap",
			query:    "what is the weather like",
			keywords: []string{"payload", "capacity", "grams"},
			want:     0.0,
		},
		{
			name:     "empty keyword set",
			query:    "anything at all",
			keywords: nil,
			want:     0.0,
		},
		{
			name:     "empty keyword slice",
			query:    "anything at all",
			keywords: []string{},
			want:     0.0,
		},
		{
			name:     "substring match inside a word",
			query:    "downtime report",
			keywords: []string{"time"},
			want:     1.0,
		},
		{
			name:     "case insensitive",
			query:    "DOES IT HAVE A CAMERA",
			keywords: []string{"camera"},
			want:     1.0,
		},
		{
			name:     "phrase keyword",
			query:    "top speed in km/h please",
			keywords: []string{"km/h", "sport"},
			want:     0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeywordOverlap(tt.query, tt.keywords)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("KeywordOverlap(%q, %v) = %v, want %v", tt.query, tt.keywords, got, tt.want)
			}
		})
	}
}

func TestKeywordOverlapBounds(t *testing.T) {
	queries := []string{"", "gps", "a long query about flight time and battery and cameras"}
	sets := [][]string{
		{"gps"},
		{"flight", "time", "battery"},
		{"x", "y", "z", "flight", "camera", "gps"},
	}
	for _, q := range queries {
		for _, kws := range sets {
			got := KeywordOverlap(q, kws)
			if got < 0.0 || got > 1.0 {
				t.Errorf("KeywordOverlap(%q, %v) = %v, out of [0,1]", q, kws, got)
			}
		}
	}
}
