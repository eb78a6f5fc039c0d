package faq

import (
	"fmt"
	"strings"
)

// Entry is a single question/answer record in the catalogue. Keywords are
// stored lowercased; the keyword scorer matches them as substrings of the
// lowercased query, so short phrases ("km/h") work as well as single tokens.
type Entry struct {
	Question string   `json:"question" yaml:"question"`
	Answer   string   `json:"answer" yaml:"answer"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// normalize lowercases and trims the entry's keywords and validates the
// required fields. Entries are validated once at catalogue construction and
// never mutated afterwards.
func (e *Entry) normalize(index int) error {
	if strings.TrimSpace(e.Question) == "" {
		return fmt.Errorf("entry %d: question must not be empty", index)
	}
	if strings.TrimSpace(e.Answer) == "" {
		return fmt.Errorf("entry %d: answer must not be empty", index)
	}
	keywords := make([]string, 0, len(e.Keywords))
	for _, kw := range e.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
	}
	e.Keywords = keywords
	return nil
}
