// Package faq defines the FAQ catalogue: an ordered, read-only collection of
// question/answer/keyword records. A Catalogue is built once at startup,
// either from the compiled-in defaults or from a YAML file, and is safe for
// concurrent reads because it is never mutated after construction.
package faq

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalogue is an ordered sequence of entries. Order is significant only for
// tie-breaking: the matching engine keeps the first entry with the maximum
// score.
type Catalogue struct {
	entries []Entry
}

// NewCatalogue validates and normalises the given entries and returns a
// read-only catalogue. The input slice is copied, so callers may reuse it.
func NewCatalogue(entries []Entry) (*Catalogue, error) {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	for i := range copied {
		if err := copied[i].normalize(i); err != nil {
			return nil, fmt.Errorf("invalid catalogue: %w", err)
		}
	}
	return &Catalogue{entries: copied}, nil
}

// LoadFile reads a catalogue from a YAML file containing a list of entries.
func LoadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalogue file %s: %w", path, err)
	}
	var doc struct {
		Entries []Entry `yaml:"entries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalogue file %s: %w", path, err)
	}
	return NewCatalogue(doc.Entries)
}

// Len returns the number of entries.
func (c *Catalogue) Len() int {
	return len(c.entries)
}

// At returns the entry at position i.
func (c *Catalogue) At(i int) Entry {
	return c.entries[i]
}

// Questions returns the canonical question text of every entry, in order.
func (c *Catalogue) Questions() []string {
	questions := make([]string, len(c.entries))
	for i, e := range c.entries {
		questions[i] = e.Question
	}
	return questions
}
