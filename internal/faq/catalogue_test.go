package faq

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCatalogue(t *testing.T) {
	entries := []Entry{
		{Question: "Q1?", Answer: "A1", Keywords: []string{" Flight ", "TIME", ""}},
		{Question: "Q2?", Answer: "A2"},
	}
	c, err := NewCatalogue(entries)
	if err != nil {
		t.Fatalf("NewCatalogue: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	got := c.At(0).Keywords
	want := []string{"flight", "time"}
	if len(got) != len(want) {
		t.Fatalf("keywords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyword[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// The input slice must not be aliased by the catalogue.
	entries[1].Answer = "mutated"
	if c.At(1).Answer != "A2" {
		t.Error("catalogue aliases the caller's slice")
	}
}

func TestNewCatalogueValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"empty question", []Entry{{Question: "", Answer: "A"}}},
		{"whitespace question", []Entry{{Question: "   ", Answer: "A"}}},
		{"empty answer", []Entry{{Question: "Q?", Answer: ""}}},
		{"second entry invalid", []Entry{{Question: "Q?", Answer: "A"}, {Question: "Q2?", Answer: " "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCatalogue(tt.entries); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestDroneCatalogue(t *testing.T) {
	c := Drone()
	if c.Len() != 8 {
		t.Fatalf("Len = %d, want 8", c.Len())
	}
	questions := c.Questions()
	if questions[0] != "What is the flight time of this drone?" {
		t.Errorf("first question = %q", questions[0])
	}
	for i := 0; i < c.Len(); i++ {
		e := c.At(i)
		if e.Question == "" || e.Answer == "" {
			t.Errorf("entry %d has empty fields: %+v", i, e)
		}
		if len(e.Keywords) == 0 {
			t.Errorf("entry %d has no keywords", i)
		}
		for _, kw := range e.Keywords {
			if kw != strings.ToLower(strings.TrimSpace(kw)) {
				t.Errorf("entry %d keyword %q is not normalised", i, kw)
			}
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogue.yaml")
	content := `entries:
  - question: "What is the flight time of this drone?"
    answer: "About 30 minutes."
    keywords: [Flight, Time, battery]
  - question: "Does this drone have GPS?"
    answer: "Yes."
    keywords: [gps]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if kw := c.At(0).Keywords[0]; kw != "flight" {
		t.Errorf("keyword not lowercased: %q", kw)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile("does-not-exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("entries: {not: a list"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	content := "entries:\n  - question: \"\"\n    answer: \"A\"\n"
	if err := os.WriteFile(invalid, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadFile(invalid); err == nil {
		t.Error("expected validation error for empty question")
	}
}
