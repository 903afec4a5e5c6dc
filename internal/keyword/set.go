package keyword

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases a keyword and trims surrounding whitespace.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Set is a deduplicated collection of normalized keywords.
// Words are kept sorted so matching order is deterministic.
type Set struct {
	words    []string
	hasEmpty bool
}

// NewSet creates a set from words, normalizing each one.
func NewSet(words ...string) *Set {
	s := &Set{words: make([]string, 0, len(words))}
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add normalizes w and inserts it if absent.
// An empty keyword is remembered but never matches.
func (s *Set) Add(w string) {
	w = Normalize(w)
	if w == "" {
		s.hasEmpty = true
		return
	}
	i, found := slices.BinarySearch(s.words, w)
	if found {
		return
	}
	s.words = slices.Insert(s.words, i, w)
}

// Contains reports whether the normalized form of w is in the set.
func (s *Set) Contains(w string) bool {
	w = Normalize(w)
	if w == "" {
		return s.hasEmpty
	}
	_, found := slices.BinarySearch(s.words, w)
	return found
}

// Len returns the number of non-empty keywords.
func (s *Set) Len() int {
	return len(s.words)
}

// HasEmpty reports whether an empty keyword was added, e.g. from a blank cell.
func (s *Set) HasEmpty() bool {
	return s.hasEmpty
}

// Words returns the keywords in sorted order.
func (s *Set) Words() []string {
	return slices.Clone(s.words)
}

// Matches returns, in sorted order, every keyword that occurs in text.
// The text is normalized the same way as the keywords.
func (s *Set) Matches(text string) []string {
	text = Normalize(text)
	matched := make([]string, 0)
	if text == "" {
		return matched
	}
	for _, w := range s.words {
		if strings.Contains(text, w) {
			matched = append(matched, w)
		}
	}
	return matched
}
