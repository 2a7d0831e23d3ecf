package search

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Stopper decides whether a lowercased token should be dropped before
// stemming. A nil Stopper keeps every token.
type Stopper interface {
	IsStopword(token string) bool
}

// SetStopper is a Stopper backed by a finite set of lowercase words.
type SetStopper struct {
	words map[string]struct{}
}

// NewSetStopper builds a stopper from the given words.
func NewSetStopper(words ...string) *SetStopper {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return &SetStopper{words: m}
}

// IsStopword reports whether token is in the stop set.
func (s *SetStopper) IsStopword(token string) bool {
	_, ok := s.words[token]
	return ok
}

// Len returns the number of words in the stop set.
func (s *SetStopper) Len() int {
	return len(s.words)
}

// LoadStopperFile reads a stop-word file with one lowercase word per line.
// Leading and trailing whitespace is trimmed; blank lines are skipped.
func LoadStopperFile(path string) (*SetStopper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("search: open stopword file: %w", err)
	}
	defer f.Close()

	words := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		words[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("search: read stopword file: %w", err)
	}
	return &SetStopper{words: words}, nil
}
