// Package search is the core, providing the naive and Knuth-Morris-Pratt
// substring scanners together with the comparison counting each one reports.
//
// Both scanners work on raw bytes: two characters are equal when their bytes
// are equal. Every search returns a MatchResult holding the offset of the first
// occurrence (or NotFound) and the number of comparisons made, counted by the
// scanner's own convention. The counts are not meant to be compared as
// "character equality tests" across algorithms, only as each algorithm's
// loop-counted work.
package search

import (
	"errors"
	"fmt"
	"strings"
)

// NotFound is the Position reported when the pattern does not occur in the text.
const NotFound = -1

// ErrUnknownAlgorithm is returned by Lookup for names it does not know.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithm names accepted by Lookup.
const (
	AlgoNaive     = "naive"
	AlgoKMP       = "kmp"
	AlgoKMPCached = "kmp-cached"
)

// State is the terminal state a scan ended in.
type State int

const (
	Scanning State = iota
	Matched
	Exhausted
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Matched:
		return "matched"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// MatchResult is what a single search reports back to the caller.
type MatchResult struct {
	Position    int
	Comparisons int
}

// Found reports whether the pattern occurred in the text.
func (r MatchResult) Found() bool {
	return r.Position != NotFound
}

// State returns Matched or Exhausted. A returned result is never Scanning.
func (r MatchResult) State() State {
	if r.Found() {
		return Matched
	}
	return Exhausted
}

// Matcher defines the interface for substring search engines
type Matcher interface {
	// Name identifies the algorithm in reports and IPC responses
	Name() string

	// Search returns the first occurrence of pattern in text
	Search(text, pattern []byte) MatchResult
}

// NaiveMatcher wraps Naive.
type NaiveMatcher struct{}

func (NaiveMatcher) Name() string { return AlgoNaive }

func (NaiveMatcher) Search(text, pattern []byte) MatchResult {
	return Naive(text, pattern)
}

// KmpMatcher wraps KMP. The prefix table is rebuilt on every call.
type KmpMatcher struct{}

func (KmpMatcher) Name() string { return AlgoKMP }

func (KmpMatcher) Search(text, pattern []byte) MatchResult {
	return KMP(text, pattern)
}

// SearchString runs m over string inputs.
func SearchString(m Matcher, text, pattern string) MatchResult {
	return m.Search([]byte(text), []byte(pattern))
}

// Lookup resolves an algorithm name to a Matcher.
// kmp-cached gets a fresh cache sized by DefaultCacheSize.
func Lookup(name string) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case AlgoNaive, "brute-force", "bruteforce":
		return NaiveMatcher{}, nil
	case AlgoKMP, "knuth-morris-pratt":
		return KmpMatcher{}, nil
	case AlgoKMPCached:
		return NewCachedKmpMatcher(DefaultCacheSize), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// LookupAll resolves every name, failing on the first unknown one.
func LookupAll(names []string) ([]Matcher, error) {
	matchers := make([]Matcher, 0, len(names))
	for _, name := range names {
		m, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}
