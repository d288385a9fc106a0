package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidIterations = errors.New("iteration count must be a positive integer")
	ErrPatternTooShort   = errors.New("pattern too short")
	ErrPatternTooLong    = errors.New("pattern too long")
)

// ParseIterations parses a user supplied iteration count.
// max <= 0 disables the upper bound.
func ParseIterations(s string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIterations, s)
	}
	if max > 0 && n > max {
		return 0, fmt.Errorf("%w: %d exceeds limit %d", ErrInvalidIterations, n, max)
	}
	return n, nil
}

// ValidatePattern checks the pattern length against configured bounds.
// Bounds <= 0 are not enforced; an empty pattern passes when minLen is 0.
func ValidatePattern(pattern string, minLen, maxLen int) error {
	if minLen > 0 && len(pattern) < minLen {
		return fmt.Errorf("%w: %d < %d", ErrPatternTooShort, len(pattern), minLen)
	}
	if maxLen > 0 && len(pattern) > maxLen {
		return fmt.Errorf("%w: %d > %d", ErrPatternTooLong, len(pattern), maxLen)
	}
	return nil
}

// IsQuitCommand reports whether an interactive line asks to leave.
func IsQuitCommand(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "quit", "exit", ":q":
		return true
	}
	return false
}
