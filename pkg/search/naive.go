package search

// Naive tries every start offset from 0 to n-m and compares the pattern from
// its first byte, abandoning the offset at the first mismatch.
// Every byte check counts, including the failing one.
// An empty pattern matches at offset 0 with no comparisons.
func Naive(text, pattern []byte) MatchResult {
	n, m := len(text), len(pattern)
	comparisons := 0

	for i := 0; i <= n-m; i++ {
		j := 0
		for ; j < m; j++ {
			comparisons++
			if text[i+j] != pattern[j] {
				break
			}
		}
		if j == m {
			return MatchResult{Position: i, Comparisons: comparisons}
		}
	}
	return MatchResult{Position: NotFound, Comparisons: comparisons}
}
