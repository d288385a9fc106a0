package search

// KMP finds the first occurrence of pattern in text using the failure table
// from BuildPrefixTable, built once per call. The reported comparisons are the
// table build count plus one per scan loop step.
//
// The j == m test runs on every step right after the compare-and-advance,
// and the mismatch re-check that triggers a fallback is not counted.
// Reordering these changes the counts.
func KMP(text, pattern []byte) MatchResult {
	if len(pattern) == 0 {
		return MatchResult{Position: 0}
	}
	table, built := BuildPrefixTable(pattern)
	return kmpScan(text, pattern, table, built)
}

// kmpScan runs the KMP scan with a prebuilt table; comparisons starts at
// the count carried over from building it.
func kmpScan(text, pattern []byte, table PrefixTable, comparisons int) MatchResult {
	n, m := len(text), len(pattern)
	i, j := 0, 0

	for i < n {
		comparisons++
		if pattern[j] == text[i] {
			i++
			j++
		}

		if j == m {
			return MatchResult{Position: i - j, Comparisons: comparisons}
		} else if i < n && pattern[j] != text[i] {
			if j != 0 {
				j = table[j-1]
			} else {
				i++
			}
		}
	}
	return MatchResult{Position: NotFound, Comparisons: comparisons}
}
