package search

// PrefixTable holds, for each pattern position i, the length of the longest
// proper prefix of pattern[0..i] that is also a suffix of it.
type PrefixTable []int

// BuildPrefixTable computes the KMP failure table for pattern and the number
// of comparisons it took. Each loop step counts once, fallbacks included.
// Patterns of length 0 or 1 cost nothing.
func BuildPrefixTable(pattern []byte) (PrefixTable, int) {
	m := len(pattern)
	table := make(PrefixTable, m)
	length := 0
	comparisons := 0

	for i := 1; i < m; {
		comparisons++
		if pattern[i] == pattern[length] {
			length++
			table[i] = length
			i++
		} else if length != 0 {
			// retry the same i against the next shorter border
			length = table[length-1]
		} else {
			table[i] = 0
			i++
		}
	}
	return table, comparisons
}
