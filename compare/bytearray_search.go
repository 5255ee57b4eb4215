package compare

import (
	"blainsmith.com/go/seahash"
)

// FindByteArrayMatches implements the ByteArrayBoyerMoore plan
// variant: when a byte-array pattern can't be
// remapped to a same-size primitive, the dispatcher scans for literal
// occurrences of pattern in haystack using Boyer-Moore-Horspool,
// returning every starting offset. Each window the search visits is
// hashed with seahash, and only a window whose hash equals the
// pattern's hash is then compared byte by byte.
func FindByteArrayMatches(haystack, pattern []byte) []int {
	m := len(pattern)
	n := len(haystack)
	if m == 0 || n < m {
		return nil
	}

	var badChar [256]int
	for i := range badChar {
		badChar[i] = m
	}
	for i := 0; i < m-1; i++ {
		badChar[pattern[i]] = m - 1 - i
	}

	patternHash := seahash.Sum64(pattern)

	var matches []int
	i := 0
	for i <= n-m {
		window := haystack[i : i+m]
		if seahash.Sum64(window) == patternHash && equalBytes(window, pattern) {
			matches = append(matches, i)
			i++
			continue
		}
		i += badChar[haystack[i+m-1]]
	}
	return matches
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
