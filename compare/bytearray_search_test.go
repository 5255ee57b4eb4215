package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindByteArrayMatches(t *testing.T) {
	// S6: region contains DE AD BE EF 00 DE AD BE EF, pattern DE AD BE EF.
	haystack := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0xDE, 0xAD, 0xBE, 0xEF}
	pattern := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	matches := FindByteArrayMatches(haystack, pattern)
	assert.Equal(t, []int{0, 5}, matches)
}

func TestFindByteArrayMatchesNone(t *testing.T) {
	haystack := []byte{1, 2, 3, 4, 5}
	pattern := []byte{9, 9}
	assert.Nil(t, FindByteArrayMatches(haystack, pattern))
}

func TestFindByteArrayMatchesOverlapping(t *testing.T) {
	haystack := []byte{1, 1, 1, 1}
	pattern := []byte{1, 1}
	matches := FindByteArrayMatches(haystack, pattern)
	assert.Equal(t, []int{0, 1, 2}, matches)
}
