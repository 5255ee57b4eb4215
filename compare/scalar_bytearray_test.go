package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squalr-core/scanengine/datatype"
)

func byteArrayDT() *datatype.DataType {
	reg := datatype.New(nil)
	return reg.Get(datatype.IDbyteArray)
}

func TestByteArrayScalarEqual(t *testing.T) {
	dt := byteArrayDT()
	fn, ok := byteArrayScalarCompareFn(dt, datatype.CompareEqual, datatype.ScalarParams{Immediate: []byte{0xDE, 0xAD, 0xBE, 0xEF}, Size: 4})
	require.True(t, ok)
	assert.True(t, fn(ptrTo([]byte{0xDE, 0xAD, 0xBE, 0xEF}), nil))
	assert.False(t, fn(ptrTo([]byte{0xDE, 0xAD, 0xBE, 0xFF}), nil))
}

func TestByteArrayScalarGreaterIsAllElements(t *testing.T) {
	dt := byteArrayDT()
	fn, ok := byteArrayScalarCompareFn(dt, datatype.CompareGreaterThan, datatype.ScalarParams{Immediate: []byte{1, 1, 1}, Size: 3})
	require.True(t, ok)
	// Every element strictly greater -> match.
	assert.True(t, fn(ptrTo([]byte{2, 2, 2}), nil))
	// One element not greater (lexicographically the array is still
	// "bigger" by standard ordering) -> no match under all-elements
	// semantics, demonstrating the non-lexicographic behavior.
	assert.False(t, fn(ptrTo([]byte{9, 0, 9}), nil))
}

func TestByteArrayScalarIncreasedByXWrapsPerByte(t *testing.T) {
	dt := byteArrayDT()
	fn, ok := byteArrayScalarCompareFn(dt, datatype.CompareIncreasedByX, datatype.ScalarParams{Delta: []byte{1, 1}, Size: 2})
	require.True(t, ok)
	prev := []byte{0xFF, 10}
	cur := []byte{0x00, 11} // first byte wraps 0xFF+1 -> 0x00
	assert.True(t, fn(ptrTo(cur), ptrTo(prev)))
}

func TestByteArrayScalarUnsupportedComparison(t *testing.T) {
	dt := byteArrayDT()
	_, ok := byteArrayScalarCompareFn(dt, datatype.CompareModuloByX, datatype.ScalarParams{Size: 4})
	assert.False(t, ok)
}
