package compare

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squalr-core/scanengine/datatype"
)

func ptrTo(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func u32LE(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func u32BE(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func TestIntegerScalarEqual(t *testing.T) {
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDu32)
	fn, ok := integerScalarCompareFn(dt, datatype.CompareEqual, datatype.ScalarParams{Immediate: u32LE(1)})
	require.True(t, ok)

	cur := u32LE(1)
	assert.True(t, fn(ptrTo(cur), nil))

	cur2 := u32LE(2)
	assert.False(t, fn(ptrTo(cur2), nil))
}

func TestIntegerScalarBigEndianEqualitySkipsSwap(t *testing.T) {
	// S1-style scenario but big-endian: equality must match regardless
	// of byte order since it's a raw byte comparison.
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDu32be)
	fn, ok := integerScalarCompareFn(dt, datatype.CompareEqual, datatype.ScalarParams{Immediate: u32BE(1)})
	require.True(t, ok)
	assert.True(t, fn(ptrTo(u32BE(1)), nil))
	assert.False(t, fn(ptrTo(u32BE(2)), nil))
}

func TestIntegerScalarBigEndianOrderingSwaps(t *testing.T) {
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDu32be)
	fn, ok := integerScalarCompareFn(dt, datatype.CompareGreaterThan, datatype.ScalarParams{Immediate: u32BE(10)})
	require.True(t, ok)
	assert.True(t, fn(ptrTo(u32BE(20)), nil))
	assert.False(t, fn(ptrTo(u32BE(5)), nil))
}

func TestIntegerScalarChanged(t *testing.T) {
	// S3: previous AA BB CC, current AA BC CC -> byte 1 changed.
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDu8)
	fn, ok := integerScalarCompareFn(dt, datatype.CompareChanged, datatype.ScalarParams{})
	require.True(t, ok)
	assert.False(t, fn(ptrTo([]byte{0xAA}), ptrTo([]byte{0xAA})))
	assert.True(t, fn(ptrTo([]byte{0xBC}), ptrTo([]byte{0xBB})))
}

func TestIntegerScalarIncreasedByXWrapping(t *testing.T) {
	// S5: previous 0x7FFFFFFE, current 0x80000003, delta 5 (i32, wrapping).
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDi32)
	fn, ok := integerScalarCompareFn(dt, datatype.CompareIncreasedByX, datatype.ScalarParams{Delta: u32LE(5)})
	require.True(t, ok)
	prev := u32LE(0x7FFFFFFE)
	cur := u32LE(0x80000003)
	assert.True(t, fn(ptrTo(cur), ptrTo(prev)))
}

func TestIntegerScalarDividedByZeroRejected(t *testing.T) {
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDu32)
	fn, ok := integerScalarCompareFn(dt, datatype.CompareDividedByX, datatype.ScalarParams{Delta: u32LE(0)})
	require.True(t, ok) // kernel builds; the zero check happens per-call
	assert.False(t, fn(ptrTo(u32LE(10)), ptrTo(u32LE(20))))
}

func TestIntegerScalarModuloWrapping(t *testing.T) {
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDu8)
	fn, ok := integerScalarCompareFn(dt, datatype.CompareModuloByX, datatype.ScalarParams{Delta: []byte{16}})
	require.True(t, ok)
	assert.True(t, fn(ptrTo([]byte{3}), ptrTo([]byte{19})))  // 19 % 16 == 3
	assert.False(t, fn(ptrTo([]byte{4}), ptrTo([]byte{19})))
}

func TestIntegerScalarSignedOrdering(t *testing.T) {
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDi8)
	fn, ok := integerScalarCompareFn(dt, datatype.CompareLessThan, datatype.ScalarParams{Immediate: []byte{0}})
	require.True(t, ok)
	negOne := []byte{0xFF} // -1 as i8
	assert.True(t, fn(ptrTo(negOne), nil))
}
