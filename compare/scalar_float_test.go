package compare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squalr-core/scanengine/datatype"
)

func f32Bytes(v float32) []byte {
	raw := math.Float32bits(v)
	return []byte{byte(raw), byte(raw >> 8), byte(raw >> 16), byte(raw >> 24)}
}

func TestFloatScalarEqualTolerance(t *testing.T) {
	// S4: current values 1.0001, 1.01, 0.9995, 2.0 against immediate
	// 1.0, tolerance 1e-3 -> elements 0 and 2 match (byte offsets 0 and
	// 8), elements 1 and 3 do not.
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDf32)
	fn, ok := floatScalarCompareFn(dt, datatype.CompareEqual, datatype.ScalarParams{
		Immediate: f32Bytes(1.0),
		Tolerance: datatype.Tolerance1e3,
	})
	require.True(t, ok)

	assert.True(t, fn(ptrTo(f32Bytes(1.0001)), nil))
	assert.False(t, fn(ptrTo(f32Bytes(1.01)), nil))
	assert.True(t, fn(ptrTo(f32Bytes(0.9995)), nil))
	assert.False(t, fn(ptrTo(f32Bytes(2.0)), nil))
}

func TestFloatScalarNaNNeverMatchesEquality(t *testing.T) {
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDf32)
	eq, ok := floatScalarCompareFn(dt, datatype.CompareEqual, datatype.ScalarParams{Immediate: f32Bytes(1.0), Tolerance: 1})
	require.True(t, ok)
	assert.False(t, eq(ptrTo(f32Bytes(float32(math.NaN()))), nil))

	neq, ok := floatScalarCompareFn(dt, datatype.CompareNotEqual, datatype.ScalarParams{Immediate: f32Bytes(1.0), Tolerance: 1})
	require.True(t, ok)
	assert.True(t, neq(ptrTo(f32Bytes(float32(math.NaN()))), nil))
}

func TestFloatScalarDecreasedByUsesSubtraction(t *testing.T) {
	// Regression: the big-endian decreased_by path must subtract, not
	// add.
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDf32be)
	fn, ok := floatScalarCompareFn(dt, datatype.CompareDecreasedByX, datatype.ScalarParams{Delta: f32BEBytes(2.0)})
	require.True(t, ok)

	prev := f32BEBytes(10.0)
	curMatchingSubtraction := f32BEBytes(8.0)
	curMatchingAddition := f32BEBytes(12.0)

	assert.True(t, fn(ptrTo(curMatchingSubtraction), ptrTo(prev)))
	assert.False(t, fn(ptrTo(curMatchingAddition), ptrTo(prev)))
}

func f32BEBytes(v float32) []byte {
	raw := math.Float32bits(v)
	return []byte{byte(raw >> 24), byte(raw >> 16), byte(raw >> 8), byte(raw)}
}

func TestFloatScalarDividedByZeroUnsupported(t *testing.T) {
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDf64)
	_, ok := floatScalarCompareFn(dt, datatype.CompareDividedByX, datatype.ScalarParams{Delta: make([]byte, 8)})
	assert.False(t, ok)
}

func TestFloatScalarModuloBy(t *testing.T) {
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDf32)
	fn, ok := floatScalarCompareFn(dt, datatype.CompareModuloByX, datatype.ScalarParams{
		Delta:     f32Bytes(3.0),
		Tolerance: datatype.Tolerance1e3,
	})
	require.True(t, ok)

	prev := f32Bytes(10.0) // 10 mod 3 == 1
	assert.True(t, fn(ptrTo(f32Bytes(1.0)), ptrTo(prev)))
	assert.False(t, fn(ptrTo(f32Bytes(2.0)), ptrTo(prev)))
}

func TestFloatScalarModuloByZeroUnsupported(t *testing.T) {
	reg := datatype.New(nil)
	dt := reg.Get(datatype.IDf64)
	_, ok := floatScalarCompareFn(dt, datatype.CompareModuloByX, datatype.ScalarParams{Delta: make([]byte, 8)})
	assert.False(t, ok)
}
