package datatype

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRegistration(t *testing.T) {
	reg := New(nil)
	dt := reg.Get(IDu32)
	require.NotNil(t, dt)
	assert.Equal(t, 4, dt.UnitSizeInBytes)
	assert.False(t, dt.Signed)
	assert.Equal(t, LittleEndian, dt.Endian)
}

func TestGetUnregisteredReturnsNil(t *testing.T) {
	reg := New(nil)
	assert.Nil(t, reg.Get("not_a_real_type"))
}

func TestValidateRefInvalidIdentifier(t *testing.T) {
	reg := New(nil)
	err := reg.ValidateRef(DataTypeRef{ID: "bogus"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDataTypeRef))
}

func TestValidateRefByteArrayRequiresLength(t *testing.T) {
	reg := New(nil)
	err := reg.ValidateRef(DataTypeRef{ID: IDbyteArray})
	require.Error(t, err)

	ok := reg.ValidateRef(NewByteArrayRef(4))
	assert.NoError(t, ok)
}

func TestUnitSizeInBytes(t *testing.T) {
	reg := New(nil)
	assert.Equal(t, 8, reg.UnitSizeInBytes(NewScalarRef(IDu64)))
	assert.Equal(t, 4, reg.UnitSizeInBytes(NewByteArrayRef(4)))
	assert.Equal(t, 0, reg.UnitSizeInBytes(DataTypeRef{ID: "bogus"}))
}

func TestDefaultValueIsZeroFilled(t *testing.T) {
	reg := New(nil)
	dv, err := reg.DefaultValue(NewScalarRef(IDu32))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, dv.Bytes)
}

func TestByteArrayComparisonsNonstandardOrdering(t *testing.T) {
	reg := New(nil)
	ref := NewByteArrayRef(4)
	assert.True(t, reg.SupportsComparison(ref, CompareEqual))
	// Supported, but with "all elements greater/less" semantics rather
	// than lexicographic —
	assert.True(t, reg.SupportsComparison(ref, CompareGreaterThan))
	assert.False(t, reg.SupportsComparison(ref, CompareModuloByX))
}

func TestCompareTagFamily(t *testing.T) {
	assert.Equal(t, FamilyImmediate, CompareEqual.Family())
	assert.Equal(t, FamilyRelative, CompareChanged.Family())
	assert.Equal(t, FamilyDelta, CompareIncreasedByX.Family())
}

func TestDefaultAlignmentMatchesUnitSize(t *testing.T) {
	reg := New(nil)
	assert.Equal(t, Align4, DefaultAlignment(reg.Get(IDu32)))
	assert.Equal(t, Align8, DefaultAlignment(reg.Get(IDf64)))
	assert.Equal(t, Align1, DefaultAlignment(reg.Get(IDu8)))
}

type stubProvider struct{}

func (stubProvider) ScalarCompareFn(dt *DataType, tag CompareTag, params ScalarParams) (ScalarCompareFn, bool) {
	if !dt.Comparisons[tag] {
		return nil, false
	}
	return func(current, previous unsafe.Pointer) bool { return false }, true
}

func (stubProvider) VectorCompareFn(dt *DataType, tag CompareTag, params VectorParams, lanes int) (VectorCompareFn, bool) {
	return nil, false
}

func TestRegistryDelegatesToProvider(t *testing.T) {
	reg := New(stubProvider{})
	fn, ok := reg.ScalarCompareFn(NewScalarRef(IDu32), CompareEqual, ScalarParams{})
	require.True(t, ok)
	require.NotNil(t, fn)

	_, ok = reg.ScalarCompareFn(NewByteArrayRef(4), CompareModuloByX, ScalarParams{})
	assert.False(t, ok)
}
