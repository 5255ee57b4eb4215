package planner

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squalr-core/scanengine/datatype"
)

func newTestRegistry() *datatype.Registry {
	return datatype.New(nil)
}

func TestPlanSingleElement(t *testing.T) {
	reg := newTestRegistry()
	ref := datatype.NewScalarRef(datatype.IDu32)
	plan, err := Plan(reg, FilterExtent{Size: 4}, Params{
		Ref: ref, Alignment: datatype.Align4, Tag: datatype.CompareEqual, Immediate: []byte{1, 0, 0, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, ScalarSingleElement{}, plan)
}

func TestPlanVectorAligned(t *testing.T) {
	reg := newTestRegistry()
	ref := datatype.NewScalarRef(datatype.IDu32)
	plan, err := Plan(reg, FilterExtent{Size: 64}, Params{
		Ref: ref, Alignment: datatype.Align4, Tag: datatype.CompareEqual, Immediate: []byte{1, 0, 0, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, VectorAligned{Lanes: Lanes64}, plan)
}

func TestPlanVectorSparse(t *testing.T) {
	reg := newTestRegistry()
	ref := datatype.NewScalarRef(datatype.IDu16)
	plan, err := Plan(reg, FilterExtent{Size: 64}, Params{
		Ref: ref, Alignment: datatype.Align4, Tag: datatype.CompareEqual, Immediate: []byte{1, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, VectorSparse{Lanes: Lanes64}, plan)
}

func TestPlanVectorOverlappingPeriodic(t *testing.T) {
	reg := newTestRegistry()
	ref := datatype.NewScalarRef(datatype.IDu32)
	// immediate bytes all equal -> periodicity 1.
	plan, err := Plan(reg, FilterExtent{Size: 64}, Params{
		Ref: ref, Alignment: datatype.Align1, Tag: datatype.CompareEqual, Immediate: []byte{7, 7, 7, 7},
	})
	require.NoError(t, err)
	assert.Equal(t, VectorOverlappingPeriodic{Lanes: Lanes64}, plan)
}

func TestPlanVectorOverlappingStaggered(t *testing.T) {
	reg := newTestRegistry()
	ref := datatype.NewScalarRef(datatype.IDu32)
	// period-2 pattern: [1,2,1,2].
	plan, err := Plan(reg, FilterExtent{Size: 64}, Params{
		Ref: ref, Alignment: datatype.Align1, Tag: datatype.CompareEqual, Immediate: []byte{1, 2, 1, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, VectorOverlappingStaggered{Lanes: Lanes64, Periodicity: 2}, plan)
}

func TestPlanFloatNeverOverlapsPeriodic(t *testing.T) {
	reg := newTestRegistry()
	ref := datatype.NewScalarRef(datatype.IDf32)
	plan, err := Plan(reg, FilterExtent{Size: 64}, Params{
		Ref: ref, Alignment: datatype.Align1, Tag: datatype.CompareEqual, Immediate: []byte{0, 0, 0, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, ScalarIterative{}, plan)
}

func TestPlanByteArrayRemapsToPrimitive(t *testing.T) {
	reg := newTestRegistry()
	ref := datatype.NewByteArrayRef(4)
	plan, err := Plan(reg, FilterExtent{Size: 64}, Params{
		Ref: ref, Alignment: datatype.Align4, Tag: datatype.CompareEqual, Immediate: []byte{1, 2, 3, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, VectorAligned{Lanes: Lanes64}, plan)
}

func TestPlanByteArrayFallsBackToBoyerMoore(t *testing.T) {
	reg := newTestRegistry()
	ref := datatype.NewByteArrayRef(5)
	plan, err := Plan(reg, FilterExtent{Size: 64}, Params{
		Ref: ref, Alignment: datatype.Align1, Tag: datatype.CompareEqual, Immediate: []byte{1, 2, 3, 4, 5},
	})
	require.NoError(t, err)
	assert.Equal(t, ByteArrayBoyerMoore{}, plan)
}

func TestPlanZeroDivisorAbortsAsUnsupported(t *testing.T) {
	reg := newTestRegistry()
	ref := datatype.NewScalarRef(datatype.IDu32)
	plan, err := Plan(reg, FilterExtent{Size: 64}, Params{
		Ref: ref, Alignment: datatype.Align4, Tag: datatype.CompareDividedByX,
		Delta: []byte{0, 0, 0, 0}, DivisorIsZero: true,
	})
	assert.Nil(t, plan)
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err))
	assert.Contains(t, err.Error(), "zero divisor")
}

func TestPlanUnsupportedComparisonAborts(t *testing.T) {
	reg := newTestRegistry()
	ref := datatype.NewByteArrayRef(4)
	plan, err := Plan(reg, FilterExtent{Size: 64}, Params{
		Ref: ref, Alignment: datatype.Align4, Tag: datatype.CompareMultipliedByX,
		Delta: []byte{1, 0, 0, 0},
	})
	assert.Nil(t, plan)
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err))
}

func TestPlanInvalidRefErrors(t *testing.T) {
	reg := newTestRegistry()
	_, err := Plan(reg, FilterExtent{Size: 64}, Params{Ref: datatype.DataTypeRef{ID: "nope"}})
	assert.Error(t, err)
}

func TestPlanScalarIterativeForSmallFilter(t *testing.T) {
	reg := newTestRegistry()
	ref := datatype.NewScalarRef(datatype.IDu32)
	plan, err := Plan(reg, FilterExtent{Size: 12}, Params{
		Ref: ref, Alignment: datatype.Align4, Tag: datatype.CompareEqual, Immediate: []byte{1, 0, 0, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, ScalarIterative{}, plan)
}
