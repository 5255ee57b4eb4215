package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squalr-core/scanengine/datatype"
)

func TestCachePlanHitReturnsSameResult(t *testing.T) {
	reg := newTestRegistry()
	c := NewCache(reg)
	ref := datatype.NewScalarRef(datatype.IDu32)
	params := Params{Ref: ref, Alignment: datatype.Align4, Tag: datatype.CompareEqual, Immediate: []byte{1, 0, 0, 0}}

	p1, err := c.Plan(FilterExtent{Size: 64}, params)
	require.NoError(t, err)
	p2, err := c.Plan(FilterExtent{Size: 64}, params)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.Len(t, c.entries, 1)
}

func TestCachePlanDistinguishesDistinctParams(t *testing.T) {
	reg := newTestRegistry()
	c := NewCache(reg)
	ref := datatype.NewScalarRef(datatype.IDu32)

	_, err := c.Plan(FilterExtent{Size: 64}, Params{Ref: ref, Alignment: datatype.Align4, Tag: datatype.CompareEqual, Immediate: []byte{1, 0, 0, 0}})
	require.NoError(t, err)
	_, err = c.Plan(FilterExtent{Size: 64}, Params{Ref: ref, Alignment: datatype.Align4, Tag: datatype.CompareEqual, Immediate: []byte{2, 0, 0, 0}})
	require.NoError(t, err)

	assert.Len(t, c.entries, 2)
}

func TestCachePlanPropagatesError(t *testing.T) {
	reg := newTestRegistry()
	c := NewCache(reg)
	_, err := c.Plan(FilterExtent{Size: 64}, Params{Ref: datatype.DataTypeRef{ID: "nope"}})
	assert.Error(t, err)
}
