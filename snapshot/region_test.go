package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squalr-core/scanengine/datatype"
	"github.com/squalr-core/scanengine/memquery"
)

func TestNewRegionZeroedBuffers(t *testing.T) {
	r := NewRegion(memquery.Region{Base: 0x1000, Size: 8})
	assert.Equal(t, uintptr(0x1000), r.Base)
	assert.Equal(t, 8, r.Size())
	assert.Equal(t, make([]byte, 8), r.CurrentValues)
	assert.Equal(t, make([]byte, 8), r.PreviousValues)
}

func TestRegionCurrentValuesPointerOffset(t *testing.T) {
	r := NewRegion(memquery.Region{Base: 0x1000, Size: 8})
	off, ok := r.CurrentValuesPointerOffset(0x1004)
	require.True(t, ok)
	assert.Equal(t, 4, off)

	_, ok = r.CurrentValuesPointerOffset(0x2000)
	assert.False(t, ok)
}

func TestRegionCommitSwapsPreviousToCurrent(t *testing.T) {
	r := NewRegion(memquery.Region{Base: 0x1000, Size: 4})
	copy(r.CurrentValues, []byte{1, 2, 3, 4})
	r.Commit()
	assert.Equal(t, []byte{1, 2, 3, 4}, r.PreviousValues)

	copy(r.CurrentValues, []byte{9, 9, 9, 9})
	assert.Equal(t, []byte{1, 2, 3, 4}, r.PreviousValues)
}

func TestRegionAttachFilterCollectionReplacesSameKey(t *testing.T) {
	r := NewRegion(memquery.Region{Base: 0x1000, Size: 0x100})
	ref := datatype.NewScalarRef(datatype.IDu32)

	fc1, err := NewFilterCollection(ref, datatype.Align4, 0x1000, 0x100, []Filter{{Base: 0x1000, Size: 4}})
	require.NoError(t, err)
	require.NoError(t, r.AttachFilterCollection(fc1))

	fc2, err := NewFilterCollection(ref, datatype.Align4, 0x1000, 0x100, []Filter{{Base: 0x1004, Size: 4}})
	require.NoError(t, err)
	require.NoError(t, r.AttachFilterCollection(fc2))

	cols := r.FilterCollections()
	require.Len(t, cols, 1)
	assert.Equal(t, uintptr(0x1004), cols[0].Flatten()[0].Base)
}

func TestRegionAttachFilterCollectionRejectsMismatchedRegion(t *testing.T) {
	r := NewRegion(memquery.Region{Base: 0x1000, Size: 0x100})
	ref := datatype.NewScalarRef(datatype.IDu32)
	fc, err := NewFilterCollection(ref, datatype.Align4, 0x2000, 0x100, nil)
	require.NoError(t, err)
	assert.Error(t, r.AttachFilterCollection(fc))
}
