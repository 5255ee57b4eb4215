package memquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProtectionHas(t *testing.T) {
	p := ProtectRead | ProtectWrite
	assert.True(t, p.Has(ProtectRead))
	assert.True(t, p.Has(ProtectRead|ProtectWrite))
	assert.False(t, p.Has(ProtectExecute))
	assert.False(t, p.Has(ProtectRead|ProtectExecute))
}

func TestProtectionHasAny(t *testing.T) {
	p := ProtectRead | ProtectWrite
	assert.True(t, p.HasAny(ProtectExecute|ProtectWrite))
	assert.False(t, p.HasAny(ProtectExecute|ProtectCopyOnWrite))
}

func TestRegionEnd(t *testing.T) {
	r := Region{Base: 0x1000, Size: 0x100}
	assert.Equal(t, uintptr(0x1100), r.End())
}

func TestRegionOverlaps(t *testing.T) {
	a := Region{Base: 0x1000, Size: 0x100}
	b := Region{Base: 0x1080, Size: 0x100}
	c := Region{Base: 0x1100, Size: 0x100}
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))
}

func TestAddressRangeEnd(t *testing.T) {
	r := AddressRange{Base: 0x2000, Size: 0x50}
	assert.Equal(t, uintptr(0x2050), r.End())
}
