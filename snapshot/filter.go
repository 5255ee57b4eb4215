package snapshot

import (
	"fmt"
	"sort"

	"github.com/biogo/store/llrb"

	"github.com/squalr-core/scanengine/datatype"
)

// Filter is one surviving-candidate interval [Base, Base+Size) within a
// region. Filters come from run-length encoding a kernel's match mask
// (package rle), apart from the single whole-region filter a NewScan
// seeds each region with.
type Filter struct {
	Base uintptr
	Size int
}

// End returns the exclusive upper bound of f.
func (f Filter) End() uintptr { return f.Base + uintptr(f.Size) }

// filterKey adapts a Filter for llrb.Tree, ordering by Base the way
// bampair's shard key orders by (refID, start).
type filterKey struct {
	base   uintptr
	filter Filter
}

func (k filterKey) Compare(c llrb.Comparable) int {
	o := c.(filterKey)
	switch {
	case k.base < o.base:
		return -1
	case k.base > o.base:
		return 1
	default:
		return 0
	}
}

// FilterCollection groups a region's surviving filters under a single
// (DataTypeRef, MemoryAlignment) pair, so a rescan
// against the same type/alignment reuses the same kernel without
// re-deriving it. Filters are kept disjoint and ascending by base.
type FilterCollection struct {
	ref       datatype.DataTypeRef
	alignment datatype.MemoryAlignment

	regionBase uintptr
	regionSize int

	index    llrb.Tree
	flatCache []Filter
}

// NewFilterCollection validates filters against a region's extent and
// this collection's invariants (disjoint, ascending by base, each
// contained in [regionBase, regionBase+regionSize), each size a whole
// multiple of alignment) and builds the ordered index an encoder or
// rescan can query by neighbor.
func NewFilterCollection(ref datatype.DataTypeRef, alignment datatype.MemoryAlignment, regionBase uintptr, regionSize int, filters []Filter) (*FilterCollection, error) {
	fc := &FilterCollection{
		ref:        ref,
		alignment:  alignment,
		regionBase: regionBase,
		regionSize: regionSize,
	}
	regionEnd := regionBase + uintptr(regionSize)
	var prevEnd uintptr
	for i, f := range filters {
		if f.Base < regionBase || f.End() > regionEnd {
			return nil, fmt.Errorf("snapshot: filter [0x%x,0x%x) escapes region [0x%x,0x%x)",
				f.Base, f.End(), regionBase, regionEnd)
		}
		if f.Size%int(alignment) != 0 {
			return nil, fmt.Errorf("snapshot: filter size %d is not a multiple of alignment %d", f.Size, alignment)
		}
		if i > 0 && f.Base < prevEnd {
			return nil, fmt.Errorf("snapshot: filters are not disjoint/ascending: [..,0x%x) then [0x%x,..)", prevEnd, f.Base)
		}
		prevEnd = f.End()
		fc.index.Insert(filterKey{base: f.Base, filter: f})
	}
	fc.flatCache = append([]Filter(nil), filters...)
	return fc, nil
}

// Ref returns the data type the collection's filters are interpreted
// as.
func (fc *FilterCollection) Ref() datatype.DataTypeRef { return fc.ref }

// Alignment returns the candidate-address stride shared by every
// filter in the collection.
func (fc *FilterCollection) Alignment() datatype.MemoryAlignment { return fc.alignment }

// Len returns the number of filters in the collection.
func (fc *FilterCollection) Len() int { return len(fc.flatCache) }

// Flatten returns the collection's filters as a disjoint, ascending
// slice — filters within a collection are always disjoint and
// ascending by base.
func (fc *FilterCollection) Flatten() []Filter {
	out := make([]Filter, len(fc.flatCache))
	copy(out, fc.flatCache)
	return out
}

// Floor returns the filter with the greatest base not exceeding
// address, used by a rescan to find which surviving candidate (if any)
// covers a given address without a linear walk — grounded on
// bampair.ShardInfo's llrb.Floor lookup by position.
func (fc *FilterCollection) Floor(address uintptr) (Filter, bool) {
	c := fc.index.Floor(filterKey{base: address})
	if c == nil {
		return Filter{}, false
	}
	f := c.(filterKey).filter
	if address >= f.Base && address < f.End() {
		return f, true
	}
	return Filter{}, false
}

// filtersFromMask builds a FilterCollection's input slice from
// (base, size) pairs, sorted ascending by base. Only this package's
// tests call it.
func filtersFromMask(bases []uintptr, sizes []int) []Filter {
	out := make([]Filter, len(bases))
	for i := range bases {
		out[i] = Filter{Base: bases[i], Size: sizes[i]}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Base < out[j].Base })
	return out
}
