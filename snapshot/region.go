// Package snapshot implements the frozen-copy model of a target
// process's address space: regions hold the current and
// previous byte buffers a scan reads and compares, and filter
// collections track which candidate addresses within a region still
// survive a running scan.
package snapshot

import (
	"fmt"

	"github.com/squalr-core/scanengine/datatype"
	"github.com/squalr-core/scanengine/memquery"
)

// Region is a contiguous range of a target process's address space,
// captured as two equal-length byte buffers. CurrentValues holds the
// bytes read this scan; PreviousValues holds the bytes read the prior
// scan (all zero before the first scan completes). Only the Coordinator
// mutates a Region after creation, via Commit.
type Region struct {
	Base           uintptr
	CurrentValues  []byte
	PreviousValues []byte

	filters []*FilterCollection
}

// NewRegion allocates a Region covering mr, with zeroed current and
// previous buffers ready for a Reader to fill.
func NewRegion(mr memquery.Region) *Region {
	return &Region{
		Base:           mr.Base,
		CurrentValues:  make([]byte, mr.Size),
		PreviousValues: make([]byte, mr.Size),
	}
}

// Clone returns a new Region with independently-owned buffers and
// filter slice, initialized from r's current state. A scan works
// against a clone and only hands it back to the coordinator once the
// whole region has read-then-dispatched successfully, so a
// cancellation or read failure midway through a multi-region scan
// never mutates a region still reachable from the pre-scan snapshot
// ("the snapshot's pre-scan state is preserved").
func (r *Region) Clone() *Region {
	clone := &Region{
		Base:           r.Base,
		CurrentValues:  append([]byte(nil), r.CurrentValues...),
		PreviousValues: append([]byte(nil), r.PreviousValues...),
		filters:        append([]*FilterCollection(nil), r.filters...),
	}
	return clone
}

// Size returns the region's byte extent.
func (r *Region) Size() int { return len(r.CurrentValues) }

// End returns the exclusive upper bound of the region's address range.
func (r *Region) End() uintptr { return r.Base + uintptr(len(r.CurrentValues)) }

// CurrentValuesPointerOffset returns the byte offset into
// CurrentValues/PreviousValues corresponding to address
// (region.base + offset == address).
func (r *Region) CurrentValuesPointerOffset(address uintptr) (int, bool) {
	if address < r.Base || address >= r.End() {
		return 0, false
	}
	return int(address - r.Base), true
}

// Commit swaps PreviousValues to hold what CurrentValues held this
// scan, atomically per region. CurrentValues is left in place for the
// Reader to overwrite on the next scan.
func (r *Region) Commit() {
	copy(r.PreviousValues, r.CurrentValues)
}

// FilterCollections returns the region's filter collections in the
// order they were attached.
func (r *Region) FilterCollections() []*FilterCollection {
	out := make([]*FilterCollection, len(r.filters))
	copy(out, r.filters)
	return out
}

// AttachFilterCollection installs fc as one of the region's filter
// collections, replacing any existing collection for the same
// (DataTypeRef, MemoryAlignment) pair. Only the run-length encoder (via
// the dispatcher) and the Coordinator's initial full-region seed call
// this — filters are produced only by the run-length encoder; no other
// component may fabricate them.
func (r *Region) AttachFilterCollection(fc *FilterCollection) error {
	if fc.regionBase != r.Base || fc.regionSize != len(r.CurrentValues) {
		return fmt.Errorf("snapshot: filter collection region (0x%x, %d) does not match region (0x%x, %d)",
			fc.regionBase, fc.regionSize, r.Base, len(r.CurrentValues))
	}
	for i, existing := range r.filters {
		if existing.ref == fc.ref && existing.alignment == fc.alignment {
			r.filters[i] = fc
			return nil
		}
	}
	r.filters = append(r.filters, fc)
	return nil
}

// ResetFilterCollections discards every filter collection currently
// attached to the region. A Coordinator calls this at the start of a
// NewScan, before seeding the fresh full-region collection for the
// scan's (DataTypeRef, MemoryAlignment) pair — a NewScan targets a
// single type/alignment pair and must not leave a prior scan's
// unrelated collections around for the dispatcher to apply the new
// constraints against — a NewScan starts a scan over, it does not
// refine one.
func (r *Region) ResetFilterCollections() {
	r.filters = nil
}

// Ref is a re-export of the datatype reference type snapshot filter
// collections key on, so callers need not import datatype solely to
// name one.
type Ref = datatype.DataTypeRef

// Alignment is a re-export of datatype's memory alignment type.
type Alignment = datatype.MemoryAlignment
