package planner

import (
	"github.com/squalr-core/scanengine/datatype"
)

// FilterExtent is the (base, size) a filter covers — the minimal shape
// the planner needs from a snapshot.Filter without importing the
// snapshot package (which would create datatype/snapshot/planner
// import churn for no benefit; the planner only ever needs the size).
type FilterExtent struct {
	Base uintptr
	Size int
}

// ElementCount returns how many candidate elements of the given
// alignment fit in the filter, step 1
// ("filter.element_count(type, alignment)").
func (f FilterExtent) ElementCount(alignment datatype.MemoryAlignment) int {
	if alignment == 0 {
		return 0
	}
	return f.Size / int(alignment)
}

// Params is the planner's input beyond the filter extent: the data
// type and alignment in force, the requested comparison, and whatever
// immediate/delta bytes that comparison needs.
type Params struct {
	Ref       datatype.DataTypeRef
	Alignment datatype.MemoryAlignment
	Tag       datatype.CompareTag

	// Immediate holds the user-supplied comparison value's bytes, for
	// the Immediate family and for Delta forms that also carry a target
	// (IncreasedByX etc. use Delta, not Immediate — see Delta below).
	// Length must equal the registry's unit size for Ref.
	Immediate []byte

	// Delta holds the user-supplied delta operand's bytes for the Delta
	// family (IncreasedByX, MultipliedByX, ...). Unused otherwise.
	Delta []byte

	// DivisorIsZero is true when Tag is DividedByX or ModuloByX and the
	// user's delta is the zero value for Ref's type — the planner
	// rejects this at plan time/§4.D.
	DivisorIsZero bool
}
