package planner

import (
	"github.com/squalr-core/scanengine/datatype"
)

// Plan implements the algorithm: a deterministic function
// from (filter, region alignment/type, comparison) to a Plan. It never
// invokes a kernel itself — it only decides which one the dispatcher
// should.
func Plan(reg *datatype.Registry, filter FilterExtent, p Params) (Plan, error) {
	if err := reg.ValidateRef(p.Ref); err != nil {
		return nil, err
	}

	// Guards first: UnsupportedComparison and ZeroDeltaForDivMod are both
	// eager and total — §7 treats a zero divisor/modulus as
	// UnsupportedComparison, not a silent empty-result plan, so neither
	// reaches the dispatcher at all.
	if err := ValidateComparison(reg, p.Ref, p.Tag, p.DivisorIsZero); err != nil {
		return nil, err
	}

	ref := p.Ref
	dt := reg.Get(ref.ID)
	alignment := p.Alignment

	// Step 1: a filter with exactly one candidate element never needs
	// vectorization.
	if filter.ElementCount(alignment) == 1 {
		return ScalarSingleElement{}, nil
	}

	// Step 2: byte_array scans attempt to decompose onto a primitive of
	// the same size so the rest of the pipeline (vectorization,
	// periodicity) applies uniformly; only an irreducible size falls
	// back to a literal byte-string search.
	if dt.Kind == datatype.KindByteArray {
		remapped, ok := remapByteArrayRef(ref)
		if !ok {
			return ByteArrayBoyerMoore{}, nil
		}
		ref = remapped
		dt = reg.Get(ref.ID)
	}

	unitSize := reg.UnitSizeInBytes(ref)

	// Step 3: pick a vectorization size from the filter's raw byte
	// extent; too small to vectorize falls straight to the scalar loop.
	lanes, ok := vectorSizeFor(filter.Size)
	if !ok {
		return ScalarIterative{}, nil
	}

	switch {
	case int(alignment) == unitSize:
		return VectorAligned{Lanes: lanes}, nil
	case int(alignment) > unitSize:
		return VectorSparse{Lanes: lanes}, nil
	default:
		// alignment < unitSize: candidates overlap within an element.
		// Step 4: only discrete (integer) types can reuse a byte-level
		// match across overlapping candidates; floats never take this
		// path (bit-level periodicity doesn't imply tolerance-safe
		// reuse).
		if dt.Kind != datatype.KindInteger || p.Tag.Family() != datatype.FamilyImmediate {
			return ScalarIterative{}, nil
		}
		periodicity := Periodicity(p.Immediate, unitSize)
		if periodicity == 1 {
			return VectorOverlappingPeriodic{Lanes: lanes}, nil
		}
		return VectorOverlappingStaggered{Lanes: lanes, Periodicity: periodicity}, nil
	}
}

// EffectiveRef returns the reference a kernel lookup should actually
// resolve against for a given (registry, ref) pair: identical to ref
// unless ref names a byte_array that step 2's remapping decomposes
// onto a same-size primitive, in which case this returns that
// remapped ref. The dispatcher calls this once per (filter, constraint)
// right after Plan so it resolves kernels against the same effective
// type Plan itself reasoned about, without duplicating the remapping
// rule at the call site.
func EffectiveRef(reg *datatype.Registry, ref datatype.DataTypeRef) datatype.DataTypeRef {
	dt := reg.Get(ref.ID)
	if dt == nil || dt.Kind != datatype.KindByteArray {
		return ref
	}
	if remapped, ok := remapByteArrayRef(ref); ok {
		return remapped
	}
	return ref
}

// remapByteArrayRef attempts the byte-array-to-primitive
// decomposition: 1→u8, 2→u16_be, 4→u32_be, 8→u64_be. The
// big-endian choice is deliberate so the bytes in memory and the bytes
// of the immediate compare identically without swapping.
func remapByteArrayRef(ref datatype.DataTypeRef) (datatype.DataTypeRef, bool) {
	switch ref.Metadata.ContainerLength {
	case 1:
		return datatype.NewScalarRef(datatype.IDu8), true
	case 2:
		return datatype.NewScalarRef(datatype.IDu16be), true
	case 4:
		return datatype.NewScalarRef(datatype.IDu32be), true
	case 8:
		return datatype.NewScalarRef(datatype.IDu64be), true
	default:
		return datatype.DataTypeRef{}, false
	}
}

// vectorSizeFor picks V64/V32/V16 from a filter's byte size, or
// reports no vectorization is worthwhile.
func vectorSizeFor(filterSize int) (Lanes, bool) {
	switch {
	case filterSize >= 64:
		return Lanes64, true
	case filterSize >= 32:
		return Lanes32, true
	case filterSize >= 16:
		return Lanes16, true
	default:
		return 0, false
	}
}
