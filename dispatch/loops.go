package dispatch

import (
	"unsafe"

	"github.com/squalr-core/scanengine/compare"
	"github.com/squalr-core/scanengine/datatype"
	"github.com/squalr-core/scanengine/rle"
	"github.com/squalr-core/scanengine/snapshot"
)

// scalarFullLoop is the general-purpose reference kernel: it tests
// every candidate at the given stride exactly, via fn, and — since a
// hit's true footprint is unit_size bytes even when stride is smaller
// (the overlapping case) — marks that whole footprint in a byte mask
// before handing it to the encoder. Two overlapping hits' footprints
// simply union in the mask, so adjacent valid starts merge into one
// run without any extra bookkeeping (the worked example:
// hits at local offsets 1 and 3 of a 5-byte run, unit_size 2, merge
// into one [1,5) filter this way with no phase correction needed).
//
// This is the fallback every plan variant reduces to when no
// specialized vector kernel applies — ScalarSingleElement and
// ScalarIterative always use it, VectorSparse uses it since
// genericVectorCompareFn assumes a packed (non-sparse) element layout,
// and the overlapping plans use it for any comparison a periodicity
// mask can't serve (see periodicVectorLoop).
func scalarFullLoop(fn datatype.ScalarCompareFn, current, previous []byte, stride, unitSize int, filterBase uintptr) []snapshot.Filter {
	n := len(current)
	mask := make([]byte, n)
	for off := 0; off+unitSize <= n; off += stride {
		cp := unsafe.Pointer(&current[off])
		var pp unsafe.Pointer
		if previous != nil && off+unitSize <= len(previous) {
			pp = unsafe.Pointer(&previous[off])
		}
		if !fn(cp, pp) {
			continue
		}
		for b := off; b < off+unitSize; b++ {
			mask[b] = 0xFF
		}
	}
	minSize := stride
	if unitSize > minSize {
		minSize = unitSize
	}
	enc := rle.NewEncoder(filterBase, current, minSize, nil)
	enc.EncodeMask(mask, stride)
	return enc.Filters()
}

// vectorAlignedLoop is the true-SIMD path: reg's vector kernel is
// called in lane-sized chunks (safe because VectorAligned guarantees
// unit_size divides lanes, so no candidate straddles a chunk
// boundary), falling back to scalarFullLoop entirely if the registry
// has no vector kernel for this (ref, tag) pair.
func vectorAlignedLoop(reg *datatype.Registry, ref datatype.DataTypeRef, tag datatype.CompareTag, sp datatype.ScalarParams, lanes int, current, previous []byte, filterBase uintptr) ([]snapshot.Filter, error) {
	unitSize := reg.UnitSizeInBytes(ref)
	vfn, ok := reg.VectorCompareFn(ref, tag, datatype.VectorParams{ScalarParams: sp}, lanes)
	if !ok {
		fn, ok := reg.ScalarCompareFn(ref, tag, sp)
		if !ok {
			return nil, errKernelUnavailable(ref, tag)
		}
		return scalarFullLoop(fn, current, previous, unitSize, unitSize, filterBase), nil
	}

	enc := rle.NewEncoder(filterBase, current, unitSize, nil)
	n := len(current)
	mask := make([]byte, lanes)
	off := 0
	for ; off+lanes <= n; off += lanes {
		var pp unsafe.Pointer
		if previous != nil && off+lanes <= len(previous) {
			pp = unsafe.Pointer(&previous[off])
		}
		vfn(unsafe.Pointer(&current[off]), pp, mask)
		enc.EncodeMask(mask, unitSize)
	}
	if off < n {
		fn, ok := reg.ScalarCompareFn(ref, tag, sp)
		if !ok {
			return nil, errKernelUnavailable(ref, tag)
		}
		for ; off+unitSize <= n; off += unitSize {
			cp := unsafe.Pointer(&current[off])
			var pp unsafe.Pointer
			if previous != nil && off+unitSize <= len(previous) {
				pp = unsafe.Pointer(&previous[off])
			}
			if fn(cp, pp) {
				enc.EncodeRange(unitSize)
			} else {
				enc.FinalizeCurrentEncode(unitSize)
			}
		}
	}
	return enc.Filters(), nil
}

// periodicVectorLoop is the fast path for overlapping periodic/
// staggered Equal scans: the registry's periodic vector kernel builds
// a cheap byte-membership mask in lane-sized chunks (safe to chunk —
// membership is a per-byte test with no cross-byte dependency), and
// rle.NewPeriodicRangeAdjustor trims each resulting run back into
// phase. Returns ok=false if the registry has no periodic kernel for
// this ref (e.g. a non-integer type slipped through), letting the
// caller fall back to scalarFullLoop.
func periodicVectorLoop(reg *datatype.Registry, ref datatype.DataTypeRef, sp datatype.ScalarParams, periodicity, lanes int, current []byte, filterBase uintptr) ([]snapshot.Filter, bool) {
	unitSize := reg.UnitSizeInBytes(ref)
	vfn, ok := reg.VectorCompareFn(ref, datatype.CompareEqual, datatype.VectorParams{ScalarParams: sp, Periodicity: periodicity}, lanes)
	if !ok {
		return nil, false
	}

	adjustor := rle.NewPeriodicRangeAdjustor(periodicity, unitSize, sp.Immediate)
	enc := rle.NewEncoder(filterBase, current, unitSize, adjustor)
	n := len(current)
	mask := make([]byte, lanes)
	off := 0
	for ; off+lanes <= n; off += lanes {
		vfn(unsafe.Pointer(&current[off]), nil, mask)
		enc.EncodeMask(mask, 1)
	}
	if off < n {
		buf := make([]byte, lanes)
		copy(buf, current[off:n])
		vfn(unsafe.Pointer(&buf[0]), nil, mask)
		enc.EncodeMask(mask[:n-off], 1)
	}
	return enc.Filters(), true
}

// byteArrayLoop handles ByteArrayBoyerMoore: Equal uses the
// seahash-prefiltered Boyer-Moore-Horspool search, everything else
// (NotEqual, Changed, Unchanged, the delta family) falls back to an
// exact per-candidate test since none of those admit a substring-
// search shortcut.
func byteArrayLoop(reg *datatype.Registry, ref datatype.DataTypeRef, c Constraint, current, previous []byte, alignment int, filterBase uintptr) ([]snapshot.Filter, error) {
	patternLen := reg.UnitSizeInBytes(ref)
	if patternLen <= 0 {
		return nil, errKernelUnavailable(ref, c.Tag)
	}
	minSize := alignment
	if patternLen > minSize {
		minSize = patternLen
	}

	if c.Tag == datatype.CompareEqual {
		n := len(current)
		mask := make([]byte, n)
		for _, off := range compare.FindByteArrayMatches(current, c.Immediate) {
			for b := off; b < off+patternLen && b < n; b++ {
				mask[b] = 0xFF
			}
		}
		enc := rle.NewEncoder(filterBase, current, minSize, nil)
		enc.EncodeMask(mask, alignment)
		return enc.Filters(), nil
	}

	sp := c.scalarParams()
	sp.Size = patternLen
	fn, ok := reg.ScalarCompareFn(ref, c.Tag, sp)
	if !ok {
		return nil, errKernelUnavailable(ref, c.Tag)
	}
	return scalarFullLoop(fn, current, previous, alignment, patternLen, filterBase), nil
}
