package compare

import (
	"unsafe"

	"github.com/squalr-core/scanengine/datatype"
)

// genericVectorCompareFn builds a vector kernel by reducing to the
// already-built scalar kernel for (dt, tag, params.ScalarParams) and
// applying it once per element across the lane buffer, writing a
// full unit_size block of 0xFF/0x00 per lane into mask — lanes inside
// an element must also be 0xFF for aligned/scalar outputs, so the
// encoder can operate bytewise. This is the portable
// fallback every vectorized data type and comparison can fall back to;
// the amd64 build additionally fast-paths the unit-size-1
// Equal/NotEqual case with a real SIMD primitive.
func genericVectorCompareFn(dt *datatype.DataType, tag datatype.CompareTag, params datatype.VectorParams, lanes int) (datatype.VectorCompareFn, bool) {
	scalar, ok := scalarCompareFnFor(dt, tag, params.ScalarParams)
	if !ok {
		return nil, false
	}
	unitSize := params.Size
	if unitSize == 0 || lanes%unitSize != 0 {
		return nil, false
	}
	elems := lanes / unitSize

	return func(current, previous unsafe.Pointer, mask []byte) {
		base := uintptr(current)
		var prevBase uintptr
		if previous != nil {
			prevBase = uintptr(previous)
		}
		for e := 0; e < elems; e++ {
			off := uintptr(e * unitSize)
			cp := unsafe.Pointer(base + off)
			var pp unsafe.Pointer
			if previous != nil {
				pp = unsafe.Pointer(prevBase + off)
			}
			fill := byte(0x00)
			if scalar(cp, pp) {
				fill = 0xFF
			}
			for b := 0; b < unitSize; b++ {
				mask[e*unitSize+b] = fill
			}
		}
	}, true
}

// scalarCompareFnFor dispatches to the per-kind scalar factory; shared
// by the vector builders so a vector kernel is always "the scalar
// kernel, applied per lane" unless the periodic kernel or an amd64
// fast path applies.
func scalarCompareFnFor(dt *datatype.DataType, tag datatype.CompareTag, params datatype.ScalarParams) (datatype.ScalarCompareFn, bool) {
	switch dt.Kind {
	case datatype.KindInteger, datatype.KindBool:
		return integerScalarCompareFn(dt, tag, params)
	case datatype.KindFloat:
		return floatScalarCompareFn(dt, tag, params)
	default:
		return byteArrayScalarCompareFn(dt, tag, params)
	}
}
