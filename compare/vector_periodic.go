package compare

import (
	"unsafe"

	"github.com/squalr-core/scanengine/datatype"
)

// periodicVectorCompareFn builds the overlapping-periodic/staggered
// vector kernel: a lane is 0xFF whenever its
// byte equals the immediate's repeating pattern at *any* phase. That
// membership test is cheap — a handful of byte compares, no per-
// element window reconstruction — but a resulting run of 0xFF lanes
// can start up to periodicity-1 bytes before any address that is
// actually a whole, unit-size-aligned match ("SIMD is fast but makes
// mistakes"). The dispatcher attaches rle.NewPeriodicRangeAdjustor to
// the encoder consuming this mask, which trims the run back into
// phase and down to a whole number of elements; this kernel does not
// do that trimming itself.
//
// Only CompareEqual has a periodic reading — NotEqual, GreaterThan,
// and the rest of the Immediate family don't reduce to "is this byte
// one of the pattern's bytes", so they report (nil, false) and the
// caller falls back to a per-candidate scalar loop.
func periodicVectorCompareFn(dt *datatype.DataType, tag datatype.CompareTag, params datatype.VectorParams, lanes int) (datatype.VectorCompareFn, bool) {
	if tag != datatype.CompareEqual || params.Periodicity <= 0 || len(params.Immediate) == 0 {
		return nil, false
	}
	p := params.Periodicity
	if p > len(params.Immediate) {
		p = len(params.Immediate)
	}
	var member [256]bool
	for i := 0; i < p; i++ {
		member[params.Immediate[i]] = true
	}

	return func(current, _ unsafe.Pointer, mask []byte) {
		bytes := unsafe.Slice((*byte)(current), lanes)
		for i, b := range bytes {
			if member[b] {
				mask[i] = 0xFF
			} else {
				mask[i] = 0x00
			}
		}
	}, true
}
