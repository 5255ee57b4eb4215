// +build amd64

package compare

import (
	"unsafe"

	"github.com/grailbio/base/simd"
	"github.com/squalr-core/scanengine/datatype"
)

// vectorCompareFn fast-paths the single most common vector shape —
// unit-size-1 (u8/i8/byte_array-element) Equal/NotEqual against an
// immediate — with a real SIMD primitive, then tries the periodic
// kernel, and falls back to the portable per-element loop for
// everything else. This mirrors
// biosimd's texture: one hardware-accelerated hot path plus a scalar
// tail/fallback, not a fully vectorized implementation of every
// comparison.
func vectorCompareFn(dt *datatype.DataType, tag datatype.CompareTag, params datatype.VectorParams, lanes int) (datatype.VectorCompareFn, bool) {
	if fn, ok := equalityFastPathU8(dt, tag, params, lanes); ok {
		return fn, true
	}
	if fn, ok := periodicVectorCompareFn(dt, tag, params, lanes); ok {
		return fn, true
	}
	return genericVectorCompareFn(dt, tag, params, lanes)
}

func equalityFastPathU8(dt *datatype.DataType, tag datatype.CompareTag, params datatype.VectorParams, lanes int) (datatype.VectorCompareFn, bool) {
	if params.Size != 1 {
		return nil, false
	}
	if tag != datatype.CompareEqual && tag != datatype.CompareNotEqual {
		return nil, false
	}
	if len(params.Immediate) != 1 {
		return nil, false
	}
	imm := params.Immediate[0]
	want := tag == datatype.CompareEqual

	return func(current, _ unsafe.Pointer, mask []byte) {
		cur := unsafe.Slice((*byte)(current), lanes)
		copy(mask, cur)
		simd.XorConst8Inplace(mask, imm)
		for i, b := range mask {
			equal := b == 0
			if equal == want {
				mask[i] = 0xFF
			} else {
				mask[i] = 0x00
			}
		}
	}, true
}
