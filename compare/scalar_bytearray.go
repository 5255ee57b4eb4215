package compare

import (
	"unsafe"

	"github.com/squalr-core/scanengine/datatype"
)

// byteArrayScalarCompareFn builds the scalar kernel for byte_array
// elements. Equal/NotEqual/Changed/Unchanged are lexicographic;
// Greater/Less compare element-wise "all bytes greater/less" rather
// than lexicographic order — this non-standard behavior is preserved
// deliberately rather than "fixed" to the lexicographic reading. The
// delta family wraps each byte
// independently (mod 256), since a byte array has no single integer
// value to carry a multi-byte carry through.
func byteArrayScalarCompareFn(dt *datatype.DataType, tag datatype.CompareTag, params datatype.ScalarParams) (datatype.ScalarCompareFn, bool) {
	n := params.Size
	if n == 0 {
		return nil, false
	}

	switch tag {
	case datatype.CompareEqual:
		return rawEqualFn(n, params.Immediate, true), true
	case datatype.CompareNotEqual:
		return rawEqualFn(n, params.Immediate, false), true
	case datatype.CompareChanged:
		return rawComparePrevFn(n, false), true
	case datatype.CompareUnchanged:
		return rawComparePrevFn(n, true), true
	case datatype.CompareGreaterThan, datatype.CompareGreaterThanOrEqual, datatype.CompareLessThan, datatype.CompareLessThanOrEqual:
		imm := params.Immediate
		orEqual := tag == datatype.CompareGreaterThanOrEqual || tag == datatype.CompareLessThanOrEqual
		greater := tag == datatype.CompareGreaterThan || tag == datatype.CompareGreaterThanOrEqual
		return func(current, _ unsafe.Pointer) bool {
			cur := unsafe.Slice((*byte)(current), n)
			for i := 0; i < n; i++ {
				if greater {
					if orEqual {
						if cur[i] < imm[i] {
							return false
						}
					} else if cur[i] <= imm[i] {
						return false
					}
				} else {
					if orEqual {
						if cur[i] > imm[i] {
							return false
						}
					} else if cur[i] >= imm[i] {
						return false
					}
				}
			}
			return true
		}, true
	case datatype.CompareIncreasedByX, datatype.CompareDecreasedByX,
		datatype.CompareLogicalAndByX, datatype.CompareLogicalOrByX, datatype.CompareLogicalXorByX:
		delta := params.Delta
		return func(current, previous unsafe.Pointer) bool {
			cur := unsafe.Slice((*byte)(current), n)
			prev := unsafe.Slice((*byte)(previous), n)
			for i := 0; i < n; i++ {
				var expect byte
				switch tag {
				case datatype.CompareIncreasedByX:
					expect = prev[i] + delta[i]
				case datatype.CompareDecreasedByX:
					expect = prev[i] - delta[i]
				case datatype.CompareLogicalAndByX:
					expect = prev[i] & delta[i]
				case datatype.CompareLogicalOrByX:
					expect = prev[i] | delta[i]
				default:
					expect = prev[i] ^ delta[i]
				}
				if cur[i] != expect {
					return false
				}
			}
			return true
		}, true
	}
	return nil, false
}
