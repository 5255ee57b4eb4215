package compare

import (
	"unsafe"

	"github.com/squalr-core/scanengine/datatype"
)

// integerScalarCompareFn builds the scalar kernel for integer types,
// honoring the big-endian ordering trick: equality and
// inequality compare raw little-order bytes (byte order is irrelevant
// for equality), while ordering comparisons and delta arithmetic
// byte-swap on load so the arithmetic operates on the true value.
func integerScalarCompareFn(dt *datatype.DataType, tag datatype.CompareTag, params datatype.ScalarParams) (datatype.ScalarCompareFn, bool) {
	n := dt.UnitSizeInBytes
	be := dt.Endian == datatype.BigEndian
	signed := dt.Signed
	bits := n * 8

	load := func(p unsafe.Pointer) uint64 {
		if be {
			return loadIntegerSwapped(p, n)
		}
		return loadIntegerLE(p, n)
	}

	ordered := func(raw uint64) int64 {
		if signed {
			return signExtendUint(raw, bits)
		}
		return int64(raw)
	}

	switch tag.Family() {
	case datatype.FamilyImmediate:
		imm := bytesToUintLE(params.Immediate)
		switch tag {
		case datatype.CompareEqual:
			return rawEqualFn(n, params.Immediate, true), true
		case datatype.CompareNotEqual:
			return rawEqualFn(n, params.Immediate, false), true
		case datatype.CompareGreaterThan, datatype.CompareGreaterThanOrEqual, datatype.CompareLessThan, datatype.CompareLessThanOrEqual:
			immLoaded := imm
			if be {
				immLoaded = swapOnWidth(imm, n)
			}
			want := ordered(immLoaded)
			return func(current, _ unsafe.Pointer) bool {
				cur := ordered(load(current))
				return applyOrdering(tag, cur, want)
			}, true
		}
	case datatype.FamilyRelative:
		switch tag {
		case datatype.CompareChanged:
			return rawComparePrevFn(n, false), true
		case datatype.CompareUnchanged:
			return rawComparePrevFn(n, true), true
		case datatype.CompareIncreased, datatype.CompareDecreased:
			return func(current, previous unsafe.Pointer) bool {
				cur := ordered(load(current))
				prev := ordered(load(previous))
				if tag == datatype.CompareIncreased {
					return cur > prev
				}
				return cur < prev
			}, true
		}
	case datatype.FamilyDelta:
		mask := maskForBits(bits)
		delta := bytesToUintLE(params.Delta)
		if be {
			delta = swapOnWidth(delta, n)
		}
		return func(current, previous unsafe.Pointer) bool {
			cur := load(current) & mask
			prev := load(previous) & mask
			var expect uint64
			switch tag {
			case datatype.CompareIncreasedByX:
				expect = (prev + delta) & mask
			case datatype.CompareDecreasedByX:
				expect = (prev - delta) & mask
			case datatype.CompareMultipliedByX:
				expect = (prev * delta) & mask
			case datatype.CompareDividedByX:
				if delta == 0 {
					return false
				}
				expect = (prev / delta) & mask
			case datatype.CompareModuloByX:
				if delta == 0 {
					return false
				}
				expect = (prev % delta) & mask
			case datatype.CompareShiftLeftByX:
				expect = (prev << (delta % uint64(bits))) & mask
			case datatype.CompareShiftRightByX:
				expect = (prev >> (delta % uint64(bits))) & mask
			case datatype.CompareLogicalAndByX:
				expect = (prev & delta) & mask
			case datatype.CompareLogicalOrByX:
				expect = (prev | delta) & mask
			case datatype.CompareLogicalXorByX:
				expect = (prev ^ delta) & mask
			default:
				return false
			}
			return cur == expect
		}, true
	}
	return nil, false
}

// swapOnWidth reorders the low n bytes of v as a byte-swap, used to
// bring an already little-endian-packed immediate/delta operand into
// the same "true value" domain as a byte-swapped big-endian load.
func swapOnWidth(v uint64, n int) uint64 {
	switch n {
	case 2:
		return uint64(swap16(uint16(v)))
	case 4:
		return uint64(swap32(uint32(v)))
	case 8:
		return swap64(v)
	default:
		return v
	}
}

func applyOrdering(tag datatype.CompareTag, cur, want int64) bool {
	switch tag {
	case datatype.CompareGreaterThan:
		return cur > want
	case datatype.CompareGreaterThanOrEqual:
		return cur >= want
	case datatype.CompareLessThan:
		return cur < want
	default:
		return cur <= want
	}
}

// rawEqualFn compares the first n bytes at current against imm
// byte-for-byte; equal reports the CompareEqual result when want is
// true, CompareNotEqual's when false.
func rawEqualFn(n int, imm []byte, want bool) datatype.ScalarCompareFn {
	return func(current, _ unsafe.Pointer) bool {
		cur := unsafe.Slice((*byte)(current), n)
		for i := 0; i < n; i++ {
			if cur[i] != imm[i] {
				return !want
			}
		}
		return want
	}
}

// rawComparePrevFn compares current's bytes against previous's;
// want==true implements Unchanged, want==false implements Changed.
func rawComparePrevFn(n int, want bool) datatype.ScalarCompareFn {
	return func(current, previous unsafe.Pointer) bool {
		cur := unsafe.Slice((*byte)(current), n)
		prev := unsafe.Slice((*byte)(previous), n)
		for i := 0; i < n; i++ {
			if cur[i] != prev[i] {
				return !want
			}
		}
		return want
	}
}
