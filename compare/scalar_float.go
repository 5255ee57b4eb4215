package compare

import (
	"math"
	"unsafe"

	"github.com/squalr-core/scanengine/datatype"
)

// float32Epsilon and float64Epsilon are the machine epsilons picked
// for ToleranceEpsilon, sized to the kernel's element width.
const (
	float32Epsilon = 1.1920929e-7
	float64Epsilon = 2.220446049250313e-16
)

func floatScalarCompareFn(dt *datatype.DataType, tag datatype.CompareTag, params datatype.ScalarParams) (datatype.ScalarCompareFn, bool) {
	n := dt.UnitSizeInBytes
	be := dt.Endian == datatype.BigEndian
	tol := float64(params.Tolerance)
	if params.Tolerance == datatype.ToleranceEpsilon {
		if n == 4 {
			tol = float32Epsilon
		} else {
			tol = float64Epsilon
		}
	}

	load := func(p unsafe.Pointer) float64 {
		raw := loadIntegerLE(p, n)
		if be {
			raw = loadIntegerSwapped(p, n)
		}
		if n == 4 {
			return float64(math.Float32frombits(uint32(raw)))
		}
		return math.Float64frombits(raw)
	}

	switch tag.Family() {
	case datatype.FamilyImmediate:
		imm := decodeImmediateFloat(params.Immediate, n, be)
		switch tag {
		case datatype.CompareEqual:
			return func(current, _ unsafe.Pointer) bool {
				cur := load(current)
				return floatWithinTolerance(cur, imm, tol)
			}, true
		case datatype.CompareNotEqual:
			return func(current, _ unsafe.Pointer) bool {
				cur := load(current)
				return !floatWithinTolerance(cur, imm, tol)
			}, true
		case datatype.CompareGreaterThan:
			return func(current, _ unsafe.Pointer) bool { return load(current) > imm }, true
		case datatype.CompareGreaterThanOrEqual:
			return func(current, _ unsafe.Pointer) bool { return load(current) >= imm }, true
		case datatype.CompareLessThan:
			return func(current, _ unsafe.Pointer) bool { return load(current) < imm }, true
		case datatype.CompareLessThanOrEqual:
			return func(current, _ unsafe.Pointer) bool { return load(current) <= imm }, true
		}
	case datatype.FamilyRelative:
		// Changed/unchanged compare raw bit patterns — no tolerance, and
		// the big-endian byte-swap may be skipped because bitwise
		// equality is endian-invariant.
		switch tag {
		case datatype.CompareChanged:
			return rawComparePrevFn(n, false), true
		case datatype.CompareUnchanged:
			return rawComparePrevFn(n, true), true
		case datatype.CompareIncreased:
			return func(current, previous unsafe.Pointer) bool { return load(current) > load(previous) }, true
		case datatype.CompareDecreased:
			return func(current, previous unsafe.Pointer) bool { return load(current) < load(previous) }, true
		}
	case datatype.FamilyDelta:
		delta := decodeImmediateFloat(params.Delta, n, be)
		switch tag {
		case datatype.CompareIncreasedByX:
			return func(current, previous unsafe.Pointer) bool {
				return floatWithinTolerance(load(current), load(previous)+delta, tol)
			}, true
		case datatype.CompareDecreasedByX:
			// §9: the source's big-endian "decreased_by" path calls add
			// instead of sub; fixed here to match the little-endian
			// variant and use subtraction.
			return func(current, previous unsafe.Pointer) bool {
				return floatWithinTolerance(load(current), load(previous)-delta, tol)
			}, true
		case datatype.CompareMultipliedByX:
			return func(current, previous unsafe.Pointer) bool {
				return floatWithinTolerance(load(current), load(previous)*delta, tol)
			}, true
		case datatype.CompareDividedByX:
			if delta == 0 {
				return nil, false
			}
			return func(current, previous unsafe.Pointer) bool {
				return floatWithinTolerance(load(current), load(previous)/delta, tol)
			}, true
		case datatype.CompareModuloByX:
			if delta == 0 {
				return nil, false
			}
			return func(current, previous unsafe.Pointer) bool {
				return floatWithinTolerance(load(current), math.Mod(load(previous), delta), tol)
			}, true
		}
	}
	return nil, false
}

// decodeImmediateFloat decodes an immediate/delta operand stored in the
// type's own byte order, byte-swapping it when be is set.
func decodeImmediateFloat(b []byte, n int, be bool) float64 {
	raw := bytesToUintLE(b)
	if be {
		raw = swapOnWidth(raw, n)
	}
	if n == 4 {
		return float64(math.Float32frombits(uint32(raw)))
	}
	return math.Float64frombits(raw)
}

// floatWithinTolerance: NaN never matches equality, regardless of
// tolerance.
func floatWithinTolerance(current, target, tolerance float64) bool {
	if math.IsNaN(current) || math.IsNaN(target) {
		return false
	}
	diff := current - target
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
