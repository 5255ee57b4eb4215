package dispatch

import "github.com/squalr-core/scanengine/datatype"

// Constraint is one ScanCompareType application the dispatcher runs
// against a filter collection — the operand bundle planner.Params
// needs plus the Tolerance a float kernel consults, which the planner
// itself never looks at (the plan decision doesn't depend
// on tolerance, only the kernel invocation does).
type Constraint struct {
	Tag datatype.CompareTag

	// Immediate holds the comparison value's bytes for the Immediate
	// family, sized to the filter collection's effective type.
	Immediate []byte

	// Delta holds the delta operand's bytes for the Delta family. For
	// CompareDividedByX/CompareModuloByX the dispatcher itself derives
	// planner.Params.DivisorIsZero from these bytes right before
	// planning — the caller never sets that flag directly.
	Delta []byte

	// Tolerance is consulted by float kernels for Equal/NotEqual and the
	// Delta-family comparisons; the relative family (Changed,
	// Unchanged, Increased, Decreased) ignores it.
	Tolerance datatype.Tolerance
}

func (c Constraint) scalarParams() datatype.ScalarParams {
	return datatype.ScalarParams{Immediate: c.Immediate, Delta: c.Delta, Tolerance: c.Tolerance}
}

// DivisorIsZero reports whether c is a CompareDividedByX/CompareModuloByX
// constraint whose Delta is the all-zero byte pattern — the zero value
// for both integer and IEEE-754 float encodings, so one check serves
// both kernel families. Computed here, not supplied by the caller, so
// every path that builds a planner.Params from a Constraint derives
// the same answer.
func (c Constraint) DivisorIsZero() bool {
	if c.Tag != datatype.CompareDividedByX && c.Tag != datatype.CompareModuloByX {
		return false
	}
	for _, b := range c.Delta {
		if b != 0 {
			return false
		}
	}
	return true
}
