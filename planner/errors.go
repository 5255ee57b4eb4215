package planner

import (
	"fmt"

	"github.com/grailbio/base/errors"

	"github.com/squalr-core/scanengine/datatype"
)

// errUnsupportedComparison reports a (type, compare) pair with no
// kernel — including a zero divisor/modulus for DividedByX/ModuloByX,
// which this package treats identically ("ZeroDeltaForDivMod ...
// treated as UnsupportedComparison"). Both are errors.Invalid and
// eager: the caller sees this before any region is read, never a
// silent empty-result plan.
func errUnsupportedComparison(ref datatype.DataTypeRef, tag datatype.CompareTag, reason string) error {
	return errors.E(errors.Invalid, "planner",
		fmt.Sprintf("%q does not support comparison %d: %s", ref.ID, tag, reason))
}

// ValidateComparison applies Plan's eager guards independent of any
// filter extent: a caller that wants to reject an unsupported
// comparison (or a zero divisor/modulus, treated the same way) before
// reading any region at all can call this directly instead of waiting
// for Plan to fail per-filter.
func ValidateComparison(reg *datatype.Registry, ref datatype.DataTypeRef, tag datatype.CompareTag, divisorIsZero bool) error {
	if !reg.SupportsComparison(ref, tag) {
		return errUnsupportedComparison(ref, tag, "data type does not support this comparison")
	}
	if divisorIsZero && (tag == datatype.CompareDividedByX || tag == datatype.CompareModuloByX) {
		return errUnsupportedComparison(ref, tag, "zero divisor/modulus")
	}
	return nil
}
