package dispatch

import (
	"fmt"

	"github.com/grailbio/base/errors"

	"github.com/squalr-core/scanengine/datatype"
)

// errKernelMismatch wraps a validation-mode disagreement between a
// specialized kernel and its scalar-iterative shadow, or a purity
// checksum drift, with the errors.Internal kind.
func errKernelMismatch(detail string) error {
	return errors.E(errors.Internal, "dispatch", "internal kernel mismatch", detail)
}

// errCancelled wraps context cancellation with the errors.Canceled
// kind: discard partial results, preserve the prior snapshot.
// RegionReadFailed is not handled here: that failure
// happens while a Reader populates a region's current_values, before
// the dispatcher ever sees it — see session.Coordinator.
func errCancelled(cause error) error {
	return errors.E(errors.Canceled, "dispatch", cause)
}

// errKernelUnavailable reports a registry/planner disagreement: the
// planner chose a plan variant that implies a kernel exists for (ref,
// tag), but the registry returned none. This is always a structural
// bug, not a validation-mode diagnostic, so it is raised regardless of
// Dispatcher.Strict.
func errKernelUnavailable(ref datatype.DataTypeRef, tag datatype.CompareTag) error {
	return errors.E(errors.Internal, "dispatch",
		fmt.Sprintf("no kernel for %q tag %d despite planner selecting a plan that requires one", ref.ID, tag))
}

// errPurityViolation reports that a kernel mutated current_values or
// previous_values while it ran — kernels are required to be pure
// per-element predicates, and the validation-mode purity checksum
// exists precisely to catch a violation of that contract before it
// corrupts a scan silently.
func errPurityViolation(ref datatype.DataTypeRef, tag datatype.CompareTag) error {
	return errors.E(errors.Internal, "dispatch",
		fmt.Sprintf("kernel for %q tag %d mutated its input buffers", ref.ID, tag))
}

// errRegionEscape reports a filter whose address range falls outside
// the region the dispatcher was asked to scan it against.
func errRegionEscape(filterBase uintptr, filterSize int, regionBase uintptr, regionSize int) error {
	return errors.E(errors.Internal, "dispatch",
		fmt.Sprintf("filter [0x%x,0x%x) escapes region [0x%x,0x%x)",
			filterBase, filterBase+uintptr(filterSize), regionBase, regionBase+uintptr(regionSize)))
}
