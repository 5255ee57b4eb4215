package dispatch

import (
	"github.com/minio/highwayhash"

	"github.com/squalr-core/scanengine/datatype"
	"github.com/squalr-core/scanengine/snapshot"
)

// purityHashKey is the fixed all-zero highwayhash key used for the
// validation-mode purity checksum. There is nothing
// to keep secret here — the checksum only needs to be a cheap,
// collision-resistant fingerprint of a filter's input buffers, taken
// before and after a kernel runs over them, so any fixed key will do.
var purityHashKey [highwayhash.Size]byte

// purityChecksum fingerprints a filter's current/previous windows so
// validate can detect a kernel that mutated its inputs. Kernels are
// required to be pure per-element predicates; nothing
// in the dispatch loop ever needs to write through current or
// previous, so any change between the before and after checksum is a
// kernel bug, not a legitimate side effect.
func purityChecksum(current, previous []byte) [highwayhash.Size]byte {
	buf := make([]byte, 0, len(current)+len(previous))
	buf = append(buf, current...)
	buf = append(buf, previous...)
	return highwayhash.Sum(buf, purityHashKey[:])
}

// validate re-derives a specialized plan's result with the scalar-
// iterative shadow kernel and checks it against got, then compares the
// purity checksum taken before the specialized kernel ran (before)
// against one taken now. Either disagreement is a dispatcher or kernel
// bug — an InternalKernelMismatch, fatal under Dispatcher.Strict —
// rather than anything a caller can recover from.
func (d *Dispatcher) validate(ref datatype.DataTypeRef, tag datatype.CompareTag, sp datatype.ScalarParams, current, previous []byte, alignment int, filterBase uintptr, got []snapshot.Filter, before [highwayhash.Size]byte) error {
	if after := purityChecksum(current, previous); after != before {
		return errPurityViolation(ref, tag)
	}

	fn, ok := d.Registry.ScalarCompareFn(ref, tag, sp)
	if !ok {
		return errKernelUnavailable(ref, tag)
	}
	unitSize := d.Registry.UnitSizeInBytes(ref)
	want := scalarFullLoop(fn, current, previous, alignment, unitSize, filterBase)

	if !filtersEqual(want, got) {
		return errKernelMismatch("specialized kernel disagrees with scalar-iterative shadow")
	}
	return nil
}

func filtersEqual(a, b []snapshot.Filter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Base != b[i].Base || a[i].Size != b[i].Size {
			return false
		}
	}
	return true
}
