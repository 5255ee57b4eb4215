// +build !amd64

package compare

import "github.com/squalr-core/scanengine/datatype"

// vectorCompareFn is the non-amd64 entry point: the periodic kernel is
// used where it applies, and every other lane width and comparison
// reduces to the portable per-element scalar loop.
func vectorCompareFn(dt *datatype.DataType, tag datatype.CompareTag, params datatype.VectorParams, lanes int) (datatype.VectorCompareFn, bool) {
	if fn, ok := periodicVectorCompareFn(dt, tag, params, lanes); ok {
		return fn, true
	}
	return genericVectorCompareFn(dt, tag, params, lanes)
}
