// Package dispatch implements the scan dispatcher: it
// walks a region's filter collections against a sequence of
// constraints, resolves each filter to a planner.Plan, invokes the
// kernel the plan names, and feeds the result back through the
// run-length encoder to produce the next generation of filters.
//
// Parallelism follows from the fact that filters within one (collection,
// constraint) pass are independent and run concurrently via
// traverse.Each, merged back into input order by the single goroutine
// that called Dispatcher.Run — grounded on pileup/snp/pileup.go's
// shard-parallel reduce.
package dispatch

import (
	"context"
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/minio/highwayhash"

	"github.com/squalr-core/scanengine/datatype"
	"github.com/squalr-core/scanengine/planner"
	"github.com/squalr-core/scanengine/snapshot"
)

// Dispatcher runs scans against a region's filter collections. It
// holds no per-scan state, so a single Dispatcher is reused across a
// session's whole lifetime.
type Dispatcher struct {
	// Registry resolves kernels; shared read-only across every worker
	// goroutine (datatype.Registry's own contract).
	Registry *datatype.Registry

	// Plans memoizes planner.Plan per (type, alignment, compare,
	// filter size).
	Plans *planner.Cache

	// Parallelism bounds how many filters within one collection run
	// concurrently; values less than 1 are treated as 1 (sequential).
	Parallelism int

	// Validate, when true, re-derives every specialized kernel's result
	// with the scalar-iterative shadow kernel and checks a highwayhash
	// purity checksum across the invocation, raising
	// InternalKernelMismatch on drift. Intended for tests and
	// diagnostic builds, not production scans at scale.
	Validate bool

	// Strict escalates a Validate disagreement to a fatal error instead
	// of logging it and keeping the specialized kernel's result. Has no
	// effect unless Validate is also true.
	Strict bool
}

// Run applies constraints, in order, to every filter collection
// attached to region, replacing each collection with the filters that
// survived all of them. A collection that reaches zero filters before
// the last constraint is left empty rather than iterated further.
func (d *Dispatcher) Run(ctx context.Context, region *snapshot.Region, constraints []Constraint) error {
	for _, fc := range region.FilterCollections() {
		next, err := d.runCollection(ctx, region, fc, constraints)
		if err != nil {
			return err
		}
		if err := region.AttachFilterCollection(next); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) runCollection(ctx context.Context, region *snapshot.Region, fc *snapshot.FilterCollection, constraints []Constraint) (*snapshot.FilterCollection, error) {
	cur := fc.Flatten()
	for _, c := range constraints {
		if err := ctx.Err(); err != nil {
			return nil, errCancelled(err)
		}
		if len(cur) == 0 {
			break
		}
		next, err := d.runConstraint(ctx, region, fc.Ref(), fc.Alignment(), c, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return snapshot.NewFilterCollection(fc.Ref(), fc.Alignment(), region.Base, region.Size(), cur)
}

// runConstraint fans out over cur's filters via traverse.Each —
// independent work, merged back in input order regardless of which
// goroutine finishes first.
func (d *Dispatcher) runConstraint(ctx context.Context, region *snapshot.Region, ref datatype.DataTypeRef, alignment datatype.MemoryAlignment, c Constraint, cur []snapshot.Filter) ([]snapshot.Filter, error) {
	parallelism := d.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	perFilter := make([][]snapshot.Filter, len(cur))
	err := traverse.Each(parallelism, func(i int) error {
		if err := ctx.Err(); err != nil {
			return errCancelled(err)
		}
		out, err := d.runFilter(region, ref, alignment, c, cur[i])
		if err != nil {
			return err
		}
		perFilter[i] = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	var merged []snapshot.Filter
	for _, fs := range perFilter {
		merged = append(merged, fs...)
	}
	return merged, nil
}

// runFilter plans f and invokes the kernel the plan names, then
// validates it against the scalar-iterative shadow kernel and a
// purity checksum when d.Validate.
func (d *Dispatcher) runFilter(region *snapshot.Region, ref datatype.DataTypeRef, alignment datatype.MemoryAlignment, c Constraint, f snapshot.Filter) ([]snapshot.Filter, error) {
	off, ok := region.CurrentValuesPointerOffset(f.Base)
	if !ok || off+f.Size > len(region.CurrentValues) {
		return nil, errRegionEscape(f.Base, f.Size, region.Base, region.Size())
	}
	current := region.CurrentValues[off : off+f.Size]
	previous := region.PreviousValues[off : off+f.Size]

	plan, err := d.Plans.Plan(planner.FilterExtent{Base: f.Base, Size: f.Size}, planner.Params{
		Ref:           ref,
		Alignment:     alignment,
		Tag:           c.Tag,
		Immediate:     c.Immediate,
		Delta:         c.Delta,
		DivisorIsZero: c.DivisorIsZero(),
	})
	if err != nil {
		return nil, err
	}

	effRef := planner.EffectiveRef(d.Registry, ref)
	unitSize := d.Registry.UnitSizeInBytes(effRef)
	sp := c.scalarParams()
	sp.Size = unitSize

	var before [highwayhash.Size]byte
	if d.Validate {
		before = purityChecksum(current, previous)
	}

	var out []snapshot.Filter
	switch p := plan.(type) {
	case planner.ScalarSingleElement:
		out, err = d.scalarPlanLoop(effRef, c.Tag, sp, current, previous, int(alignment), unitSize, f.Base)

	case planner.ScalarIterative:
		out, err = d.scalarPlanLoop(effRef, c.Tag, sp, current, previous, int(alignment), unitSize, f.Base)

	case planner.VectorAligned:
		out, err = vectorAlignedLoop(d.Registry, effRef, c.Tag, sp, int(p.Lanes), current, previous, f.Base)

	case planner.VectorSparse:
		out, err = d.scalarPlanLoop(effRef, c.Tag, sp, current, previous, int(alignment), unitSize, f.Base)

	case planner.VectorOverlappingPeriodic:
		out, err = d.overlappingPlanLoop(effRef, c, sp, 1, int(p.Lanes), current, previous, int(alignment), unitSize, f.Base)

	case planner.VectorOverlappingStaggered:
		out, err = d.overlappingPlanLoop(effRef, c, sp, p.Periodicity, int(p.Lanes), current, previous, int(alignment), unitSize, f.Base)

	case planner.ByteArrayBoyerMoore:
		out, err = byteArrayLoop(d.Registry, ref, c, current, previous, int(alignment), f.Base)

	default:
		return nil, fmt.Errorf("dispatch: unhandled plan type %T", plan)
	}
	if err != nil {
		return nil, err
	}

	if d.Validate {
		if _, isScalar := plan.(planner.ScalarSingleElement); !isScalar {
			if _, isScalar := plan.(planner.ScalarIterative); !isScalar {
				if verr := d.validate(effRef, c.Tag, sp, current, previous, int(alignment), f.Base, out, before); verr != nil {
					if d.Strict {
						return nil, verr
					}
					log.Printf("dispatch: validation failure treated as non-fatal (Strict=false): %v", verr)
				}
			}
		}
	}
	return out, nil
}

// scalarPlanLoop resolves the scalar kernel for (ref, tag) and runs
// scalarFullLoop — the shared path for ScalarSingleElement,
// ScalarIterative, and VectorSparse (the last of those is "vectorized
// but spaced apart", which genericVectorCompareFn's packed-element
// assumption can't serve; see loops.go).
func (d *Dispatcher) scalarPlanLoop(ref datatype.DataTypeRef, tag datatype.CompareTag, sp datatype.ScalarParams, current, previous []byte, alignment, unitSize int, filterBase uintptr) ([]snapshot.Filter, error) {
	fn, ok := d.Registry.ScalarCompareFn(ref, tag, sp)
	if !ok {
		return nil, errKernelUnavailable(ref, tag)
	}
	return scalarFullLoop(fn, current, previous, alignment, unitSize, filterBase), nil
}

// overlappingPlanLoop handles both overlapping plan variants: Equal
// scans try the periodic vector kernel first, everything else (and
// any Equal scan the registry can't serve that way) falls back to the
// exact scalar loop, whose full-footprint masking already produces a
// correctly merged run without the periodicity adjustor's help (see
// scalarFullLoop's doc comment).
func (d *Dispatcher) overlappingPlanLoop(ref datatype.DataTypeRef, c Constraint, sp datatype.ScalarParams, periodicity, lanes int, current, previous []byte, alignment, unitSize int, filterBase uintptr) ([]snapshot.Filter, error) {
	if c.Tag == datatype.CompareEqual {
		if out, ok := periodicVectorLoop(d.Registry, ref, sp, periodicity, lanes, current, filterBase); ok {
			return out, nil
		}
	}
	return d.scalarPlanLoop(ref, c.Tag, sp, current, previous, alignment, unitSize, filterBase)
}
