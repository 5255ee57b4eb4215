// Package session implements the scan session coordinator: the state
// machine that drives "new scan" vs. "next scan" against an attached
// target process, owning the snapshot a scan's filters live in. It
// follows the validate-up-front, then staged-pipeline shape
// markduplicates uses for its own multi-phase pipeline (there is no
// options struct here; settings are exported fields), adapted to a literal
// state machine since the coordinator's lifecycle (Attach/NewScan/
// NextScan/Detach) has no close analog elsewhere in this codebase.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/sync/multierror"

	"github.com/squalr-core/scanengine/datatype"
	"github.com/squalr-core/scanengine/dispatch"
	"github.com/squalr-core/scanengine/memquery"
	"github.com/squalr-core/scanengine/planner"
	"github.com/squalr-core/scanengine/snapshot"
)

// State names one of the coordinator's lifecycle states: a process
// goes NoProcess -> Ready -> Scanning -> Ready as it is attached to,
// scanned, and scanned again.
type State uint8

const (
	StateNoProcess State = iota
	StateReady
	StateScanning
)

func (s State) String() string {
	switch s {
	case StateNoProcess:
		return "NoProcess"
	case StateReady:
		return "Ready"
	case StateScanning:
		return "Scanning"
	default:
		return "Unknown"
	}
}

// ScanResultsUpdated is emitted after every successful NewScan/NextScan
// with the resulting filter and region counts.
type ScanResultsUpdated struct {
	TotalFilterCount int
	RegionCount      int
}

// Coordinator orchestrates the scan session state machine. One
// Coordinator attaches to at most one process at a time; it is not
// safe to call Attach/NewScan/NextScan/Detach concurrently with one
// another (the state machine itself serializes them), but the
// Dispatcher it drives still parallelizes within a single scan call
// across the filters of each filter collection.
type Coordinator struct {
	// Registry resolves kernels; shared with Dispatcher.
	Registry *datatype.Registry
	// Queryer is the external memory-queryer collaborator; Fake in
	// tests, an OS-specific implementation in a real deployment (out of
	// scope here).
	Queryer memquery.Queryer
	// Dispatcher drives each region's filter collections through the
	// planner and kernel library.
	Dispatcher *dispatch.Dispatcher
	// OnUpdate, if set, is invoked after every successful scan with a
	// ScanResultsUpdated event. Called synchronously on
	// the calling goroutine, after the coordinator's internal lock is
	// released.
	OnUpdate func(ScanResultsUpdated)

	mu      sync.Mutex
	state   State
	process memquery.Process
	snap    *snapshot.Snapshot

	// lastScanReadErrors accumulates the scan's per-region read
	// failures for diagnostic inspection (LastScanReadErrors). These
	// never fail the scan itself — only logged and dropped from the
	// snapshot.
	lastScanReadErrors error
}

// NewCoordinator builds a Coordinator in StateNoProcess.
func NewCoordinator(registry *datatype.Registry, queryer memquery.Queryer, dispatcher *dispatch.Dispatcher) *Coordinator {
	return &Coordinator{Registry: registry, Queryer: queryer, Dispatcher: dispatcher, state: StateNoProcess}
}

// State returns the coordinator's current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastScanReadErrors returns the per-region read failures accumulated
// during the most recent scan, or nil if
// every region read cleanly. These never cause NewScan/NextScan to
// return an error themselves — the affected regions are simply
// dropped from the snapshot — but a caller that wants to know why its
// region count shrank can inspect this.
func (c *Coordinator) LastScanReadErrors() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastScanReadErrors
}

// Snapshot returns the coordinator's current snapshot, or nil if no
// process is attached. Callers must not mutate the returned value;
// it is owned by the coordinator and replaced wholesale after every
// scan.
func (c *Coordinator) Snapshot() *snapshot.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Attach enumerates every readable page of process via the Queryer and
// allocates a fresh Region (zero-initialized current/previous buffers)
// for each, transitioning NoProcess→Ready.
func (c *Coordinator) Attach(ctx context.Context, process memquery.Process) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateNoProcess {
		return fmt.Errorf("session: Attach requires state NoProcess, got %v", c.state)
	}

	pages, err := c.Queryer.GetAllVirtualPages(ctx, process)
	if err != nil {
		return fmt.Errorf("session: GetAllVirtualPages: %w", err)
	}
	regions := make([]*snapshot.Region, len(pages))
	for i, p := range pages {
		regions[i] = snapshot.NewRegion(p)
	}
	log.Debug.Printf("session: attached pid=%d, %d pages", process.PID(), len(regions))

	c.process = process
	c.snap = snapshot.New(regions)
	c.state = StateReady
	return nil
}

// Detach drops every region and returns to StateNoProcess.
func (c *Coordinator) Detach() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateNoProcess {
		return fmt.Errorf("session: Detach requires an attached process")
	}
	if c.state == StateScanning {
		return fmt.Errorf("session: cannot Detach while Scanning")
	}
	c.process = nil
	c.snap = nil
	c.state = StateNoProcess
	return nil
}

// NewScan starts a fresh scan of the given data type/alignment: every
// region is read from the target process, seeded with one filter
// collection covering its whole usable extent, then run through
// constraints: current values are read for every region, each region
// is dispatched, and on completion previous values become the current
// values just read. A NewScan discards any filter collection a prior
// scan left on a region — it replaces the scan target, it does not
// refine one.
func (c *Coordinator) NewScan(ctx context.Context, ref datatype.DataTypeRef, alignment datatype.MemoryAlignment, constraints []dispatch.Constraint) error {
	return c.scan(ctx, true, ref, alignment, constraints)
}

// NextScan re-applies constraints against the filter collections a
// prior NewScan/NextScan left in place, after refreshing every
// surviving region's current values from the target process; kernels
// may consult the previous values alongside the refreshed ones.
func (c *Coordinator) NextScan(ctx context.Context, constraints []dispatch.Constraint) error {
	return c.scan(ctx, false, datatype.DataTypeRef{}, 0, constraints)
}

func (c *Coordinator) scan(ctx context.Context, isNewScan bool, ref datatype.DataTypeRef, alignment datatype.MemoryAlignment, constraints []dispatch.Constraint) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return fmt.Errorf("session: scan requires state Ready, got %v", c.state)
	}
	if isNewScan {
		if err := c.Registry.ValidateRef(ref); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	snap := c.snap
	process := c.process
	c.mu.Unlock()

	refs := []datatype.DataTypeRef{ref}
	if !isNewScan {
		refs = distinctFilterRefs(snap.Regions())
	}
	// UnsupportedComparison and ZeroDeltaForDivMod are eager and total
	// (§7): reject the whole scan up front, before any region is read,
	// rather than discover the problem midway through a multi-region
	// pass.
	if err := validateConstraintsSupported(c.Registry, refs, constraints); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = StateScanning
	c.mu.Unlock()

	regions := snap.Regions()
	surviving := make([]*snapshot.Region, 0, len(regions))
	readErrs := multierror.NewMultiError(len(regions))

	for _, orig := range regions {
		if err := ctx.Err(); err != nil {
			c.abortScan()
			return errCancelled(err)
		}

		data, err := c.Queryer.ReadBytes(ctx, process, orig.Base, orig.Size())
		if err != nil {
			// RegionReadFailed: recovered locally by
			// dropping this region from the in-scan snapshot; logged,
			// never surfaced as a whole-scan failure.
			log.Error.Printf("session: region 0x%x read failed, dropping from snapshot: %v", orig.Base, err)
			readErrs.Add(fmt.Errorf("region 0x%x: %w", orig.Base, err))
			continue
		}
		// Work against a clone so a cancellation or later region's
		// failure never leaves orig (still reachable from the pre-scan
		// snapshot if this call aborts) mutated.
		region := orig.Clone()
		copy(region.CurrentValues, data)

		if isNewScan {
			region.ResetFilterCollections()
			seed, serr := seedFullRegionFilters(region.Base, region.Size(), alignment)
			if serr != nil {
				c.abortScan()
				return serr
			}
			fc, ferr := snapshot.NewFilterCollection(ref, alignment, region.Base, region.Size(), seed)
			if ferr != nil {
				c.abortScan()
				return ferr
			}
			if aerr := region.AttachFilterCollection(fc); aerr != nil {
				c.abortScan()
				return aerr
			}
		}

		if len(region.FilterCollections()) == 0 {
			// Nothing to scan in this region (e.g. too small for even
			// one aligned element); keep it in the snapshot as-is so a
			// future NewScan can still target it.
			surviving = append(surviving, region)
			continue
		}

		if err := c.Dispatcher.Run(ctx, region, constraints); err != nil {
			c.abortScan()
			return err
		}
		surviving = append(surviving, region)
	}

	for _, region := range surviving {
		region.Commit()
	}
	newSnap := snapshot.New(surviving)

	c.mu.Lock()
	c.snap = newSnap
	c.state = StateReady
	c.lastScanReadErrors = readErrs.ErrorOrNil()
	c.mu.Unlock()

	if c.OnUpdate != nil {
		c.OnUpdate(ScanResultsUpdated{
			TotalFilterCount: newSnap.TotalFilterCount(),
			RegionCount:      len(surviving),
		})
	}
	// RegionReadFailed is recovered locally: the affected
	// region is already dropped from newSnap above, and logged at the
	// point of failure. It must not fail the scan call itself.
	return nil
}

// abortScan returns the coordinator to StateReady without touching its
// snapshot: after a cancelled or failed scan, the snapshot's filter
// set equals its pre-scan filter set. scan works on clones and commits
// none of them until every region in the pass has been read and
// dispatched, so there is nothing to roll back.
func (c *Coordinator) abortScan() {
	c.mu.Lock()
	c.state = StateReady
	c.mu.Unlock()
}

// distinctFilterRefs collects the distinct data type refs already
// attached to regions' filter collections, for a NextScan's pre-flight
// comparison check (NextScan itself carries no ref — it reuses
// whatever collections a prior NewScan/NextScan left in place).
func distinctFilterRefs(regions []*snapshot.Region) []datatype.DataTypeRef {
	seen := map[string]bool{}
	var refs []datatype.DataTypeRef
	for _, r := range regions {
		for _, fc := range r.FilterCollections() {
			ref := fc.Ref()
			if !seen[ref.ID] {
				seen[ref.ID] = true
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// validateConstraintsSupported applies planner.ValidateComparison to
// every (ref, constraint) pair before any region is read, so an
// unsupported comparison or a zero divisor/modulus is caller-visible
// immediately instead of surfacing mid-scan from whichever region's
// filter collection first triggers it.
func validateConstraintsSupported(reg *datatype.Registry, refs []datatype.DataTypeRef, constraints []dispatch.Constraint) error {
	for _, ref := range refs {
		eff := planner.EffectiveRef(reg, ref)
		for _, c := range constraints {
			if err := planner.ValidateComparison(reg, eff, c.Tag, c.DivisorIsZero()); err != nil {
				return err
			}
		}
	}
	return nil
}

// seedFullRegionFilters builds the single Filter a NewScan seeds a
// region with: the region's whole extent, trimmed down to a whole
// number of alignment-wide elements, since every filter's size must be
// a whole multiple of its memory alignment. A region too small to hold
// even one aligned element yields no filters at all.
func seedFullRegionFilters(base uintptr, size int, alignment datatype.MemoryAlignment) ([]snapshot.Filter, error) {
	if alignment == 0 {
		return nil, fmt.Errorf("session: alignment must be nonzero")
	}
	usable := size - (size % int(alignment))
	if usable <= 0 {
		return nil, nil
	}
	return []snapshot.Filter{{Base: base, Size: usable}}, nil
}
