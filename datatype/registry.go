package datatype

import (
	"fmt"
	"sync"
	"unsafe"
)

// DataValue is a typed byte container: a DataTypeRef plus exactly
// UnitSizeInBytes(ref) bytes for fixed-size types, or
// ref.Metadata-length bytes for byte_array/string_utf8.
type DataValue struct {
	Ref   DataTypeRef
	Bytes []byte
}

// ScalarCompareFn is the callable shape the registry hands the
// dispatcher for a single-element comparison: "(ptr[, prev_ptr[,
// delta]]) → bool". The delta/tolerance/immediate
// operands are already closed over by whoever built the fn (see the
// compare package), so the call site only ever supplies the two
// pointers — prev is nil (and must not be dereferenced) for
// Immediate-family comparisons.
type ScalarCompareFn func(current, previous unsafe.Pointer) bool

// VectorCompareFn is the callable shape for a lane-width vector
// comparison. It writes a 0xFF/0x00 mask byte per lane into mask
// (len(mask) == lane width) and performs no allocation, matching
// the mask semantics.
type VectorCompareFn func(current, previous unsafe.Pointer, mask []byte)

// ScalarParams bundles the operands a scalar kernel factory needs
// beyond the (DataType, CompareTag) pair: the immediate value's raw
// bytes (already sized to the type's unit size), a delta operand for
// the Delta family, and a float tolerance. Size is the resolved
// element width in bytes — for fixed-size types this always equals
// dt.UnitSizeInBytes, but for Variable types (byte_array, string) it
// comes from the originating ref's metadata, which the DataType value
// itself cannot carry since one DataType is shared across every ref
// instantiating it.
type ScalarParams struct {
	Immediate []byte
	Delta     []byte
	Tolerance Tolerance
	Size      int
}

// VectorParams extends ScalarParams with the periodicity the planner
// computed for the immediate value, consulted by overlapping-periodic
// kernel variants.
type VectorParams struct {
	ScalarParams
	Periodicity int
}

// KernelProvider is the capability-set contract a comparison kernel
// library implements and registers with a Registry. Factories return
// (nil, false) when the (DataType, CompareTag) pair has no kernel —
// an explicit "none", never a missing-method panic.
type KernelProvider interface {
	ScalarCompareFn(dt *DataType, tag CompareTag, params ScalarParams) (ScalarCompareFn, bool)
	VectorCompareFn(dt *DataType, tag CompareTag, params VectorParams, lanes int) (VectorCompareFn, bool)
}

// Registry maintains the id -> DataType and id -> SymbolicStructDefinition
// maps. New registers the built-in types. Every lookup goes through
// Get, which takes the read side of mu, and composite registration
// takes the write side, so a Registry may be shared across scan worker
// goroutines; lookups made during a scan do acquire the read lock.
type Registry struct {
	mu         sync.RWMutex
	types      map[string]*DataType
	composites map[string]*SymbolicStructDefinition
	provider   KernelProvider
}

// New constructs a Registry seeded with the built-in types and backed
// by the given kernel provider (see the compare package's
// NewProvider). Passing a nil provider is valid for tests that only
// exercise metadata operations.
func New(provider KernelProvider) *Registry {
	r := &Registry{
		types:      make(map[string]*DataType, len(builtins)),
		composites: make(map[string]*SymbolicStructDefinition),
		provider:   provider,
	}
	for id, dt := range builtins {
		r.types[id] = dt
	}
	return r
}

// RegisterComposite adds a user-defined struct type. Must be called
// before any scan begins (see Registry's cold-path/hot-path split).
func (r *Registry) RegisterComposite(def *SymbolicStructDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.composites[def.Name] = def
}

// RegisterType adds a runtime-defined primitive DataType, e.g. a
// platform-specific pointer width. Must be called before any scan
// begins.
func (r *Registry) RegisterType(dt *DataType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[dt.ID] = dt
}

// Get returns the DataType for id, or nil if unregistered.
func (r *Registry) Get(id string) *DataType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[id]
}

// GetComposite returns the composite definition for name, or nil.
func (r *Registry) GetComposite(name string) *SymbolicStructDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.composites[name]
}

// ValidateRef reports whether ref.ID resolves and its metadata is
// consistent with the registered kind (e.g. a byte_array ref must
// carry a positive ContainerLength).
func (r *Registry) ValidateRef(ref DataTypeRef) error {
	dt := r.Get(ref.ID)
	if dt == nil {
		return fmt.Errorf("datatype: %w: %q is not registered", ErrInvalidDataTypeRef, ref.ID)
	}
	if !dt.Variable {
		return nil
	}
	switch dt.Kind {
	case KindByteArray:
		if ref.Metadata.ContainerLength <= 0 {
			return fmt.Errorf("datatype: %w: byte_array ref requires a positive container length", ErrInvalidDataTypeRef)
		}
	case KindString:
		if ref.Metadata.StringLength <= 0 {
			return fmt.Errorf("datatype: %w: string ref requires a positive length", ErrInvalidDataTypeRef)
		}
	}
	return nil
}

// UnitSizeInBytes returns ref's element size, 0 if ref is invalid.
func (r *Registry) UnitSizeInBytes(ref DataTypeRef) int {
	dt := r.Get(ref.ID)
	if dt == nil {
		return 0
	}
	if !dt.Variable {
		return dt.UnitSizeInBytes
	}
	switch dt.Kind {
	case KindByteArray:
		return ref.Metadata.ContainerLength
	case KindString:
		return ref.Metadata.StringLength
	default:
		return 0
	}
}

// SupportedDisplayFormats returns the display formats ref's type
// supports, or nil if ref is invalid.
func (r *Registry) SupportedDisplayFormats(ref DataTypeRef) []DisplayFormat {
	dt := r.Get(ref.ID)
	if dt == nil {
		return nil
	}
	return dt.DisplayFormats
}

// DefaultValue returns a zero-filled DataValue for ref, or an error if
// ref is invalid.
func (r *Registry) DefaultValue(ref DataTypeRef) (DataValue, error) {
	if err := r.ValidateRef(ref); err != nil {
		return DataValue{}, err
	}
	size := r.UnitSizeInBytes(ref)
	return DataValue{Ref: ref, Bytes: make([]byte, size)}, nil
}

// SupportsComparison reports whether ref's type declares support for
// tag, independent of whether a concrete kernel can be built for the
// current parameters (e.g. zero-divisor delta scans are rejected by
// the planner even though DividedByX is nominally supported).
func (r *Registry) SupportsComparison(ref DataTypeRef, tag CompareTag) bool {
	dt := r.Get(ref.ID)
	if dt == nil {
		return false
	}
	return dt.Comparisons[tag]
}

// ScalarCompareFn resolves the scalar kernel closure for (ref, tag,
// params), or (nil, false) if unsupported or the registry has no
// kernel provider configured.
func (r *Registry) ScalarCompareFn(ref DataTypeRef, tag CompareTag, params ScalarParams) (ScalarCompareFn, bool) {
	dt := r.Get(ref.ID)
	if dt == nil || r.provider == nil || !dt.Comparisons[tag] {
		return nil, false
	}
	params.Size = r.UnitSizeInBytes(ref)
	return r.provider.ScalarCompareFn(dt, tag, params)
}

// VectorCompareFn resolves the vector kernel closure for (ref, tag,
// params, lanes), or (nil, false) if unsupported.
func (r *Registry) VectorCompareFn(ref DataTypeRef, tag CompareTag, params VectorParams, lanes int) (VectorCompareFn, bool) {
	dt := r.Get(ref.ID)
	if dt == nil || r.provider == nil || !dt.Comparisons[tag] {
		return nil, false
	}
	params.Size = r.UnitSizeInBytes(ref)
	return r.provider.VectorCompareFn(dt, tag, params, lanes)
}
