// Package memquery defines the contract the scan core consumes from a
// target-process page enumerator: the core treats
// addresses, protection flags, and module metadata opaquely and never
// reaches into OS-specific APIs itself.
package memquery

// Protection is a bit-flag set over a page's access rights.
type Protection uint8

const (
	ProtectRead Protection = 1 << iota
	ProtectWrite
	ProtectExecute
	ProtectCopyOnWrite
)

// Has reports whether p grants every flag set in want.
func (p Protection) Has(want Protection) bool { return p&want == want }

// HasAny reports whether p grants any flag set in want.
func (p Protection) HasAny(want Protection) bool { return p&want != 0 }

// Type classifies the backing of a virtual memory region.
type Type uint8

const (
	TypeNone Type = iota
	TypePrivate
	TypeImage
	TypeMapped
)

// Region describes one contiguous range of a target process's address
// space, as reported by a Queryer. The core stores these opaquely;
// Protection/Type are never interpreted beyond the filters a caller
// passes to GetVirtualPages.
type Region struct {
	Base       uintptr
	Size       int
	Protection Protection
	Type       Type
}

// End returns the exclusive upper bound of r.
func (r Region) End() uintptr { return r.Base + uintptr(r.Size) }

// Overlaps reports whether r and o share any address.
func (r Region) Overlaps(o Region) bool {
	return r.Base < o.End() && o.Base < r.End()
}

// BoundsHandling controls how GetVirtualPages treats a region that
// only partially overlaps the requested address range.
type BoundsHandling uint8

const (
	// BoundsExclude drops a partially-overlapping region entirely.
	BoundsExclude BoundsHandling = iota
	// BoundsInclude keeps a partially-overlapping region at full size.
	BoundsInclude
	// BoundsResize clips a partially-overlapping region to the
	// requested range.
	BoundsResize
)

// AddressRange is a half-open [Base, Base+Size) range used to bound a
// GetVirtualPages query.
type AddressRange struct {
	Base uintptr
	Size int
}

// End returns the exclusive upper bound of r.
func (r AddressRange) End() uintptr { return r.Base + uintptr(r.Size) }

// Module describes one loaded image (executable or shared library) in
// the target process.
type Module struct {
	Name string
	Base uintptr
	Size int
}
