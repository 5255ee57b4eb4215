package memquery

import "context"

// Process is an opaque handle to an attached target; the core never
// interprets it beyond passing it back to a Queryer.
type Process interface {
	// PID returns the target's process identifier, used only for
	// logging.
	PID() int
}

// Queryer is the external collaborator contract the scan core
// consumes. Implementations are platform-specific
// (Windows/Linux/macOS page enumerators); none ships in this module —
// only the interface and an in-process Fake for tests, since no
// OS-specific backend is in scope here.
type Queryer interface {
	// GetAllVirtualPages returns every readable, committed usermode
	// page in process.
	GetAllVirtualPages(ctx context.Context, process Process) ([]Region, error)

	// GetVirtualPages returns pages matching the given protection
	// filters and type, restricted to rng under the given bounds
	// policy.
	GetVirtualPages(ctx context.Context, process Process, required, excluded Protection, allowedType Type, rng AddressRange, bounds BoundsHandling) ([]Region, error)

	// ReadBytes performs a best-effort read; it may fail for
	// individual pages without affecting others.
	ReadBytes(ctx context.Context, process Process, address uintptr, length int) ([]byte, error)

	// IsAddressWritable reports whether address is currently writable.
	IsAddressWritable(ctx context.Context, process Process, address uintptr) (bool, error)

	// GetModules returns every loaded module in process.
	GetModules(ctx context.Context, process Process) ([]Module, error)

	// AddressToModule returns the module containing address, or
	// (Module{}, false) if address is not within any known module.
	AddressToModule(ctx context.Context, process Process, address uintptr) (Module, bool)

	// ResolveModule looks up a module by name.
	ResolveModule(ctx context.Context, process Process, name string) (Module, bool)
}
