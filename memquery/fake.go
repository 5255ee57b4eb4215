package memquery

import (
	"context"
	"fmt"
)

// FakeProcess is the Process handle Fake hands back to callers.
type FakeProcess struct {
	Pid int
}

func (p FakeProcess) PID() int { return p.Pid }

// fakePage is one simulated page: its Region plus the bytes backing
// it. Reads/writes against a Fake only ever touch this buffer.
type fakePage struct {
	region Region
	bytes  []byte
}

// Fake is a Queryer for unit tests: it serves a fixed set of
// in-process byte buffers instead of reading a real process, the way
// bamprovider.NewFakeProvider serves fixed records instead of reading
// a file.
type Fake struct {
	pages      []*fakePage
	modules    []Module
	failReads  map[uintptr]bool
	unwritable map[uintptr]bool
}

// NewFake constructs an empty Fake. Use AddPage/AddModule to populate
// it before passing it to a Coordinator.
func NewFake() *Fake {
	return &Fake{
		failReads:  map[uintptr]bool{},
		unwritable: map[uintptr]bool{},
	}
}

// AddPage registers a simulated page covering [region.Base,
// region.Base+region.Size); data is copied, and must be exactly
// region.Size bytes.
func (f *Fake) AddPage(region Region, data []byte) {
	if len(data) != region.Size {
		panic(fmt.Sprintf("memquery: AddPage region size %d does not match data length %d", region.Size, len(data)))
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	f.pages = append(f.pages, &fakePage{region: region, bytes: buf})
}

// AddModule registers a simulated loaded module.
func (f *Fake) AddModule(m Module) {
	f.modules = append(f.modules, m)
}

// FailReadAt marks address as causing ReadBytes to fail — used to
// exercise the RegionReadFailed recovery path.
func (f *Fake) FailReadAt(address uintptr) {
	f.failReads[address] = true
}

// SetUnwritable marks address as not writable.
func (f *Fake) SetUnwritable(address uintptr) {
	f.unwritable[address] = true
}

// MutatePage overwrites the live bytes backing the page starting at
// base, simulating the target process changing between scans.
func (f *Fake) MutatePage(base uintptr, data []byte) {
	for _, p := range f.pages {
		if p.region.Base == base {
			copy(p.bytes, data)
			return
		}
	}
	panic(fmt.Sprintf("memquery: MutatePage found no page at 0x%x", base))
}

func (f *Fake) GetAllVirtualPages(_ context.Context, _ Process) ([]Region, error) {
	out := make([]Region, len(f.pages))
	for i, p := range f.pages {
		out[i] = p.region
	}
	return out, nil
}

func (f *Fake) GetVirtualPages(_ context.Context, _ Process, required, excluded Protection, allowedType Type, rng AddressRange, bounds BoundsHandling) ([]Region, error) {
	var out []Region
	for _, p := range f.pages {
		r := p.region
		if !r.Protection.Has(required) || r.Protection.HasAny(excluded) {
			continue
		}
		if allowedType != TypeNone && r.Type != allowedType {
			continue
		}
		clipped, ok := clipToRange(r, rng, bounds)
		if !ok {
			continue
		}
		out = append(out, clipped)
	}
	return out, nil
}

func clipToRange(r Region, rng AddressRange, bounds BoundsHandling) (Region, bool) {
	if r.Base >= rng.Base && r.End() <= rng.End() {
		return r, true
	}
	if !r.Overlaps(Region{Base: rng.Base, Size: rng.Size}) {
		return Region{}, false
	}
	switch bounds {
	case BoundsExclude:
		return Region{}, false
	case BoundsInclude:
		return r, true
	default: // BoundsResize
		base := r.Base
		if base < rng.Base {
			base = rng.Base
		}
		end := r.End()
		if end > rng.End() {
			end = rng.End()
		}
		if end <= base {
			return Region{}, false
		}
		clipped := r
		clipped.Base = base
		clipped.Size = int(end - base)
		return clipped, true
	}
}

func (f *Fake) ReadBytes(_ context.Context, _ Process, address uintptr, length int) ([]byte, error) {
	if f.failReads[address] {
		return nil, fmt.Errorf("memquery: simulated read failure at 0x%x", address)
	}
	for _, p := range f.pages {
		if address >= p.region.Base && address+uintptr(length) <= p.region.End() {
			off := address - p.region.Base
			out := make([]byte, length)
			copy(out, p.bytes[off:int(off)+length])
			return out, nil
		}
	}
	return nil, fmt.Errorf("memquery: no page covers [0x%x, 0x%x)", address, address+uintptr(length))
}

func (f *Fake) IsAddressWritable(_ context.Context, _ Process, address uintptr) (bool, error) {
	return !f.unwritable[address], nil
}

func (f *Fake) GetModules(_ context.Context, _ Process) ([]Module, error) {
	out := make([]Module, len(f.modules))
	copy(out, f.modules)
	return out, nil
}

func (f *Fake) AddressToModule(_ context.Context, _ Process, address uintptr) (Module, bool) {
	for _, m := range f.modules {
		if address >= m.Base && address < m.Base+uintptr(m.Size) {
			return m, true
		}
	}
	return Module{}, false
}

func (f *Fake) ResolveModule(_ context.Context, _ Process, name string) (Module, bool) {
	for _, m := range f.modules {
		if m.Name == name {
			return m, true
		}
	}
	return Module{}, false
}
