package snapshot

import "sort"

// Snapshot is an ordered set of regions covering disjoint intervals of
// a target process's address space. The Coordinator
// creates one per Attach and, after each NewScan/NextScan completes,
// replaces it with a new Snapshot whose regions have been committed
// (previous values take a copy of current values).
type Snapshot struct {
	regions []*Region
}

// New builds a Snapshot from regions, sorted ascending by base.
func New(regions []*Region) *Snapshot {
	s := &Snapshot{regions: append([]*Region(nil), regions...)}
	sort.Slice(s.regions, func(i, j int) bool { return s.regions[i].Base < s.regions[j].Base })
	return s
}

// Regions returns the snapshot's regions in ascending base order.
func (s *Snapshot) Regions() []*Region {
	out := make([]*Region, len(s.regions))
	copy(out, s.regions)
	return out
}

// TotalFilterCount sums the number of surviving filters across every
// region and collection — used to report a scan's result count without
// the caller re-walking every region itself.
func (s *Snapshot) TotalFilterCount() int {
	total := 0
	for _, r := range s.regions {
		for _, fc := range r.filters {
			total += fc.Len()
		}
	}
	return total
}

// Commit swaps previous_values := current_values on every region, per
// the per-region atomic commit.
func (s *Snapshot) Commit() {
	for _, r := range s.regions {
		r.Commit()
	}
}

// RegionAt returns the region containing address, or (nil, false) if
// none does.
func (s *Snapshot) RegionAt(address uintptr) (*Region, bool) {
	i := sort.Search(len(s.regions), func(i int) bool { return s.regions[i].End() > address })
	if i == len(s.regions) || address < s.regions[i].Base {
		return nil, false
	}
	return s.regions[i], true
}
