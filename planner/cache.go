package planner

import (
	"strconv"
	"sync"

	farm "github.com/dgryski/go-farm"

	"github.com/squalr-core/scanengine/datatype"
)

// Cache memoizes Plan() by a farm hash of its (DataTypeRef, alignment,
// ScanCompareType, immediate bytes) tuple: a single scan plans the
// same (type, alignment, compare) pair for thousands of filters, and
// periodicity recomputation is the one part of Plan that isn't O(1),
// so skipping it on a cache hit matters at scale. The hash keys a
// plain map rather than a sharded structure, since a scan-wide cache
// has no sharding need.
type Cache struct {
	reg *datatype.Registry

	mu      sync.RWMutex
	entries map[uint64]Plan
}

// NewCache builds a Cache backed by reg.
func NewCache(reg *datatype.Registry) *Cache {
	return &Cache{reg: reg, entries: make(map[uint64]Plan)}
}

// Plan returns the memoized plan for (filter.Size, p), computing and
// storing it on a miss. filter.Base is deliberately excluded from the
// key — a plan depends only on the filter's size, not its address.
func (c *Cache) Plan(filter FilterExtent, p Params) (Plan, error) {
	key := cacheKey(filter, p)

	c.mu.RLock()
	plan, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return plan, nil
	}

	plan, err := Plan(c.reg, filter, p)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = plan
	c.mu.Unlock()
	return plan, nil
}

func cacheKey(filter FilterExtent, p Params) uint64 {
	buf := make([]byte, 0, 64)
	buf = append(buf, p.Ref.ID...)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(p.Ref.Metadata.ContainerLength), 10)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(p.Ref.Metadata.StringLength), 10)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(p.Alignment), 10)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(p.Tag), 10)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(filter.Size), 10)
	buf = append(buf, ':')
	buf = append(buf, p.Immediate...)
	buf = append(buf, ':')
	buf = append(buf, p.Delta...)
	buf = append(buf, ':')
	if p.DivisorIsZero {
		buf = append(buf, 1)
	}
	return farm.Hash64(buf)
}
