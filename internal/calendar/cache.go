package calendar

import (
	"fmt"
	"sync"
	"time"
)

// GridCache memoizes month grids. The grid for a month never changes, so
// entries are keyed by a year-month string and evicted oldest-first once the
// capacity is reached. Purely an optimization over MonthGrid, which is cheap
// enough to call directly.
type GridCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string][][]time.Time
	order    []string
}

const defaultGridCacheSize = 24

// NewGridCache creates a cache holding up to capacity month grids.
// A capacity <= 0 falls back to a small default.
func NewGridCache(capacity int) *GridCache {
	if capacity <= 0 {
		capacity = defaultGridCacheSize
	}
	return &GridCache{
		capacity: capacity,
		entries:  make(map[string][][]time.Time, capacity),
	}
}

// MonthGrid returns the cached grid for ref's month, computing and storing
// it on a miss. Safe for concurrent use.
func (c *GridCache) MonthGrid(ref time.Time) [][]time.Time {
	key := fmt.Sprintf("%04d-%02d", ref.Year(), int(ref.Month()))

	c.mu.Lock()
	defer c.mu.Unlock()

	if grid, ok := c.entries[key]; ok {
		return grid
	}

	grid := MonthGrid(ref)
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = grid
	c.order = append(c.order, key)
	return grid
}

// Len returns the number of cached months.
func (c *GridCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
