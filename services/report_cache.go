package services

import (
	"sync"
	"time"
)

// RowSnapshot is what the cache knows about one organization.
type RowSnapshot struct {
	Rows      []Row
	Loaded    bool
	Err       error
	FetchedAt time.Time
}

type rowCacheEntry struct {
	issued uint64
	snap   RowSnapshot
}

// RowCache keeps the last successfully fetched rows per organization and
// sequences refreshes: a fetch result is committed only if no newer
// refresh for the same organization was started after it. A failed fetch
// records the error but keeps the previous rows.
type RowCache struct {
	source RowSource
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*rowCacheEntry
}

// NewRowCache returns an empty cache over source.
func NewRowCache(source RowSource) *RowCache {
	return &RowCache{
		source:  source,
		now:     time.Now,
		entries: make(map[string]*rowCacheEntry),
	}
}

func (c *RowCache) entry(org string) *rowCacheEntry {
	e, ok := c.entries[org]
	if !ok {
		e = &rowCacheEntry{}
		c.entries[org] = e
	}
	return e
}

// Snapshot returns the current state for org without fetching.
func (c *RowCache) Snapshot(org string) RowSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry(org).snap
}

// Ensure fetches org once if it has never been loaded or failed.
func (c *RowCache) Ensure(org string) RowSnapshot {
	snap := c.Snapshot(org)
	if snap.Loaded || snap.Err != nil {
		return snap
	}
	return c.Refresh(org)
}

// Refresh fetches org and returns the resulting snapshot.
func (c *RowCache) Refresh(org string) RowSnapshot {
	seq := c.begin(org)
	rows, err := c.source.Fetch(org)
	return c.finish(org, seq, rows, err)
}

func (c *RowCache) begin(org string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(org)
	e.issued++
	return e.issued
}

func (c *RowCache) finish(org string, seq uint64, rows []Row, err error) RowSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(org)
	if seq != e.issued {
		return e.snap
	}
	if err != nil {
		e.snap.Err = err
		return e.snap
	}
	e.snap = RowSnapshot{Rows: rows, Loaded: true, FetchedAt: c.now()}
	return e.snap
}
