package snapshot

import "sort"

// Cache is the previous-snapshot-per-pid cache (C4, §4.4): the recorder
// uses it to decide what needs writing, the reader uses it to rehydrate
// deltas. The zero value is not usable; use NewCache.
//
// Ownership differs by side but not by code: the writer's Cache is its
// only reference to each cached Snapshot, while the reader's Cache entries
// are shared with the Process that collected them (Go's reference
// semantics make this the same map either way — there is no separate
// "non-owning pointer" type to model, see DESIGN.md).
type Cache struct {
	m map[uint32]*Snapshot
}

// NewCache constructs an empty previous-snapshot cache.
func NewCache() *Cache {
	return &Cache{m: make(map[uint32]*Snapshot)}
}

// Get returns the cached snapshot for pid, if any.
func (c *Cache) Get(pid uint32) (*Snapshot, bool) {
	s, ok := c.m[pid]
	return s, ok
}

// Put replaces the cached snapshot for pid.
func (c *Cache) Put(pid uint32, s *Snapshot) {
	c.m[pid] = s
}

// Delete evicts the cached snapshot for pid. The cache contains an entry
// for pid p iff the last record written/read for p was a body, never a
// killed marker (§4.4 invariant).
func (c *Cache) Delete(pid uint32) {
	delete(c.m, pid)
}

// Pids returns the currently cached pids in ascending order, the
// deterministic order the recorder uses when it must emit more than one
// killed marker in the same tick.
func (c *Cache) Pids() []uint32 {
	out := make([]uint32, 0, len(c.m))
	for pid := range c.m {
		out = append(out, pid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len reports the number of cached pids.
func (c *Cache) Len() int { return len(c.m) }
