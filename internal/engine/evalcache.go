package engine

// evalEntry is one slot of the evaluation cache.
type evalEntry struct {
	Key   uint64 // board hash tagged with the perspective, 0 = empty
	Score float64
}

// EvalCache memoizes static evaluations by board hash. The search is single
// threaded so the table carries no locks.
type EvalCache struct {
	entries []evalEntry
	size    uint64
	mask    uint64

	hits   uint64
	probes uint64
}

// NewEvalCache creates a cache of roughly sizeMB megabytes. A size of zero
// returns nil, which callers treat as "no cache".
func NewEvalCache(sizeMB int) *EvalCache {
	if sizeMB <= 0 {
		return nil
	}
	entrySize := uint64(16)
	numEntries := roundDownToPowerOf2((uint64(sizeMB) * 1024 * 1024) / entrySize)

	return &EvalCache{
		entries: make([]evalEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a key and reports whether it was present.
func (c *EvalCache) Probe(key uint64) (float64, bool) {
	c.probes++
	e := c.entries[key&c.mask]
	if e.Key == key && key != 0 {
		c.hits++
		return e.Score, true
	}
	return 0, false
}

// Store saves a score, always replacing the slot.
func (c *EvalCache) Store(key uint64, score float64) {
	if key == 0 {
		return
	}
	c.entries[key&c.mask] = evalEntry{Key: key, Score: score}
}

// Clear empties the cache and resets its statistics.
func (c *EvalCache) Clear() {
	for i := range c.entries {
		c.entries[i] = evalEntry{}
	}
	c.hits = 0
	c.probes = 0
}

// HitRate returns the cache hit rate as a percentage.
func (c *EvalCache) HitRate() float64 {
	if c.probes == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.probes) * 100
}

// Size returns the number of slots.
func (c *EvalCache) Size() uint64 {
	return c.size
}
