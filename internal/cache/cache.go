package cache

import "sync"

// Cache is a thread-safe LRU cache holding at most capacity entries.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*lruNode[K, V]
	order    lruList[K, V]
	capacity int
	onEvict  func(K, V)

	hits   uint64
	misses uint64
}

// New creates a cache holding at most capacity entries. A capacity <= 0
// means unlimited. onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*lruNode[K, V]),
		capacity: capacity,
		onEvict:  onEvict,
	}
}

// Get retrieves a value and marks it as recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(n)
	return n.value, true
}

// Set stores a value, replacing any previous value for key, and evicts the
// least recently used entries beyond capacity.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	var evicted []*lruNode[K, V]
	if n, ok := c.entries[key]; ok {
		evicted = append(evicted, &lruNode[K, V]{key: key, value: n.value})
		n.value = value
		c.order.moveToFront(n)
	} else {
		n := &lruNode[K, V]{key: key, value: value}
		c.entries[key] = n
		c.order.pushFront(n)
	}
	for c.capacity > 0 && c.order.len > c.capacity {
		oldest := c.order.tail
		c.order.unlink(oldest)
		delete(c.entries, oldest.key)
		evicted = append(evicted, oldest)
	}
	c.mu.Unlock()

	c.evict(evicted)
}

// Delete removes an entry. Returns true if the entry was found.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	n, ok := c.entries[key]
	if ok {
		c.order.unlink(n)
		delete(c.entries, key)
	}
	c.mu.Unlock()

	if ok {
		c.evict([]*lruNode[K, V]{n})
	}
	return ok
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	evicted := make([]*lruNode[K, V], 0, len(c.entries))
	for n := c.order.head; n != nil; n = n.next {
		evicted = append(evicted, n)
	}
	c.entries = make(map[K]*lruNode[K, V])
	c.order = lruList[K, V]{}
	c.mu.Unlock()

	c.evict(evicted)
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:      len(c.entries),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

func (c *Cache[K, V]) evict(nodes []*lruNode[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, n := range nodes {
		c.onEvict(n.key, n.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the maximum number of entries, 0 for unlimited.
	Capacity int
	// Hits is the number of successful lookups.
	Hits uint64
	// Misses is the number of failed lookups.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0.0 to 1.0.
	HitRate float64
}
