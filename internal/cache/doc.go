// Package cache provides a size-bounded LRU cache with an eviction hook.
//
// The hook runs for every entry that leaves the cache (capacity eviction,
// Delete, replacement by Set, Clear), which lets the owner release resources
// held by cached values. It is called after the cache lock is dropped.
package cache
