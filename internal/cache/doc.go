// Package cache provides a small generic LRU cache with a soft limit.
//
// It memoizes work that is expensive to repeat and keyed by a small
// value, such as compiled shader programs:
//
//	c := cache.New[shader.Kind, []uint32](8)
//	words := c.GetOrCreate(kind, compile)
//
// Cache is safe for concurrent use and must not be copied.
package cache
