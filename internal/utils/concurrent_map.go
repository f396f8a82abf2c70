package utils

import "sync"

// ConcurrentMap is a map guarded by a RWMutex.
type ConcurrentMap[K comparable, V any] struct {
	dirty map[K]V
	mutex *sync.RWMutex
}

func NewConcurrentMap[K comparable, V any]() ConcurrentMap[K, V] {
	return ConcurrentMap[K, V]{
		dirty: make(map[K]V),
		mutex: &sync.RWMutex{},
	}
}

func (c *ConcurrentMap[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	val, ok := c.dirty[key]
	return val, ok
}

func (c *ConcurrentMap[K, V]) Set(key K, val V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.dirty[key] = val
}

// GetOrCreate returns the value for key, storing create() first if absent.
func (c *ConcurrentMap[K, V]) GetOrCreate(key K, create func() V) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if val, ok := c.dirty[key]; ok {
		return val, true
	}
	val := create()
	c.dirty[key] = val
	return val, false
}

// Delete removes key and returns its value.
func (c *ConcurrentMap[K, V]) Delete(key K) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	val, ok := c.dirty[key]
	delete(c.dirty, key)
	return val, ok
}

func (c *ConcurrentMap[K, V]) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.dirty)
}

// Drain empties the map and returns what it held.
func (c *ConcurrentMap[K, V]) Drain() []V {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	vals := make([]V, 0, len(c.dirty))
	for k, v := range c.dirty {
		vals = append(vals, v)
		delete(c.dirty, k)
	}
	return vals
}
