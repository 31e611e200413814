package util

import "sync"

// GenericMap is a concurrent safe map with generic key and value types.
type GenericMap[K comparable, V any] struct {
	m sync.Map
}

func NewGenericMap[K comparable, V any]() *GenericMap[K, V] {
	return &GenericMap[K, V]{}
}

// Load returns the value stored for key. The ok result reports whether a
// value was present.
func (m *GenericMap[K, V]) Load(key K) (value V, ok bool) {
	v, loaded := m.m.Load(key)
	if !loaded {
		var zero V
		return zero, false
	}
	return v.(V), true
}

func (m *GenericMap[K, V]) Store(key K, value V) {
	m.m.Store(key, value)
}

func (m *GenericMap[K, V]) Delete(key K) {
	m.m.Delete(key)
}

func (m *GenericMap[K, V]) Range(f func(key K, value V) bool) {
	m.m.Range(func(k, v any) bool {
		return f(k.(K), v.(V))
	})
}

// DeleteIf removes every entry for which drop returns true and reports how
// many were removed.
func (m *GenericMap[K, V]) DeleteIf(drop func(key K, value V) bool) int {
	removed := 0
	m.Range(func(key K, value V) bool {
		if drop(key, value) {
			m.m.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func (m *GenericMap[K, V]) Len() int {
	n := 0
	m.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
