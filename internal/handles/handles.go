// Package handles stores Go values that stand in for native objects and hands
// out uintptr identifiers for them.  Identifiers start at 1 so the zero value
// always means no object.
package handles

import (
	"sync"
)

// Table is a registry of values keyed by handle.  The zero Table is not
// usable, create one with New.
type Table struct {
	mu     sync.RWMutex
	values map[uintptr]any
	nextID uintptr
}

// New returns an empty handle table
func New() *Table {
	return &Table{
		values: make(map[uintptr]any),
		nextID: 1,
	}
}

// Register stores v and returns its handle
func (t *Table) Register(v any) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.values[id] = v

	return id
}

// Lookup returns the value stored under id and whether it exists
func (t *Table) Lookup(id uintptr) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.values[id]
	return v, ok
}

// Remove deletes id from the table and returns the value it held
func (t *Table) Remove(id uintptr) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.values[id]

	if ok {
		delete(t.values, id)
	}

	return v, ok
}

// Len returns the number of registered values
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}

// Lookup returns the value stored under id if it has type T
func Lookup[T any](t *Table, id uintptr) (T, bool) {

	v, ok := t.Lookup(id)

	if !ok {
		var zero T
		return zero, false
	}

	tv, ok := v.(T)
	return tv, ok
}
