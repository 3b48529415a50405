package handles

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLookupRemove(t *testing.T) {

	tbl := New()

	a := tbl.Register("alpha")
	b := tbl.Register(42)

	require.NotZero(t, a)
	require.NotEqual(t, a, b)
	assert.Equal(t, 2, tbl.Len())

	s, ok := Lookup[string](tbl, a)
	require.True(t, ok)
	assert.Equal(t, "alpha", s)

	// wrong type
	_, ok = Lookup[string](tbl, b)
	assert.False(t, ok)

	v, ok := tbl.Remove(a)
	require.True(t, ok)
	assert.Equal(t, "alpha", v)

	_, ok = tbl.Remove(a)
	assert.False(t, ok)
	assert.Equal(t, 1, tbl.Len())
}

func TestConcurrentRegister(t *testing.T) {

	tbl := New()

	var wg sync.WaitGroup
	ids := make([]uintptr, 100)

	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = tbl.Register(i)
		}(i)
	}

	wg.Wait()

	seen := make(map[uintptr]bool)

	for _, id := range ids {
		assert.False(t, seen[id], "duplicate handle %d", id)
		seen[id] = true
	}

	assert.Equal(t, len(ids), tbl.Len())
}
