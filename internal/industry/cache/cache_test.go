package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsned/industry-planner/internal/industry/logging"
)

type sample struct {
	ID   int
	Name string
}

func newTestCache[V any]() *Cache[V] {
	return New[V]("test", DefaultExpiration, DefaultCleanupInterval, logging.Discard())
}

func TestCache_GetExisting(t *testing.T) {
	c := newTestCache[sample]()
	c.Set("s:1", sample{ID: 1, Name: "rifter"})

	got, ok := c.Get("s:1")
	require.True(t, ok)
	require.Equal(t, sample{ID: 1, Name: "rifter"}, got)
}

func TestCache_GetMissing(t *testing.T) {
	c := newTestCache[string]()

	got, ok := c.Get("nope")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestCache_WrongTypeIsMiss(t *testing.T) {
	c := newTestCache[string]()
	c.cache.Set("k", 123, DefaultExpiration)

	got, ok := c.Get("k")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestCache_GetOrCompute(t *testing.T) {
	c := newTestCache[int]()
	calls := 0
	compute := func() int {
		calls++
		return 42
	}

	require.Equal(t, 42, c.GetOrCompute("k", compute))
	require.Equal(t, 42, c.GetOrCompute("k", compute))
	require.Equal(t, 1, calls)
}

func TestCache_Flush(t *testing.T) {
	c := newTestCache[int]()
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	require.Equal(t, 3, c.Len())

	c.Flush()
	require.Zero(t, c.Len())
}
