package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sig(i int) string { return fmt.Sprintf("S%d", i) }

func TestNewCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Capacity())
	assert.Equal(t, DefaultCapacity, New(-3).Capacity())
	assert.Equal(t, 4, New(4).Capacity())
}

func TestLookupMiss(t *testing.T) {
	c := New(4)
	_, ok := c.Lookup("nothing")
	assert.False(t, ok)
}

func TestStoreEvictsOldest(t *testing.T) {
	c := New(16)
	for i := 1; i <= 17; i++ {
		c.Store(sig(i), i)
	}

	_, ok := c.Lookup("S1")
	assert.False(t, ok, "S1 should be evicted")

	got, ok := c.Lookup("S17")
	require.True(t, ok)
	assert.Equal(t, 17, got)

	got, ok = c.Lookup("S2")
	require.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 16, c.Len())

	assert.Equal(t, 1, c.Invalidate("S5"))
	_, ok = c.Lookup("S5")
	assert.False(t, ok)
	assert.Equal(t, 15, c.Len())
}

func TestLookupDoesNotRefresh(t *testing.T) {
	c := New(2)
	c.Store("a", 1)
	c.Store("b", 2)

	_, ok := c.Lookup("a")
	require.True(t, ok)

	c.Store("c", 3)
	_, ok = c.Lookup("a")
	assert.False(t, ok, "FIFO eviction ignores lookups")
	assert.Equal(t, []string{"b", "c"}, c.Signatures())
}

func TestLookupReturnsNewest(t *testing.T) {
	c := New(4)
	c.Store("a", "old")
	c.Store("b", 0)
	c.Store("a", "new")

	got, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "new", got)
	assert.Equal(t, []string{"a", "b", "a"}, c.Signatures())
}

func TestInvalidateRemovesEveryMatch(t *testing.T) {
	c := New(8)
	c.Store("a", 1)
	c.Store("b", 2)
	c.Store("a", 3)
	c.Store("c", 4)

	assert.Equal(t, 2, c.Invalidate("a"))
	assert.Equal(t, []string{"b", "c"}, c.Signatures())
	assert.Equal(t, 0, c.Invalidate("a"))
	assert.Equal(t, 0, c.Invalidate("missing"))
}

func TestStoreAfterInvalidate(t *testing.T) {
	c := New(2)
	c.Store("a", 1)
	c.Invalidate("a")
	c.Store("a", 2)

	got, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestNilResultIsStored(t *testing.T) {
	c := New(2)
	c.Store("nil", nil)
	got, ok := c.Lookup("nil")
	assert.True(t, ok)
	assert.Nil(t, got)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(DefaultCapacity)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s := sig(w*1000 + i%20)
				c.Store(s, i)
				c.Lookup(s)
				if i%7 == 0 {
					c.Invalidate(s)
				}
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), DefaultCapacity)
}
