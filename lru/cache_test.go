package lru

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)
	assert.Equal(t, 2, c.Len())

	// touch "a", so "b" is the oldest
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("c", 3)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("b")
	assert.False(t, ok)

	v, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	c.Put("a", 10)
	v, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Delete("missing")
	assert.Equal(t, 1, c.Len())
}

func TestCache_ZeroCapacity(t *testing.T) {
	c := New[int, string](0)

	c.Put(1, "one")
	c.Put(2, "two")

	assert.Equal(t, 1, c.Len())
	v, ok := c.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "two", v)
}
