package lru

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key  K
	data V
}

// Cache is a fixed size least recently used cache safe for concurrent use.
type Cache[K comparable, V any] struct {
	queue    *list.List
	items    map[K]*list.Element
	capacity int
	mx       sync.Mutex
}

func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		queue:    list.New(),
		items:    make(map[K]*list.Element, capacity),
		capacity: capacity,
	}
}

func (c *Cache[K, V]) evict() {
	back := c.queue.Back()
	if back == nil {
		return
	}
	c.queue.Remove(back)
	delete(c.items, back.Value.(*entry[K, V]).key) //nolint:forcetypeassert // only entries are stored
}

func (c *Cache[K, V]) Put(k K, v V) {
	c.mx.Lock()
	defer c.mx.Unlock()

	if el, ok := c.items[k]; ok {
		el.Value.(*entry[K, V]).data = v //nolint:forcetypeassert // only entries are stored
		c.queue.MoveToFront(el)
		return
	}

	if c.queue.Len() >= c.capacity {
		c.evict()
	}
	c.items[k] = c.queue.PushFront(&entry[K, V]{key: k, data: v})
}

func (c *Cache[K, V]) Get(k K) (v V, ok bool) { //nolint:ireturn // returns generic type param
	c.mx.Lock()
	defer c.mx.Unlock()

	el, ok := c.items[k]
	if !ok {
		return v, false
	}
	c.queue.MoveToFront(el)
	return el.Value.(*entry[K, V]).data, true //nolint:forcetypeassert // only entries are stored
}

func (c *Cache[K, V]) Delete(k K) {
	c.mx.Lock()
	defer c.mx.Unlock()

	if el, ok := c.items[k]; ok {
		c.queue.Remove(el)
		delete(c.items, k)
	}
}

func (c *Cache[K, V]) Len() int {
	c.mx.Lock()
	defer c.mx.Unlock()

	return c.queue.Len()
}
