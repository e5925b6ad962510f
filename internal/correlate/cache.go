package correlate

import (
	"container/list"
	"sync"
)

// viewCacheCapacity bounds the number of per-name views kept alive. A
// run touches one view per distinct function name; binaries with more
// distinct names than this simply rebuild the oldest views.
const viewCacheCapacity = 4096

// viewCache is a fixed-capacity LRU cache of per-name symbol views.
type viewCache struct {
	capacity int
	mu       sync.RWMutex
	items    map[string]*list.Element
	lruList  *list.List
}

type viewEntry struct {
	name string
	view *nameView
}

func newViewCache(capacity int) *viewCache {
	return &viewCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		lruList:  list.New(),
	}
}

// Get retrieves a view and marks it as recently used.
func (c *viewCache) Get(name string) (*nameView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[name]; ok {
		c.lruList.MoveToFront(elem)
		return elem.Value.(*viewEntry).view, true
	}
	return nil, false
}

// Put adds or refreshes a view, evicting the least recently used entry
// when over capacity.
func (c *viewCache) Put(name string, view *nameView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[name]; ok {
		c.lruList.MoveToFront(elem)
		elem.Value.(*viewEntry).view = view
		return
	}

	elem := c.lruList.PushFront(&viewEntry{name: name, view: view})
	c.items[name] = elem

	if c.lruList.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *viewCache) evictOldest() {
	elem := c.lruList.Back()
	if elem != nil {
		c.lruList.Remove(elem)
		delete(c.items, elem.Value.(*viewEntry).name)
	}
}

// Len returns the current number of cached views.
func (c *viewCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lruList.Len()
}
