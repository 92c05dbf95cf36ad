package symbols

import (
	"sync"

	"cstyle/internal/syntax"
)

// Cache memoizes class indexes per path for the lifetime of one run.
// It is safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	byPath map[string]*Index
}

func NewCache() *Cache {
	return &Cache{byPath: make(map[string]*Index)}
}

// Get returns the index for path, building it from root on first use.
// Later calls for the same path return the first index even if root differs.
func (c *Cache) Get(path string, root *syntax.Node) *Index {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ix, ok := c.byPath[path]; ok {
		return ix
	}
	ix := Load(path, root)
	c.byPath[path] = ix
	return ix
}

// Forget drops the index of path, e.g. after fixes rewrote the file.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	delete(c.byPath, path)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byPath)
}
