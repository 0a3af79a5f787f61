package exeval

import (
	"github.com/bluele/gcache"
)

// compileCache holds recently compiled evaluator trees by expression text.
// Trees stay valid after more variables and functions are added, because
// existing names and addresses never change. A nil *compileCache caches
// nothing.
type compileCache struct {
	c gcache.Cache
}

func newCompileCache(size int) *compileCache {
	if size <= 0 {
		return nil
	}
	return &compileCache{c: gcache.New(size).LRU().Build()}
}

// get returns the cached tree for expr, or nil if there is none.
func (c *compileCache) get(expr string) *evalNode {
	if c == nil {
		return nil
	}
	v, err := c.c.Get(expr)
	if err != nil {
		// gcache.KeyNotFoundError is the only error without a loader.
		return nil
	}
	return v.(*evalNode)
}

func (c *compileCache) add(expr string, tree *evalNode) {
	if c == nil {
		return
	}
	// Set only fails when a serialization function fails, and there are none.
	_ = c.c.Set(expr, tree)
}

// len returns the number of cached trees.
func (c *compileCache) len() int {
	if c == nil {
		return 0
	}
	return c.c.Len(false)
}
