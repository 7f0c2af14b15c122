package template

import (
	"context"
	"sync"

	"card-editor/internal/product"

	"golang.org/x/sync/singleflight"
)

type cacheKey struct {
	handle string
	dims   product.Dimensions
	o      product.Orientation
}

// Cache memoizes resolved templates per handle, product dimensions and
// orientation. Definitions are fetched once per handle; concurrent misses
// share one fetch.
type Cache struct {
	src   Source
	group singleflight.Group

	mu       sync.Mutex
	defs     map[string]Definition
	gen      map[string]uint64
	resolved map[cacheKey]RenderTemplate
}

// NewCache creates a cache backed by src.
func NewCache(src Source) *Cache {
	return &Cache{
		src:      src,
		defs:     make(map[string]Definition),
		gen:      make(map[string]uint64),
		resolved: make(map[cacheKey]RenderTemplate),
	}
}

// Get returns the resolved template, loading and applying it on first use.
func (c *Cache) Get(ctx context.Context, handle string, dims product.Dimensions, o product.Orientation) (RenderTemplate, error) {
	key := cacheKey{handle: handle, dims: dims, o: o}

	c.mu.Lock()
	if rt, ok := c.resolved[key]; ok {
		c.mu.Unlock()
		return rt, nil
	}
	def, ok := c.defs[handle]
	gen := c.gen[handle]
	c.mu.Unlock()

	if !ok {
		v, err, _ := c.group.Do(handle, func() (interface{}, error) {
			return c.src.Load(ctx, handle)
		})
		if err != nil {
			return RenderTemplate{}, err
		}
		def = v.(Definition)
	}

	rt, err := Apply(def, dims, o)
	if err != nil {
		return RenderTemplate{}, err
	}

	c.mu.Lock()
	if c.gen[handle] == gen {
		c.defs[handle] = def
		c.resolved[key] = rt
	}
	c.mu.Unlock()
	return rt, nil
}

// Invalidate drops everything cached for a handle.
func (c *Cache) Invalidate(handle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.group.Forget(handle)
	c.gen[handle]++
	delete(c.defs, handle)
	for k := range c.resolved {
		if k.handle == handle {
			delete(c.resolved, k)
		}
	}
}
