package image

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Status is the load state of one URL.
type Status int

const (
	StatusNone Status = iota
	StatusPending
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "none"
	}
}

// Entry is the cached state of one URL.
type Entry struct {
	Status Status
	Bitmap *Bitmap
	Err    error
}

// Listener is called once when a requested URL resolves.
type Listener func(url string, e Entry)

// Cache loads bitmaps asynchronously and remembers the outcome. Concurrent
// requests for the same URL share one load.
type Cache struct {
	loader  Loader
	timeout time.Duration

	group singleflight.Group

	mu        sync.RWMutex
	entries   map[string]Entry
	waiters   map[string][]chan struct{}
	listeners []Listener
}

// NewCache creates a cache that loads through loader. A positive timeout
// bounds each load.
func NewCache(loader Loader, timeout time.Duration) *Cache {
	return &Cache{
		loader:  loader,
		timeout: timeout,
		entries: make(map[string]Entry),
		waiters: make(map[string][]chan struct{}),
	}
}

// OnResolve registers a listener for loads that finish.
func (c *Cache) OnResolve(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Get returns the current state of url without starting a load.
func (c *Cache) Get(url string) Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[url]
}

// Bitmap returns the loaded bitmap for url, or ErrNotLoaded.
func (c *Cache) Bitmap(url string) (*Bitmap, error) {
	e := c.Get(url)
	switch e.Status {
	case StatusReady:
		return e.Bitmap, nil
	case StatusFailed:
		return nil, e.Err
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, url)
	}
}

// Request starts loading url in the background if it is not already known
// and returns its current state.
func (c *Cache) Request(url string) Entry {
	c.mu.Lock()
	e, ok := c.entries[url]
	if ok {
		c.mu.Unlock()
		return e
	}
	e = Entry{Status: StatusPending}
	c.entries[url] = e
	c.mu.Unlock()

	go c.load(url)
	return e
}

// Wait requests url and blocks until it resolves or ctx is done.
func (c *Cache) Wait(ctx context.Context, url string) (*Bitmap, error) {
	c.mu.Lock()
	e, ok := c.entries[url]
	if ok && e.Status != StatusPending {
		c.mu.Unlock()
		return c.Bitmap(url)
	}
	ch := make(chan struct{})
	c.waiters[url] = append(c.waiters[url], ch)
	if !ok {
		c.entries[url] = Entry{Status: StatusPending}
	}
	c.mu.Unlock()

	if !ok {
		go c.load(url)
	}

	select {
	case <-ch:
		return c.Bitmap(url)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Preload loads every URL and waits for all of them. It returns the first
// failure; the other loads still complete and are cached.
func (c *Cache) Preload(ctx context.Context, urls []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, u := range urls {
		if u == "" {
			continue
		}
		u := u
		g.Go(func() error {
			_, err := c.Wait(ctx, u)
			return err
		})
	}
	return g.Wait()
}

// Forget drops a cached URL so the next request loads it again.
func (c *Cache) Forget(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[url].Status != StatusPending {
		delete(c.entries, url)
	}
}

func (c *Cache) load(url string) {
	v, err, _ := c.group.Do(url, func() (interface{}, error) {
		ctx := context.Background()
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		return c.loader.Load(ctx, url)
	})

	var bm *Bitmap
	if err == nil {
		bm, _ = v.(*Bitmap)
		if bm.Empty() {
			err = fmt.Errorf("%s: %w", url, ErrEmptyImage)
		}
	}

	var e Entry
	if err != nil {
		log.Printf("image: load %s failed: %v", url, err)
		e = Entry{Status: StatusFailed, Err: err}
	} else {
		e = Entry{Status: StatusReady, Bitmap: bm}
	}

	c.mu.Lock()
	if c.entries[url].Status != StatusPending {
		c.mu.Unlock()
		return
	}
	c.entries[url] = e
	waiters := c.waiters[url]
	delete(c.waiters, url)
	listeners := c.listeners
	c.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
	for _, l := range listeners {
		l(url, e)
	}
}
