package statecache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// MemoryCache keeps states in process. Expired entries are swept by a background
// goroutine that runs until Close.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
	closed  bool

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type MemoryOption func(*MemoryCache)

func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

func NewMemoryCache(ttl time.Duration, opts ...MemoryOption) (*MemoryCache, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	c := &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.wg.Add(1)

	go c.sweep(ttl)

	return c, nil
}

func (c *MemoryCache) Put(_ context.Context, state State) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", ErrCacheClosed
	}

	now := c.now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now.UTC()
	}

	token := newToken()
	c.entries[token] = memoryEntry{state: state, expiresAt: now.Add(c.ttl)}

	return token, nil
}

func (c *MemoryCache) Consume(_ context.Context, token string) (*State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCacheClosed
	}

	entry, ok := c.entries[token]
	if !ok {
		return nil, ErrStateNotFound
	}

	delete(c.entries, token)

	if !c.now().Before(entry.expiresAt) {
		return nil, ErrStateNotFound
	}

	state := entry.state

	return &state, nil
}

// Len returns the number of stored entries, expired ones included until swept.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Sweep drops expired entries.
func (c *MemoryCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	for token, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, token)
		}
	}
}

func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.entries = make(map[string]memoryEntry)
		c.mu.Unlock()

		close(c.done)
	})

	c.wg.Wait()

	return nil
}

func (c *MemoryCache) sweep(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
