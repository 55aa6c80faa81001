package statecache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/statecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newMemoryCache(t *testing.T, ttl time.Duration) (*statecache.MemoryCache, *fakeClock) {
	t.Helper()

	clk := &fakeClock{now: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}

	cache, err := statecache.NewMemoryCache(ttl, statecache.WithClock(clk.Now))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cache.Close()
	})

	return cache, clk
}

func TestMemoryCache_ConsumeOnce(t *testing.T) {
	t.Parallel()

	cache, clk := newMemoryCache(t, time.Minute)
	ctx := context.Background()

	token, err := cache.Put(ctx, statecache.State{
		Platform:    models.PlatformLinkedIn,
		WorkspaceID: "ws-1",
		RedirectURL: "https://app.example.com/settings/accounts",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	state, err := cache.Consume(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.PlatformLinkedIn, state.Platform)
	assert.Equal(t, "ws-1", state.WorkspaceID)
	assert.True(t, clk.Now().Equal(state.CreatedAt))

	_, err = cache.Consume(ctx, token)
	assert.ErrorIs(t, err, statecache.ErrStateNotFound)
}

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()

	cache, clk := newMemoryCache(t, time.Minute)
	ctx := context.Background()

	expired, err := cache.Put(ctx, statecache.State{Platform: models.PlatformTwitter, WorkspaceID: "ws-1"})
	require.NoError(t, err)

	clk.Advance(30 * time.Second)

	live, err := cache.Put(ctx, statecache.State{Platform: models.PlatformTwitter, WorkspaceID: "ws-1"})
	require.NoError(t, err)

	clk.Advance(30 * time.Second)

	_, err = cache.Consume(ctx, expired)
	assert.ErrorIs(t, err, statecache.ErrStateNotFound)

	_, err = cache.Consume(ctx, live)
	assert.NoError(t, err)
}

func TestMemoryCache_Sweep(t *testing.T) {
	t.Parallel()

	cache, clk := newMemoryCache(t, time.Minute)
	ctx := context.Background()

	for range 3 {
		_, err := cache.Put(ctx, statecache.State{WorkspaceID: "ws-1"})
		require.NoError(t, err)
	}

	cache.Sweep()
	assert.Equal(t, 3, cache.Len())

	clk.Advance(time.Minute)

	cache.Sweep()
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_UnknownToken(t *testing.T) {
	t.Parallel()

	cache, _ := newMemoryCache(t, time.Minute)

	_, err := cache.Consume(context.Background(), "never-issued")
	assert.ErrorIs(t, err, statecache.ErrStateNotFound)
}

func TestMemoryCache_Close(t *testing.T) {
	t.Parallel()

	cache, err := statecache.NewMemoryCache(time.Minute)
	require.NoError(t, err)

	token, err := cache.Put(context.Background(), statecache.State{WorkspaceID: "ws-1"})
	require.NoError(t, err)

	require.NoError(t, cache.Close())
	require.NoError(t, cache.Close())

	_, err = cache.Consume(context.Background(), token)
	assert.ErrorIs(t, err, statecache.ErrCacheClosed)

	_, err = cache.Put(context.Background(), statecache.State{WorkspaceID: "ws-1"})
	assert.ErrorIs(t, err, statecache.ErrCacheClosed)
}

func TestMemoryCache_InvalidTTL(t *testing.T) {
	t.Parallel()

	_, err := statecache.NewMemoryCache(0)
	assert.ErrorIs(t, err, statecache.ErrInvalidTTL)
}

func TestMemoryCache_ConcurrentConsume(t *testing.T) {
	t.Parallel()

	cache, _ := newMemoryCache(t, time.Minute)
	ctx := context.Background()

	token, err := cache.Put(ctx, statecache.State{WorkspaceID: "ws-1"})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := cache.Consume(ctx, token); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, winners)
}
