package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/justchokingaround/reel/internal/genre"
)

type bypassKey struct{}

// WithoutCache marks ctx so that a cached client goes to the network and
// refreshes the stored entry instead of answering from memory.
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

func bypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}

type cacheEntry struct {
	movies  []Movie
	expires time.Time
}

// CachedClient decorates a Client with an in-memory TTL cache. Errors are never cached.
type CachedClient struct {
	next Client
	ttl  time.Duration
	now  func() time.Time

	mu   sync.RWMutex
	data map[string]cacheEntry
}

// Cached wraps client with a cache whose entries live for ttl
func Cached(client Client, ttl time.Duration) *CachedClient {
	return &CachedClient{
		next: client,
		ttl:  ttl,
		now:  time.Now,
		data: make(map[string]cacheEntry),
	}
}

// FetchPopular implements Client
func (c *CachedClient) FetchPopular(ctx context.Context, page int) ([]Movie, error) {
	return c.fetch(ctx, fmt.Sprintf("popular:%d", page), func() ([]Movie, error) {
		return c.next.FetchPopular(ctx, page)
	})
}

// FetchByGenres implements Client
func (c *CachedClient) FetchByGenres(ctx context.Context, genres genre.Selection, page int) ([]Movie, error) {
	return c.fetch(ctx, fmt.Sprintf("genres:%s:%d", genres, page), func() ([]Movie, error) {
		return c.next.FetchByGenres(ctx, genres, page)
	})
}

// entries returns the number of stored entries, expired ones included
func (c *CachedClient) entries() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *CachedClient) fetch(ctx context.Context, key string, load func() ([]Movie, error)) ([]Movie, error) {
	if !bypassed(ctx) {
		if movies, ok := c.get(key); ok {
			return movies, nil
		}
	}

	movies, err := load()
	if err != nil {
		return nil, err
	}

	c.set(key, movies)
	return movies, nil
}

func (c *CachedClient) get(key string) ([]Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.data[key]
	if !ok || !c.now().Before(entry.expires) {
		return nil, false
	}
	return entry.movies, true
}

func (c *CachedClient) set(key string, movies []Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = cacheEntry{movies: movies, expires: c.now().Add(c.ttl)}
}
