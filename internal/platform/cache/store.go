package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/maypok86/otter/v2"
)

const defaultMaxEntries = 50_000

// Store is a bounded read-through cache with write expiry. A zero ttl keeps
// entries until they are evicted by size or deleted.
type Store struct {
	cache *otter.Cache[string, any]
}

func NewStore(ttl time.Duration) *Store {
	return NewSizedStore(ttl, defaultMaxEntries)
}

func NewSizedStore(ttl time.Duration, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	opts := &otter.Options[string, any]{MaximumSize: maxEntries}
	if ttl > 0 {
		opts.ExpiryCalculator = otter.ExpiryWriting[string, any](ttl)
	}
	return &Store{cache: otter.Must(opts)}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	return s.cache.GetIfPresent(key)
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}
	_, _ = s.cache.Set(key, value)
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}
	_, _ = s.cache.Invalidate(key)
}

// DeletePrefix drops every key starting with prefix.
func (s *Store) DeletePrefix(_ context.Context, prefix string) int {
	if prefix == "" {
		return 0
	}
	removed := 0
	for key := range s.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			if _, ok := s.cache.Invalidate(key); ok {
				removed++
			}
		}
	}
	return removed
}

func (s *Store) Len() int {
	return s.cache.EstimatedSize()
}

// GetOrLoad returns the cached value or runs loader once per key among
// concurrent callers and stores its result.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, errors.New("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	return s.cache.Get(ctx, key, otter.LoaderFunc[string, any](func(ctx context.Context, _ string) (any, error) {
		return loader(ctx)
	}))
}
