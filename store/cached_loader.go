package store

import (
	"context"
	"slices"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-view-cache/cache"
)

const loadMethod = "Load"

// CachedLoader decorates a Loader so equal descriptors share one load result
// through a cache.CacheService. Several caches over the same lookup data then
// hit the backing source once.
//
// Fetch is never cached: it serves Refresh, which must observe the latest
// value. Writes made elsewhere are published with Invalidate.
type CachedLoader[T any] struct {
	base  Loader[T]
	cache cache.CacheService
	keys  cache.KeySerializer
	// tracked holds the load keys currently cached, for Invalidate.
	tracked *xsync.MapOf[string, struct{}]
}

// NewCachedLoader wraps base. Keys are built by keys, which should be
// namespaced per entity type when several loaders share one service.
func NewCachedLoader[T any](base Loader[T], svc cache.CacheService, keys cache.KeySerializer) *CachedLoader[T] {
	if keys == nil {
		keys = cache.NewDefaultKeySerializer()
	}
	return &CachedLoader[T]{
		base:    base,
		cache:   svc,
		keys:    keys,
		tracked: xsync.NewMapOf[string, struct{}](),
	}
}

// Key returns the cache key of d. Masters are keyed by identity.
func (l *CachedLoader[T]) Key(d Descriptor) string {
	master := ""
	if !d.WholeType() {
		if id, err := IdentityOf(d.Master); err == nil {
			master = id
		}
	}
	return l.keys.SerializeKey(loadMethod, d.LinkType, master,
		strings.TrimSpace(d.Condition), strings.TrimSpace(d.OrderBy), d.AllowSubtypes)
}

// Load implements Loader. The returned slice is a copy callers may keep.
func (l *CachedLoader[T]) Load(ctx context.Context, d Descriptor) ([]T, error) {
	key := l.Key(d)
	l.tracked.Store(key, struct{}{})
	items, err := cache.GetOrFetch(ctx, l.cache, key, func(ctx context.Context) ([]T, error) {
		return l.base.Load(ctx, d)
	})
	if err != nil {
		l.tracked.Delete(key)
		return nil, err
	}
	return slices.Clone(items), nil
}

// Fetch implements Loader by delegating to the wrapped loader.
func (l *CachedLoader[T]) Fetch(ctx context.Context, id string) (T, error) {
	return l.base.Fetch(ctx, id)
}

// Invalidate drops every cached load result.
func (l *CachedLoader[T]) Invalidate(ctx context.Context) error {
	var firstErr error
	l.tracked.Range(func(key string, _ struct{}) bool {
		if err := l.cache.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
		l.tracked.Delete(key)
		return true
	})
	if firstErr != nil {
		return firstErr
	}
	return l.cache.DeleteByPrefix(ctx, cache.Prefix(l.keys, loadMethod))
}

// Cached returns the number of load results currently tracked.
func (l *CachedLoader[T]) Cached() int {
	return l.tracked.Size()
}
