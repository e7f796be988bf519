package catalog

import (
	"context"
	"slices"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-view-cache/cache"
)

const linksOfMethod = "LinksOf"

// Logger receives the memo's debug messages.
type Logger interface {
	Debugf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

// Memo is a read-through Catalog that computes the links of each type once
// and keeps them in a cache.CacheService until invalidated.
type Memo struct {
	source Catalog
	cache  cache.CacheService
	keys   cache.KeySerializer
	logger Logger
	// tracked maps type names to the cache keys currently holding them.
	tracked *xsync.MapOf[string, string]
}

// MemoOption configures a Memo.
type MemoOption func(*Memo)

// WithKeySerializer sets the serializer naming memo entries.
func WithKeySerializer(s cache.KeySerializer) MemoOption {
	return func(m *Memo) {
		if s != nil {
			m.keys = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) MemoOption {
	return func(m *Memo) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMemo creates a memo over source backed by svc.
func NewMemo(source Catalog, svc cache.CacheService, opts ...MemoOption) *Memo {
	m := &Memo{
		source:  source,
		cache:   svc,
		keys:    cache.NewNamespacedKeySerializer("catalog"),
		logger:  nopLogger{},
		tracked: xsync.NewMapOf[string, string](),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LinksOf implements Catalog.
func (m *Memo) LinksOf(ctx context.Context, typeName string) ([]Link, error) {
	key := m.keys.SerializeKey(linksOfMethod, typeName)
	m.tracked.Store(typeName, key)
	links, err := cache.GetOrFetch(ctx, m.cache, key, func(ctx context.Context) ([]Link, error) {
		return m.source.LinksOf(ctx, typeName)
	})
	if err != nil {
		m.tracked.Delete(typeName)
		return nil, err
	}
	return slices.Clone(links), nil
}

// Invalidate drops the memoized links of typeName.
func (m *Memo) Invalidate(ctx context.Context, typeName string) error {
	key, ok := m.tracked.LoadAndDelete(typeName)
	if !ok {
		key = m.keys.SerializeKey(linksOfMethod, typeName)
	}
	m.logger.Debugf("catalog: invalidate %s", typeName)
	return m.cache.Delete(ctx, key)
}

// InvalidateAll drops every memoized entry.
func (m *Memo) InvalidateAll(ctx context.Context) error {
	var firstErr error
	m.tracked.Range(func(typeName, key string) bool {
		if err := m.cache.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
		m.tracked.Delete(typeName)
		return true
	})
	if firstErr != nil {
		return firstErr
	}
	m.logger.Debugf("catalog: invalidate all")
	return m.cache.DeleteByPrefix(ctx, cache.Prefix(m.keys, linksOfMethod))
}

// Tracked returns the number of types with a memoized entry.
func (m *Memo) Tracked() int {
	return m.tracked.Size()
}
