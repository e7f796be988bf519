package cache

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// FetchFn loads a value from its source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService is the read-through cache used to memoize expensive lookups
// such as relationship catalogs.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// ErrInvalidResultType is returned when a cached value does not have the
// type the caller asked for, which happens when two callers share a key.
var ErrInvalidResultType = goerrors.New("cached value has an unexpected type", goerrors.CategoryInternal).
	WithTextCode("CACHE_INVALID_RESULT_TYPE")

// GetOrFetch is the typed form of CacheService.GetOrFetch.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T
	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, ErrInvalidResultType
	}
	return typed, nil
}
