// Package cache defines the read-through cache contract used to memoize
// lookups that are expensive to repeat, and the key serializer that names
// their entries.
//
// The default implementation is backed by sturdyc:
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig())
//	keys := cache.NewNamespacedKeySerializer("catalog")
//	links, err := cache.GetOrFetch(ctx, svc, keys.SerializeKey("LinksOf", "customer"),
//		func(ctx context.Context) ([]catalog.Link, error) {
//			return source.LinksOf(ctx, "customer")
//		})
//
// Entries are invalidated one at a time with Delete, or per method with
// DeleteByPrefix and Prefix:
//
//	svc.DeleteByPrefix(ctx, cache.Prefix(keys, "LinksOf"))
//
// Keys are only stable within one process when arguments hold functions or
// channels, since those serialize by address.
package cache
