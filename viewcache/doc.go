// Package viewcache keeps a windowed, layered cache over a backing store and
// serves it to paginated list and grid views.
//
// # Layers
//
// A Cache owns a raw layer (a store.Store) and derives three layers from it:
//
//	raw -> sorted -> filtered -> matched
//
// A layer with no transform configured is the upstream layer itself. Each
// derived layer is owned by its upstream, so replacing a layer closes every
// layer built on it. The matched layer is always rebuilt from the filtered
// layer that is current at the time.
//
// Items added locally are kept in an overlay that precedes the matched layer in
// index space until the next load:
//
//	cache.Added(item)
//	items, _ := cache.Fetch(ctx, 0, 1) // [item]
//
// # Provider
//
// Provider adapts a Cache to the count/fetch protocol used by virtualized
// views, mapping sort keys to registered comparators and query text to the
// quick-match filter:
//
//	p := viewcache.NewProvider(cache, viewcache.DefaultConfig())
//	p.RegisterSort("name", byName)
//	n, err := p.Count(ctx, viewcache.Query{Limit: 50, Text: "foo"})
//
// A Cache is not safe for concurrent use. It is owned by one view and driven
// from one goroutine.
package viewcache
