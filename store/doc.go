// Package store defines the backing store contract consumed by the view caches
// and ships an in-process implementation of it.
//
// A Store is the raw layer: an ordered, indexable extent of entities loaded
// through a Loader from a Descriptor (condition, order, optional master) or
// replaced wholesale by an explicit item sequence. Sort and Filter derive new
// views from any view; derived views are owned by the view they were derived
// from, so closing or reloading a view closes every view built on top of it.
// Reading a closed view panics: a view that outlived its upstream is a
// programming error, not a recoverable condition.
//
// Filtered views keep the positions of the retained upstream items in a
// roaring bitmap, which preserves upstream order for free and answers
// Get/IndexOf with Select/Rank.
//
// Two loaders are provided: SliceLoader serves an in-memory slice and is handy
// for small collections and tests, RepositoryLoader reads from a
// go-repository-bun repository.
package store
