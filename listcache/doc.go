// Package listcache serves a small, fully materialized list through the same
// count and fetch contract as the layered view cache.
//
// There is no backing query: items are placed on the list directly and the
// list remembers which ones were added, edited or deleted since the last
// save. Filtering, sorting and quick matching are recomputed in memory, and
// the matched view is kept until the items, the filter, the sorter or the
// token set change.
package listcache
