// Package hierarchy serves parent to children navigation on top of a layered
// view cache.
//
// The roots of the tree are the items of a viewcache.Cache. The children of
// an entity are one link node per link its type declares in the
// relationship catalog; the children of a link node are the related items,
// listed once and kept until the node is refreshed. A related item reached
// through a detail link is expanded like an entity; any other related item
// is a leaf.
//
// With WithFlattened the link nodes are skipped and an entity's children are
// the related items of all its links in declaration order, windowed as one
// list.
package hierarchy
