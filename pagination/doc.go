// Package pagination holds the window arithmetic shared by the view caches.
//
// Every function here is pure: it works on sizes, offsets and limits only and
// never touches the collections themselves. The view caches use it to split a
// requested window between the locally added overlay and the backing layers,
// and the hierarchical cache uses Concat to page across several child lists
// as if they were one list.
//
// Limits follow the UI protocol convention: a very large limit (for example
// math.MaxInt) means "everything from offset", so End saturates instead of
// overflowing.
package pagination
