package store

import "context"

// Descriptor describes how a raw layer is populated. A nil Master loads the
// whole type extent; otherwise the master's related items of LinkType are
// loaded.
type Descriptor struct {
	LinkType      int
	Master        any
	Condition     string
	OrderBy       string
	AllowSubtypes bool
}

// WholeType reports whether the descriptor loads the entire type extent.
func (d Descriptor) WholeType() bool {
	return d.Master == nil
}

// View is an ordered, indexable, closable collection.
type View[T any] interface {
	Size() int
	Get(index int) (T, bool)
	// List returns the items in [from, to), clamped to the view.
	List(from, to int) []T
	// IndexOf returns the position of the item with the given identity or -1.
	IndexOf(id string) int
	// Sort derives a view ordered by cmp. A nil cmp returns the receiver.
	Sort(cmp func(a, b T) int) View[T]
	// Filter derives a view keeping the items accepted by keep, in order. A
	// nil keep returns the receiver.
	Filter(keep func(T) bool) View[T]
	// Close releases the view and every view derived from it.
	Close()
	Closed() bool
}

// Store is the raw layer of a view cache.
type Store[T any] interface {
	View[T]
	// Load replaces the extent with the loader's result for d. On error the
	// previous extent and its derived views are left untouched.
	Load(ctx context.Context, d Descriptor) error
	// Query runs d against the loader without touching the extent.
	Query(ctx context.Context, d Descriptor) ([]T, error)
	// LoadItems replaces the extent with exactly items.
	LoadItems(items []T)
	// Refresh re-fetches the value of one identity in place. Unknown
	// identities are ignored.
	Refresh(ctx context.Context, id string) error
	// RefreshAll re-fetches every loaded value in place.
	RefreshAll(ctx context.Context) error
}

// Loader is the source of truth behind a Store.
type Loader[T any] interface {
	Load(ctx context.Context, d Descriptor) ([]T, error)
	Fetch(ctx context.Context, id string) (T, error)
}
