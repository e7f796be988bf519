package store

import (
	"context"
	"slices"
)

// SliceLoader serves a Store from an in-memory slice. Conditions and order
// expressions are compiled by caller supplied functions; without them only
// blank conditions and orders are accepted.
type SliceLoader[T any] struct {
	items    []T
	identity IdentityFunc[T]
	compile  func(condition string) (func(T) bool, error)
	order    func(orderBy string) (func(a, b T) int, error)
	related  func(master any, linkType int) ([]T, error)
	loads    int
	fetches  int
}

// SliceOption configures a SliceLoader.
type SliceOption[T any] func(*SliceLoader[T])

// WithConditions installs the condition compiler.
func WithConditions[T any](compile func(condition string) (func(T) bool, error)) SliceOption[T] {
	return func(l *SliceLoader[T]) { l.compile = compile }
}

// WithOrder installs the order expression compiler.
func WithOrder[T any](order func(orderBy string) (func(a, b T) int, error)) SliceOption[T] {
	return func(l *SliceLoader[T]) { l.order = order }
}

// WithRelated installs the resolver for master loads.
func WithRelated[T any](related func(master any, linkType int) ([]T, error)) SliceOption[T] {
	return func(l *SliceLoader[T]) { l.related = related }
}

// WithSliceIdentity overrides how item identities are derived.
func WithSliceIdentity[T any](fn IdentityFunc[T]) SliceOption[T] {
	return func(l *SliceLoader[T]) { l.identity = fn }
}

// NewSliceLoader creates a loader over a copy of items.
func NewSliceLoader[T any](items []T, opts ...SliceOption[T]) *SliceLoader[T] {
	l := &SliceLoader[T]{
		items:    slices.Clone(items),
		identity: DefaultIdentity[T],
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements Loader.
func (l *SliceLoader[T]) Load(ctx context.Context, d Descriptor) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source := l.items
	if !d.WholeType() {
		if l.related == nil {
			return nil, unsupported("master loads are not supported by this loader")
		}
		var err error
		if source, err = l.related(d.Master, d.LinkType); err != nil {
			return nil, err
		}
	}

	out := slices.Clone(source)
	if d.Condition != "" {
		if l.compile == nil {
			return nil, unsupported("conditions are not supported by this loader")
		}
		keep, err := l.compile(d.Condition)
		if err != nil {
			return nil, err
		}
		out = slices.DeleteFunc(out, func(item T) bool { return !keep(item) })
	}
	if d.OrderBy != "" && l.order != nil {
		cmp, err := l.order(d.OrderBy)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(out, cmp)
	}
	l.loads++
	return out, nil
}

// Fetch implements Loader.
func (l *SliceLoader[T]) Fetch(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	l.fetches++
	for _, item := range l.items {
		if l.identity(item) == id {
			return item, nil
		}
	}
	return zero, ErrNotFound
}

// Put inserts item or replaces the item with the same identity, the way a
// successful backing write would.
func (l *SliceLoader[T]) Put(item T) {
	id := l.identity(item)
	for i := range l.items {
		if l.identity(l.items[i]) == id {
			l.items[i] = item
			return
		}
	}
	l.items = append(l.items, item)
}

// Remove deletes the item with the given identity.
func (l *SliceLoader[T]) Remove(id string) {
	l.items = slices.DeleteFunc(l.items, func(item T) bool { return l.identity(item) == id })
}

// Items returns a snapshot of the loader's items.
func (l *SliceLoader[T]) Items() []T {
	return slices.Clone(l.items)
}

// Loads returns the number of successful Load calls.
func (l *SliceLoader[T]) Loads() int {
	return l.loads
}

// Fetches returns the number of Fetch calls.
func (l *SliceLoader[T]) Fetches() int {
	return l.fetches
}
