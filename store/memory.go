package store

import (
	"context"
	"slices"
)

// Memory is the in-process raw layer. It is not safe for concurrent use; a
// view cache owns its store and drives it from one goroutine.
type Memory[T any] struct {
	lineage
	loader   Loader[T]
	identity IdentityFunc[T]
	items    []T
	ids      map[string]int
	loads    int
}

// Option configures a Memory store.
type Option[T any] func(*Memory[T])

// WithIdentity overrides how item identities are derived.
func WithIdentity[T any](fn IdentityFunc[T]) Option[T] {
	return func(m *Memory[T]) {
		if fn != nil {
			m.identity = fn
		}
	}
}

// New creates an empty, closed store reading from loader.
func New[T any](loader Loader[T], opts ...Option[T]) *Memory[T] {
	m := &Memory[T]{
		loader:   loader,
		identity: DefaultIdentity[T],
	}
	m.closed = true
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ Store[any] = (*Memory[any])(nil)

// Load implements Store.
func (m *Memory[T]) Load(ctx context.Context, d Descriptor) error {
	items, err := m.loader.Load(ctx, d)
	if err != nil {
		return loadFailed(err, d)
	}
	m.loads++
	m.swap(items)
	return nil
}

// Query implements Store.
func (m *Memory[T]) Query(ctx context.Context, d Descriptor) ([]T, error) {
	items, err := m.loader.Load(ctx, d)
	if err != nil {
		return nil, loadFailed(err, d)
	}
	return items, nil
}

// LoadItems implements Store.
func (m *Memory[T]) LoadItems(items []T) {
	m.swap(slices.Clone(items))
}

// Loads returns how many times the store was loaded from its loader.
func (m *Memory[T]) Loads() int {
	return m.loads
}

func (m *Memory[T]) swap(items []T) {
	m.release()
	m.items = items
	m.ids = nil
	m.closed = false
}

// Close implements View. A closed store may be loaded again.
func (m *Memory[T]) Close() {
	m.release()
	m.items = nil
	m.ids = nil
	m.closed = true
}

// Size implements View. A closed store is empty.
func (m *Memory[T]) Size() int {
	return len(m.items)
}

// Get implements View.
func (m *Memory[T]) Get(index int) (T, bool) {
	if index < 0 || index >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[index], true
}

// List implements View.
func (m *Memory[T]) List(from, to int) []T {
	from, to = clampRange(len(m.items), from, to)
	return slices.Clone(m.items[from:to])
}

// IndexOf implements View.
func (m *Memory[T]) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	if m.ids == nil {
		m.ids = make(map[string]int, len(m.items))
		for i, item := range m.items {
			if key := m.identity(item); key != "" {
				if _, dup := m.ids[key]; !dup {
					m.ids[key] = i
				}
			}
		}
	}
	if i, ok := m.ids[id]; ok {
		return i
	}
	return -1
}

// Sort implements View.
func (m *Memory[T]) Sort(cmp func(a, b T) int) View[T] {
	if cmp == nil {
		return m
	}
	v := newSorted[T](m, cmp)
	m.adopt(v)
	return v
}

// Filter implements View.
func (m *Memory[T]) Filter(keep func(T) bool) View[T] {
	if keep == nil {
		return m
	}
	v := newFiltered[T](m, keep)
	m.adopt(v)
	return v
}

// Refresh implements Store.
func (m *Memory[T]) Refresh(ctx context.Context, id string) error {
	i := m.IndexOf(id)
	if i < 0 {
		return nil
	}
	fresh, err := m.loader.Fetch(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return refreshFailed(err, id)
	}
	m.items[i] = fresh
	return nil
}

// RefreshAll implements Store.
func (m *Memory[T]) RefreshAll(ctx context.Context) error {
	for i := 0; i < len(m.items); i++ {
		id := m.identity(m.items[i])
		if id == "" {
			continue
		}
		if err := m.Refresh(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
