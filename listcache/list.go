package listcache

import (
	"fmt"
	"slices"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-view-cache/internal/metrics"
	"github.com/goliatone/go-view-cache/pagination"
	"github.com/goliatone/go-view-cache/store"
	"github.com/goliatone/go-view-cache/viewcache"
	"github.com/goliatone/go-view-cache/viewfilter"
)

type change int

const (
	unchanged change = iota
	added
	edited
)

// List is an in-memory list cache.
type List[T any] struct {
	items    []T
	changes  map[string]change
	deleted  []T
	identity store.IdentityFunc[T]
	logger   viewcache.Logger
	metrics  metrics.Recorder

	keep   func(T) bool
	sorter *viewcache.Sorter[T]
	quick  *viewfilter.Filter[T]

	view       []T
	viewStale  bool
	matched    []T
	matchStale bool
}

// Option configures a List.
type Option[T any] func(*List[T])

// WithIdentity overrides how item identities are derived.
func WithIdentity[T any](fn store.IdentityFunc[T]) Option[T] {
	return func(l *List[T]) {
		if fn != nil {
			l.identity = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger[T any](lg viewcache.Logger) Option[T] {
	return func(l *List[T]) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithMetrics sets the recorder for view builds and rescans.
func WithMetrics[T any](r metrics.Recorder) Option[T] {
	return func(l *List[T]) {
		if r != nil {
			l.metrics = r
		}
	}
}

// WithQuickMatch configures the quick-match filter.
func WithQuickMatch[T any](opts ...viewfilter.Option[T]) Option[T] {
	return func(l *List[T]) { l.quick = viewfilter.New(opts...) }
}

// New creates a list holding items. The initial items count as saved.
func New[T any](items []T, opts ...Option[T]) *List[T] {
	l := &List[T]{
		items:    slices.Clone(items),
		changes:  map[string]change{},
		identity: store.DefaultIdentity[T],
		logger:   viewcache.DefaultLogger,
		metrics:  metrics.Nop{},
		quick:    viewfilter.New[T](),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.invalidate()
	return l
}

func indexOutOfRange(index, size int) error {
	return goerrors.New(fmt.Sprintf("index %d out of range [0,%d)", index, size), goerrors.CategoryValidation).
		WithTextCode(viewcache.CodeIndexOutOfRange)
}

func (l *List[T]) invalidate() {
	l.viewStale = true
	l.matchStale = true
}

// Len returns the number of items on the list, ignoring filter and matching.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Items returns a copy of the list in insertion order.
func (l *List[T]) Items() []T {
	return slices.Clone(l.items)
}

// Deleted returns the items deleted since the last save.
func (l *List[T]) Deleted() []T {
	return slices.Clone(l.deleted)
}

// Added returns the items added since the last save, in list order.
func (l *List[T]) Added() []T {
	return l.withChange(added)
}

// Edited returns the items edited since the last save, in list order.
func (l *List[T]) Edited() []T {
	return l.withChange(edited)
}

func (l *List[T]) withChange(c change) []T {
	var out []T
	for _, item := range l.items {
		if l.changes[l.identity(item)] == c {
			out = append(out, item)
		}
	}
	return out
}

// IndexOf returns the list position of id, or -1.
func (l *List[T]) IndexOf(id string) int {
	return slices.IndexFunc(l.items, func(it T) bool { return l.identity(it) == id })
}

// Add puts item at the end of the list and marks it added.
func (l *List[T]) Add(item T) {
	l.items = append(l.items, item)
	l.markAdded(item)
}

// Append puts saved items at the end of the list without tracking them.
func (l *List[T]) Append(items ...T) {
	l.items = append(l.items, items...)
	l.invalidate()
}

// InsertAt puts item at index and marks it added. Index may equal Len.
func (l *List[T]) InsertAt(index int, item T) error {
	if index < 0 || index > len(l.items) {
		return indexOutOfRange(index, len(l.items)+1)
	}
	l.items = slices.Insert(l.items, index, item)
	l.markAdded(item)
	return nil
}

func (l *List[T]) markAdded(item T) {
	id := l.identity(item)
	if i := slices.IndexFunc(l.deleted, func(it T) bool { return l.identity(it) == id }); i >= 0 {
		// re-adding a deleted item is an edit of the saved one
		l.deleted = slices.Delete(l.deleted, i, i+1)
		l.changes[id] = edited
	} else {
		l.changes[id] = added
	}
	l.invalidate()
}

// Update replaces the item with the same identity. It reports whether the
// item was found. Updating an added item keeps it added.
func (l *List[T]) Update(item T) bool {
	id := l.identity(item)
	i := l.IndexOf(id)
	if i < 0 {
		return false
	}
	l.items[i] = item
	if l.changes[id] != added {
		l.changes[id] = edited
	}
	l.invalidate()
	return true
}

// Delete removes the item with identity id. Unknown identities are a no-op.
func (l *List[T]) Delete(id string) bool {
	i := l.IndexOf(id)
	if i < 0 {
		return false
	}
	l.removeAt(i)
	return true
}

// DeleteAt removes the item at list position index.
func (l *List[T]) DeleteAt(index int) error {
	if index < 0 || index >= len(l.items) {
		return indexOutOfRange(index, len(l.items))
	}
	l.removeAt(index)
	return nil
}

func (l *List[T]) removeAt(i int) {
	item := l.items[i]
	id := l.identity(item)
	l.items = slices.Delete(l.items, i, i+1)
	if l.changes[id] == added {
		// never saved, nothing to delete
		delete(l.changes, id)
	} else {
		delete(l.changes, id)
		l.deleted = append(l.deleted, item)
	}
	l.invalidate()
}

// Undelete puts a deleted item back at the end of the list. It reports
// whether id was deleted.
func (l *List[T]) Undelete(id string) bool {
	i := slices.IndexFunc(l.deleted, func(it T) bool { return l.identity(it) == id })
	if i < 0 {
		return false
	}
	item := l.deleted[i]
	l.deleted = slices.Delete(l.deleted, i, i+1)
	l.items = append(l.items, item)
	l.invalidate()
	return true
}

// IsAdded reports whether id was added since the last save.
func (l *List[T]) IsAdded(id string) bool {
	return l.changes[id] == added
}

// IsEdited reports whether id was edited since the last save.
func (l *List[T]) IsEdited(id string) bool {
	return l.changes[id] == edited
}

// IsDeleted reports whether id was deleted since the last save.
func (l *List[T]) IsDeleted(id string) bool {
	return slices.ContainsFunc(l.deleted, func(it T) bool { return l.identity(it) == id })
}

// Changed reports whether anything was added, edited or deleted since the
// last save.
func (l *List[T]) Changed() bool {
	return len(l.changes) > 0 || len(l.deleted) > 0
}

// SavedAll forgets the change tracking, making the current items the saved
// state.
func (l *List[T]) SavedAll() {
	l.changes = map[string]change{}
	l.deleted = nil
}

// SetFilter installs the item filter. Nil keeps everything.
func (l *List[T]) SetFilter(keep func(T) bool) {
	l.keep = keep
	l.invalidate()
}

// SetSorter installs the sorter. Setting the same sorter again is a no-op.
func (l *List[T]) SetSorter(s *viewcache.Sorter[T]) {
	if s == l.sorter {
		return
	}
	l.sorter = s
	l.invalidate()
}

// SetQuickMatch sets the quick-match text. It reports whether the token set
// changed; an unchanged set keeps the matched view.
func (l *List[T]) SetQuickMatch(text string) bool {
	if !l.quick.SetMatchTokens(text) {
		return false
	}
	l.matchStale = true
	return true
}

// SetLogic sets the operator combining quick-match tokens.
func (l *List[T]) SetLogic(op viewfilter.LogicalOperator) {
	if op == l.quick.Logic() {
		return
	}
	l.quick.SetLogic(op)
	l.matchStale = true
}

// MatchTokens returns the active quick-match tokens.
func (l *List[T]) MatchTokens() []string {
	return l.quick.Tokens()
}

func (l *List[T]) current() []T {
	if l.viewStale {
		view := l.items
		if l.keep != nil {
			view = slices.DeleteFunc(slices.Clone(l.items), func(it T) bool { return !l.keep(it) })
			l.metrics.LayerBuilt(metrics.LayerFiltered)
		}
		if l.sorter != nil {
			if l.keep == nil {
				view = slices.Clone(view)
			}
			slices.SortStableFunc(view, l.sorter.Compare)
			l.metrics.LayerBuilt(metrics.LayerSorted)
		}
		l.view = view
		l.viewStale = false
		l.matchStale = true
	}
	if l.matchStale {
		if l.quick.SkipMatching() {
			l.matched = l.view
		} else {
			l.matched = slices.DeleteFunc(slices.Clone(l.view), func(it T) bool { return !l.quick.Match(it) })
			l.metrics.LayerBuilt(metrics.LayerMatched)
			l.metrics.Rescanned()
			l.logger.Debugf("list rescanned for %v: %d of %d items", l.quick.Tokens(), len(l.matched), len(l.view))
		}
		l.matchStale = false
	}
	return l.matched
}

// Size returns the number of items in the matched view.
func (l *List[T]) Size() int {
	return len(l.current())
}

// Item returns the item at index of the matched view.
func (l *List[T]) Item(index int) (T, bool) {
	view := l.current()
	if index < 0 || index >= len(view) {
		var zero T
		return zero, false
	}
	return view[index], true
}

// Count returns how many matched items fall in the window.
func (l *List[T]) Count(offset, limit int) (int, error) {
	if !pagination.Valid(offset, limit) {
		return 0, viewcache.InvalidWindow(offset, limit)
	}
	return pagination.Count(len(l.current()), offset, limit), nil
}

// Fetch returns the matched items in the window.
func (l *List[T]) Fetch(offset, limit int) ([]T, error) {
	if !pagination.Valid(offset, limit) {
		return nil, viewcache.InvalidWindow(offset, limit)
	}
	view := l.current()
	from, to := pagination.Clamp(len(view), offset, limit)
	return slices.Clone(view[from:to]), nil
}
