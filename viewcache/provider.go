package viewcache

import (
	"context"
	"strings"
)

// SortSpec is one sort key requested by a view.
type SortSpec struct {
	Key  string
	Desc bool
}

// Query is one count or fetch request of the pagination protocol.
type Query struct {
	Offset int
	// Limit of zero means the configured default page size.
	Limit int
	Sort  []SortSpec
	// Text is the quick-match text typed by the user.
	Text string
}

// Provider serves a Cache through the count/fetch pagination protocol.
type Provider[T any] struct {
	cache      *Cache[T]
	cfg        Config
	logger     Logger
	sorts      map[string]func(a, b T) int
	sorters    map[string]*Sorter[T]
	viewFilter string
}

// ProviderOption configures a Provider.
type ProviderOption[T any] func(*Provider[T])

// WithProviderLogger sets the provider logger.
func WithProviderLogger[T any](l Logger) ProviderOption[T] {
	return func(p *Provider[T]) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider creates a provider over cache. The quick-match operator of the
// cache is set from cfg.
func NewProvider[T any](cache *Cache[T], cfg Config, opts ...ProviderOption[T]) *Provider[T] {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultConfig().DefaultPageSize
	}
	p := &Provider[T]{
		cache:   cache,
		cfg:     cfg,
		logger:  cache.logger,
		sorts:   map[string]func(a, b T) int{},
		sorters: map[string]*Sorter[T]{},
	}
	for _, opt := range opts {
		opt(p)
	}
	cache.SetLogic(cfg.Logic())
	return p
}

// Cache returns the underlying cache.
func (p *Provider[T]) Cache() *Cache[T] {
	return p.cache
}

// RegisterSort maps a sort key to an ascending comparator.
func (p *Provider[T]) RegisterSort(key string, cmp func(a, b T) int) {
	p.sorts[key] = cmp
	for k := range p.sorters {
		delete(p.sorters, k)
	}
}

// FilterView sets text that is prepended to the text of every query.
func (p *Provider[T]) FilterView(text string) {
	p.viewFilter = strings.TrimSpace(text)
}

// Count implements the pagination protocol count request.
func (p *Provider[T]) Count(ctx context.Context, q Query) (int, error) {
	q, err := p.prepare(ctx, q)
	if err != nil {
		return 0, err
	}
	return p.cache.Count(ctx, q.Offset, q.Limit)
}

// Fetch implements the pagination protocol fetch request.
func (p *Provider[T]) Fetch(ctx context.Context, q Query) ([]T, error) {
	q, err := p.prepare(ctx, q)
	if err != nil {
		return nil, err
	}
	return p.cache.Fetch(ctx, q.Offset, q.Limit)
}

// prepare brings the cache in line with the query. Count and Fetch both go
// through it, so they observe the same sorter and token set decisions.
func (p *Provider[T]) prepare(ctx context.Context, q Query) (Query, error) {
	if q.Limit == 0 {
		q.Limit = p.cfg.DefaultPageSize
	}
	if q.Offset < 0 || q.Limit < 0 {
		return q, InvalidWindow(q.Offset, q.Limit)
	}
	sorter, err := p.sorter(q.Sort)
	if err != nil {
		return q, err
	}
	p.cache.SetSorter(sorter)
	if err := p.cache.SetQuickMatch(ctx, joinText(p.viewFilter, q.Text)); err != nil {
		return q, err
	}
	return q, nil
}

func (p *Provider[T]) sorter(specs []SortSpec) (*Sorter[T], error) {
	if len(specs) == 0 {
		return nil, nil
	}
	if !p.cfg.AllowSorting {
		return nil, configError(CodeSortNotSupported, "in-memory sorting is not enabled for this view")
	}
	key := sortKey(specs)
	if s, ok := p.sorters[key]; ok {
		return s, nil
	}
	cmps := make([]func(a, b T) int, 0, len(specs))
	for _, spec := range specs {
		cmp, ok := p.sorts[spec.Key]
		if !ok {
			return nil, configError(CodeSortNotSupported, "no comparator registered for sort key %q", spec.Key)
		}
		if spec.Desc {
			asc := cmp
			cmp = func(a, b T) int { return asc(b, a) }
		}
		cmps = append(cmps, cmp)
	}
	s := NewSorter(key, func(a, b T) int {
		for _, cmp := range cmps {
			if r := cmp(a, b); r != 0 {
				return r
			}
		}
		return 0
	})
	p.sorters[key] = s
	return s, nil
}

// RefreshItem re-fetches one item by identity.
func (p *Provider[T]) RefreshItem(ctx context.Context, id string) error {
	return p.cache.Refresh(ctx, id)
}

// RefreshAll re-fetches every loaded item.
func (p *Provider[T]) RefreshAll(ctx context.Context) error {
	return p.cache.RefreshAll(ctx)
}

// Added is called after item was created in the backing store. The item is
// shown ahead of the loaded items until the next load. Before the first load
// the call is ignored, since that load reads the item from the backing store.
// Accepts tells whether the item satisfies the view's filters.
func (p *Provider[T]) Added(item T) {
	p.cache.Added(item)
}

// Accepts reports whether item satisfies the filters of the view.
func (p *Provider[T]) Accepts(ctx context.Context, item T) (bool, error) {
	return p.cache.Accepts(ctx, item)
}

// Edited is called after item was updated in the backing store.
func (p *Provider[T]) Edited(ctx context.Context, item T) error {
	return p.cache.Edited(ctx, item)
}

// Deleted is called after item was deleted from the backing store.
func (p *Provider[T]) Deleted(ctx context.Context, item T) error {
	return p.cache.Deleted(ctx, item)
}

func sortKey(specs []SortSpec) string {
	var b strings.Builder
	for i, s := range specs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s.Key)
		if s.Desc {
			b.WriteString(" desc")
		}
	}
	return b.String()
}

func joinText(a, b string) string {
	b = strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
