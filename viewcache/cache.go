package viewcache

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-view-cache/internal/metrics"
	"github.com/goliatone/go-view-cache/pagination"
	"github.com/goliatone/go-view-cache/store"
	"github.com/goliatone/go-view-cache/viewfilter"
)

// Sorter is a named comparator. Caches compare sorters by pointer, so a view
// that keeps reapplying the same *Sorter never triggers a resort.
type Sorter[T any] struct {
	Name    string
	Compare func(a, b T) int
}

// NewSorter creates a sorter.
func NewSorter[T any](name string, cmp func(a, b T) int) *Sorter[T] {
	return &Sorter[T]{Name: name, Compare: cmp}
}

// Cache is a layered view cache over a backing store.
type Cache[T any] struct {
	raw      store.Store[T]
	identity store.IdentityFunc[T]
	logger   Logger
	metrics  metrics.Recorder

	descriptor  store.Descriptor
	loadFilter  func(T) bool
	search      string
	initialized bool
	fullyLoaded bool

	sorter    *Sorter[T]
	predicate func(T) bool
	quick     *viewfilter.Filter[T]

	sorted   store.View[T]
	filtered store.View[T]
	matched  store.View[T]

	added    []T
	onLoaded []func()

	idCondition func(id string) string
}

// Option configures a Cache.
type Option[T any] func(*Cache[T])

// WithLogger sets the logger.
func WithLogger[T any](l Logger) Option[T] {
	return func(c *Cache[T]) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics[T any](r metrics.Recorder) Option[T] {
	return func(c *Cache[T]) {
		if r != nil {
			c.metrics = r
		}
	}
}

// WithIdentity overrides how item identities are derived. It should agree
// with the identity used by the store.
func WithIdentity[T any](fn store.IdentityFunc[T]) Option[T] {
	return func(c *Cache[T]) {
		if fn != nil {
			c.identity = fn
		}
	}
}

// WithDescriptor sets the descriptor used by the first implicit load.
func WithDescriptor[T any](d store.Descriptor) Option[T] {
	return func(c *Cache[T]) { c.descriptor = d }
}

// WithQuickMatch configures the quick-match filter.
func WithQuickMatch[T any](opts ...viewfilter.Option[T]) Option[T] {
	return func(c *Cache[T]) { c.quick = viewfilter.New(opts...) }
}

// WithIdentityCondition sets how a condition selecting one identity is
// written in the loader's condition language. The default is "id=<id>".
func WithIdentityCondition[T any](fn func(id string) string) Option[T] {
	return func(c *Cache[T]) {
		if fn != nil {
			c.idCondition = fn
		}
	}
}

func idEquals(id string) string { return "id=" + id }

// New creates an uninitialized cache over raw.
func New[T any](raw store.Store[T], opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{
		raw:         raw,
		identity:    store.DefaultIdentity[T],
		logger:      DefaultLogger,
		metrics:     metrics.Nop{},
		quick:       viewfilter.New[T](),
		idCondition: idEquals,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialized reports whether the cache holds a loaded extent.
func (c *Cache[T]) Initialized() bool {
	return c.initialized
}

// FullyLoaded reports whether the raw layer holds the whole type extent: the
// current descriptor loads the whole type with no condition and no search
// filter is attached.
func (c *Cache[T]) FullyLoaded() bool {
	return c.fullyLoaded
}

// Descriptor returns the descriptor of the current or next load.
func (c *Cache[T]) Descriptor() store.Descriptor {
	return c.descriptor
}

// OnLoaded registers fn to run after every successful load.
func (c *Cache[T]) OnLoaded(fn func()) {
	if fn != nil {
		c.onLoaded = append(c.onLoaded, fn)
	}
}

// SetLoadFilter installs a predicate applied to every loaded item before any
// layer is derived. Items it rejects are excluded from the cache entirely.
// The cache is unloaded so the next access loads with the new filter.
func (c *Cache[T]) SetLoadFilter(keep func(T) bool) {
	c.loadFilter = keep
	c.Unload()
}

// SetSearchFilter attaches an external condition that is combined with the
// descriptor condition on every load. The cache is unloaded so the next access
// queries with the new condition.
func (c *Cache[T]) SetSearchFilter(condition string) {
	c.search = strings.TrimSpace(condition)
	c.Unload()
}

// SearchFilter returns the attached search condition.
func (c *Cache[T]) SearchFilter() string {
	return c.search
}

// LoadQuery loads the whole type under condition and orderBy. When the cache
// already holds the whole extent in the same order, a query with no condition
// is a no-op.
func (c *Cache[T]) LoadQuery(ctx context.Context, condition, orderBy string) error {
	if condition == "" && c.initialized && c.fullyLoaded && orderBy == c.descriptor.OrderBy {
		return nil
	}
	d := c.descriptor
	d.Master = nil
	d.Condition = condition
	d.OrderBy = orderBy
	return c.load(ctx, d)
}

// LoadDescriptor loads the raw layer from d.
func (c *Cache[T]) LoadDescriptor(ctx context.Context, d store.Descriptor) error {
	return c.load(ctx, d)
}

// LoadItems makes items the raw layer. The cache is not fully loaded
// afterwards since the items are not known to be the whole extent.
func (c *Cache[T]) LoadItems(items []T) {
	if c.loadFilter != nil {
		items = keepItems(items, c.loadFilter)
	}
	c.raw.LoadItems(items)
	c.fullyLoaded = false
	c.loaded()
}

// Reload re-executes the current descriptor.
func (c *Cache[T]) Reload(ctx context.Context) error {
	return c.load(ctx, c.descriptor)
}

func (c *Cache[T]) load(ctx context.Context, d store.Descriptor) error {
	q := d
	q.Condition = joinConditions(d.Condition, c.search)
	if err := c.raw.Load(ctx, q); err != nil {
		c.metrics.BackingLoaded(false)
		c.logger.Errorf("load failed condition=%q order=%q: %v", q.Condition, q.OrderBy, err)
		return err
	}
	c.metrics.BackingLoaded(true)
	if c.loadFilter != nil {
		c.raw.LoadItems(keepItems(c.raw.List(0, c.raw.Size()), c.loadFilter))
	}
	c.descriptor = d
	c.fullyLoaded = d.WholeType() && d.Condition == "" && c.search == ""
	c.loaded()
	c.logger.Debugf("loaded %d items condition=%q order=%q", c.raw.Size(), q.Condition, q.OrderBy)
	return nil
}

// loaded rebuilds the derived chain over a freshly swapped raw layer. The swap
// already closed the previous derived layers.
func (c *Cache[T]) loaded() {
	c.metrics.LayerBuilt(metrics.LayerRaw)
	c.sorted, c.filtered, c.matched = nil, nil, nil
	c.added = nil
	c.initialized = true
	c.rebuildSorted()
	for _, fn := range c.onLoaded {
		fn()
	}
}

// Unload closes every layer, clears the overlay and marks the cache
// uninitialized.
func (c *Cache[T]) Unload() {
	c.dropSorted()
	if !c.raw.Closed() {
		c.raw.Close()
	}
	c.added = nil
	c.initialized = false
	c.fullyLoaded = false
}

// Close releases the cache. It may be loaded again afterwards.
func (c *Cache[T]) Close() {
	c.Unload()
	c.onLoaded = nil
}

// SetSorter changes the comparator of the sorted layer. Reapplying the
// current sorter is a no-op. A nil sorter keeps the raw order.
func (c *Cache[T]) SetSorter(s *Sorter[T]) {
	if s == c.sorter {
		return
	}
	c.sorter = s
	if c.initialized {
		c.rebuildSorted()
	}
}

// Sorter returns the current sorter.
func (c *Cache[T]) Sorter() *Sorter[T] {
	return c.sorter
}

// SetFilter replaces the predicate of the filtered layer and reapplies quick
// matching. A nil predicate keeps every item. With a non-empty overlay the
// cache reloads so the overlay items are subject to the predicate.
func (c *Cache[T]) SetFilter(ctx context.Context, keep func(T) bool) error {
	c.predicate = keep
	if !c.initialized {
		return nil
	}
	if len(c.added) > 0 {
		c.logger.Debugf("filter changed with %d overlay items, reloading", len(c.added))
		if err := c.Reload(ctx); err != nil {
			c.rebuildFiltered()
			return err
		}
		return nil
	}
	c.rebuildFiltered()
	return nil
}

// SetQuickMatch applies quick-match text. Text describing the same token set
// as the current one is a no-op. With a non-empty overlay a changed token set
// reloads the cache so the overlay items are subject to matching.
func (c *Cache[T]) SetQuickMatch(ctx context.Context, text string) error {
	if !c.quick.SetMatchTokens(text) {
		return nil
	}
	if !c.initialized {
		return nil
	}
	if len(c.added) > 0 {
		c.logger.Debugf("quick match changed with %d overlay items, reloading", len(c.added))
		if err := c.Reload(ctx); err != nil {
			c.rebuildMatched()
			return err
		}
		return nil
	}
	c.rebuildMatched()
	return nil
}

// SetLogic changes the operator combining quick-match tokens and rescans.
func (c *Cache[T]) SetLogic(op viewfilter.LogicalOperator) {
	if op == c.quick.Logic() {
		return
	}
	c.quick.SetLogic(op)
	if c.initialized {
		c.rebuildMatched()
	}
}

// SetProjection replaces the quick-match projection. The token set is reset.
func (c *Cache[T]) SetProjection(p viewfilter.Projection[T]) {
	c.quick.SetProjection(p)
	if c.initialized {
		c.rebuildMatched()
	}
}

// SetMatcher replaces the quick-match matcher. The token set is reset.
func (c *Cache[T]) SetMatcher(m viewfilter.Matcher[T]) {
	c.quick.SetMatcher(m)
	if c.initialized {
		c.rebuildMatched()
	}
}

// MatchTokens returns the active quick-match tokens.
func (c *Cache[T]) MatchTokens() []string {
	return c.quick.Tokens()
}

func (c *Cache[T]) rebuildSorted() {
	var cmp func(a, b T) int
	if c.sorter != nil {
		cmp = c.sorter.Compare
	}
	next := c.raw.Sort(cmp)
	if cmp != nil {
		c.metrics.LayerBuilt(metrics.LayerSorted)
	}
	c.dropSorted()
	c.sorted = next
	c.rebuildFiltered()
}

func (c *Cache[T]) rebuildFiltered() {
	next := c.sorted.Filter(c.predicate)
	if c.predicate != nil {
		c.metrics.LayerBuilt(metrics.LayerFiltered)
	}
	c.dropFiltered()
	c.filtered = next
	c.rebuildMatched()
}

func (c *Cache[T]) rebuildMatched() {
	next := c.filtered
	if !c.quick.SkipMatching() {
		next = c.filtered.Filter(c.quick.Match)
		c.metrics.LayerBuilt(metrics.LayerMatched)
		c.metrics.Rescanned()
	}
	c.dropMatched()
	c.matched = next
}

func (c *Cache[T]) dropMatched() {
	if c.matched != nil && c.matched != c.filtered {
		c.matched.Close()
	}
	c.matched = nil
}

func (c *Cache[T]) dropFiltered() {
	c.dropMatched()
	if c.filtered != nil && c.filtered != c.sorted {
		c.filtered.Close()
	}
	c.filtered = nil
}

func (c *Cache[T]) dropSorted() {
	c.dropFiltered()
	if c.sorted != nil && c.sorted != store.View[T](c.raw) {
		c.sorted.Close()
	}
	c.sorted = nil
}

func (c *Cache[T]) ensureLoaded(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	return c.load(ctx, c.descriptor)
}

// Fetch returns the visible items in [offset, offset+limit), overlay first.
// An uninitialized cache loads its current descriptor first.
func (c *Cache[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	if !pagination.Valid(offset, limit) {
		return nil, InvalidWindow(offset, limit)
	}
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	split := pagination.SplitOverlay(len(c.added), offset, limit)
	out := make([]T, 0, min(limit, c.Size()))
	if n := split.OverlayCount(); n > 0 {
		out = append(out, c.added[split.OverlayFrom:split.OverlayTo]...)
	}
	if split.Backing {
		from, to := pagination.Clamp(c.matched.Size(), split.BackingOffset, split.BackingLimit)
		out = append(out, c.matched.List(from, to)...)
	}
	return out, nil
}

// Count returns how many visible items fall in [offset, offset+limit). It
// agrees with the length of Fetch for the same state and window.
func (c *Cache[T]) Count(ctx context.Context, offset, limit int) (int, error) {
	if !pagination.Valid(offset, limit) {
		return 0, InvalidWindow(offset, limit)
	}
	if err := c.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	split := pagination.SplitOverlay(len(c.added), offset, limit)
	n := split.OverlayCount()
	if split.Backing {
		n += pagination.Count(c.matched.Size(), split.BackingOffset, split.BackingLimit)
	}
	return n, nil
}

// Size returns the number of visible items, overlay included.
func (c *Cache[T]) Size() int {
	if !c.initialized {
		return len(c.added)
	}
	return len(c.added) + c.matched.Size()
}

// Item returns the visible item at index.
func (c *Cache[T]) Item(index int) (T, bool) {
	if index < 0 {
		var zero T
		return zero, false
	}
	if index < len(c.added) {
		return c.added[index], true
	}
	if !c.initialized {
		var zero T
		return zero, false
	}
	return c.matched.Get(index - len(c.added))
}

// IndexOf returns the visible index of the item with identity id, or -1.
func (c *Cache[T]) IndexOf(id string) int {
	if i := c.overlayIndex(id); i >= 0 {
		return i
	}
	if !c.initialized {
		return -1
	}
	if i := c.matched.IndexOf(id); i >= 0 {
		return i + len(c.added)
	}
	return -1
}

// Overlay returns a copy of the locally added items, newest first.
func (c *Cache[T]) Overlay() []T {
	return slices.Clone(c.added)
}

func (c *Cache[T]) overlayIndex(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range c.added {
		if c.identity(item) == id {
			return i
		}
	}
	return -1
}

// Added prepends item to the overlay. An uninitialized cache ignores it: its
// next load reads the item from the backing store. Use Accepts first when the
// item may not belong to the view.
func (c *Cache[T]) Added(item T) {
	if !c.initialized {
		return
	}
	c.added = slices.Insert(c.added, 0, item)
}

// Deleted removes item. An overlay item is dropped from the overlay. An item
// held by the raw layer is removed by reloading the current descriptor; an
// identity the cache does not hold is ignored.
func (c *Cache[T]) Deleted(ctx context.Context, item T) error {
	id := c.identity(item)
	if i := c.overlayIndex(id); i >= 0 {
		c.added = slices.Delete(c.added, i, i+1)
		return nil
	}
	if !c.initialized || c.raw.IndexOf(id) < 0 {
		return nil
	}
	c.logger.Debugf("deleted %s outside the overlay, reloading", id)
	return c.Reload(ctx)
}

// Edited refreshes item. An overlay item is replaced by the given value; any
// other item is re-fetched from the backing store by identity.
func (c *Cache[T]) Edited(ctx context.Context, item T) error {
	id := c.identity(item)
	if i := c.overlayIndex(id); i >= 0 {
		c.added[i] = item
		return nil
	}
	return c.Refresh(ctx, id)
}

// Refresh re-fetches the value of identity id without touching the layer
// structure. Unknown identities are ignored.
func (c *Cache[T]) Refresh(ctx context.Context, id string) error {
	if !c.initialized {
		return nil
	}
	return c.raw.Refresh(ctx, id)
}

// RefreshAll re-fetches every loaded value.
func (c *Cache[T]) RefreshAll(ctx context.Context) error {
	if !c.initialized {
		return nil
	}
	return c.raw.RefreshAll(ctx)
}

// Accepts reports whether item passes the load filter, the filter predicate
// and the search condition. Views use it to decide whether an added or edited
// item belongs to them. The search condition is checked by asking the loader
// for the item's identity under that condition.
func (c *Cache[T]) Accepts(ctx context.Context, item T) (bool, error) {
	if c.loadFilter != nil && !c.loadFilter(item) {
		return false, nil
	}
	if c.predicate != nil && !c.predicate(item) {
		return false, nil
	}
	if c.search == "" {
		return true, nil
	}
	id := c.identity(item)
	if id == "" {
		return false, nil
	}
	d := c.descriptor
	d.Condition = joinConditions(c.idCondition(id), c.search)
	d.OrderBy = ""
	found, err := c.raw.Query(ctx, d)
	if err != nil {
		return false, err
	}
	for _, it := range found {
		if c.identity(it) == id {
			return true, nil
		}
	}
	return false, nil
}

func joinConditions(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " AND " + b
}

func keepItems[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
