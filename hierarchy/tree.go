package hierarchy

import (
	"context"

	"github.com/goliatone/go-view-cache/catalog"
	"github.com/goliatone/go-view-cache/pagination"
	"github.com/goliatone/go-view-cache/store"
	"github.com/goliatone/go-view-cache/viewcache"
)

// Kind is the role of a node in the tree.
type Kind int

const (
	// Entity is an item of the root layer, or an expanded detail item.
	Entity Kind = iota
	// LinkNode groups the related items of one link of a parent.
	LinkNode
	// LinkedEntity is one related item under a LinkNode.
	LinkedEntity
)

func (k Kind) String() string {
	switch k {
	case Entity:
		return "entity"
	case LinkNode:
		return "link"
	case LinkedEntity:
		return "linked"
	}
	return "unknown"
}

// Node is one element of the tree. Nodes are created by the tree and keep
// their identity across calls, so they may be used as keys by views.
type Node[T any] struct {
	kind  Kind
	item  T
	group *group[T]
}

// Kind returns the node kind.
func (n *Node[T]) Kind() Kind { return n.kind }

// Item returns the entity of an Entity or LinkedEntity node, or the parent
// entity of a LinkNode.
func (n *Node[T]) Item() T {
	if n.kind == LinkNode {
		return n.group.parent
	}
	return n.item
}

// Link returns the link of a LinkNode, or the link a LinkedEntity was
// reached through. It is the zero Link for Entity nodes.
func (n *Node[T]) Link() catalog.Link {
	if n.group == nil {
		return catalog.Link{}
	}
	return n.group.link
}

// String renders link nodes by link name.
func (n *Node[T]) String() string {
	if n.kind == LinkNode {
		return n.group.link.Name
	}
	return n.kind.String()
}

// expands reports whether a LinkedEntity is expanded like an Entity.
func (n *Node[T]) expands() bool {
	return n.kind == Entity || (n.kind == LinkedEntity && n.group.link.Detail)
}

// group is the materialized children of one (parent, link) pair. The items
// are fetched on first use and kept until refreshed.
type group[T any] struct {
	node     *Node[T]
	link     catalog.Link
	parent   T
	children []*Node[T]
	loaded   bool
}

// LinkLister lists the related items of parent under link.
type LinkLister[T any] func(ctx context.Context, link catalog.Link, parent T) ([]T, error)

// LoaderLister lists related items through a store loader, as a master load
// of the link's type.
func LoaderLister[T any](loader store.Loader[T]) LinkLister[T] {
	return func(ctx context.Context, link catalog.Link, parent T) ([]T, error) {
		return loader.Load(ctx, store.Descriptor{LinkType: link.Type, Master: parent})
	}
}

// Tree presents a layered view cache as a tree of entities, link nodes and
// linked entities.
type Tree[T any] struct {
	roots     *viewcache.Cache[T]
	catalog   catalog.Catalog
	list      LinkLister[T]
	typeName  func(T) string
	identity  store.IdentityFunc[T]
	exclude   func(catalog.Link) bool
	flattened bool
	rootsOnly func(T) bool
	logger    viewcache.Logger

	groups map[groupKey]*group[T]
	nodes  map[string]*Node[T]
}

type groupKey struct {
	parentType string
	link       string
	parentID   string
}

// Option configures a Tree.
type Option[T any] func(*Tree[T])

// WithTypeName overrides how the catalog type of an item is derived.
func WithTypeName[T any](fn func(T) string) Option[T] {
	return func(t *Tree[T]) {
		if fn != nil {
			t.typeName = fn
		}
	}
}

// WithIdentity overrides how item identities are derived.
func WithIdentity[T any](fn store.IdentityFunc[T]) Option[T] {
	return func(t *Tree[T]) {
		if fn != nil {
			t.identity = fn
		}
	}
}

// WithExclude hides the links accepted by exclude.
func WithExclude[T any](exclude func(catalog.Link) bool) Option[T] {
	return func(t *Tree[T]) { t.exclude = exclude }
}

// WithFlattened makes the children of an entity the items of all its link
// nodes laid end to end, instead of the link nodes themselves.
func WithFlattened[T any]() Option[T] {
	return func(t *Tree[T]) { t.flattened = true }
}

// WithRootsOnly sets the predicate selecting root items. It is installed as
// the load filter of the root cache when the root type links to itself, so
// nested items only appear under their parents.
func WithRootsOnly[T any](isRoot func(T) bool) Option[T] {
	return func(t *Tree[T]) { t.rootsOnly = isRoot }
}

// WithLogger sets the logger.
func WithLogger[T any](l viewcache.Logger) Option[T] {
	return func(t *Tree[T]) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates a tree whose roots are served by roots, whose links come from
// cat and whose related items are listed by list.
func New[T any](roots *viewcache.Cache[T], cat catalog.Catalog, list LinkLister[T], opts ...Option[T]) *Tree[T] {
	t := &Tree[T]{
		roots:    roots,
		catalog:  cat,
		list:     list,
		typeName: func(item T) string { return catalog.TypeName(item) },
		identity: store.DefaultIdentity[T],
		logger:   viewcache.DefaultLogger,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.reset()
	return t
}

func (t *Tree[T]) reset() {
	t.groups = map[groupKey]*group[T]{}
	t.nodes = map[string]*Node[T]{}
}

// Roots returns the cache serving the root level.
func (t *Tree[T]) Roots() *viewcache.Cache[T] {
	return t.roots
}

// Exclude hides the links accepted by exclude from now on. Link nodes are
// dropped.
func (t *Tree[T]) Exclude(exclude func(catalog.Link) bool) {
	t.exclude = exclude
	t.reset()
}

// SelfReferencing reports whether rootType declares a link to itself. Such a
// type is shown as a tree of its own items.
func (t *Tree[T]) SelfReferencing(ctx context.Context, rootType string) (bool, error) {
	links, err := t.linksOf(ctx, rootType)
	if err != nil {
		return false, err
	}
	for _, l := range links {
		if l.Target == rootType {
			return true, nil
		}
	}
	return false, nil
}

// Prepare checks whether rootType links to itself and, if so, restricts the
// root cache to root items. It unloads the root cache when it installs the
// filter.
func (t *Tree[T]) Prepare(ctx context.Context, rootType string) error {
	if t.rootsOnly == nil {
		return nil
	}
	self, err := t.SelfReferencing(ctx, rootType)
	if err != nil {
		return err
	}
	if self {
		t.logger.Debugf("%s links to itself, loading roots only", rootType)
		t.roots.SetLoadFilter(t.rootsOnly)
	}
	return nil
}

// Entity wraps item as an Entity node.
func (t *Tree[T]) Entity(item T) *Node[T] {
	id := t.identity(item)
	if n, ok := t.nodes[id]; ok && id != "" {
		n.item = item
		return n
	}
	n := &Node[T]{kind: Entity, item: item}
	if id != "" {
		t.nodes[id] = n
	}
	return n
}

// linksOf asks the catalog on every call, so invalidations of a memoized
// catalog reach the tree.
func (t *Tree[T]) linksOf(ctx context.Context, typeName string) ([]catalog.Link, error) {
	all, err := t.catalog.LinksOf(ctx, typeName)
	if err != nil {
		return nil, err
	}
	links := make([]catalog.Link, 0, len(all))
	for _, l := range all {
		if t.exclude == nil || !t.exclude(l) {
			links = append(links, l)
		}
	}
	return links, nil
}

// groupsOf returns the link nodes of an expandable node, one per link.
func (t *Tree[T]) groupsOf(ctx context.Context, n *Node[T]) ([]*group[T], error) {
	parent := n.item
	parentType := t.typeName(parent)
	links, err := t.linksOf(ctx, parentType)
	if err != nil {
		return nil, err
	}
	parentID := t.identity(parent)
	out := make([]*group[T], 0, len(links))
	for _, l := range links {
		key := groupKey{parentType: parentType, link: l.Name, parentID: parentID}
		g, ok := t.groups[key]
		if !ok || parentID == "" {
			g = &group[T]{link: l, parent: parent}
			g.node = &Node[T]{kind: LinkNode, group: g}
			if parentID != "" {
				t.groups[key] = g
			}
		}
		out = append(out, g)
	}
	return out, nil
}

func (t *Tree[T]) load(ctx context.Context, g *group[T]) error {
	if g.loaded {
		return nil
	}
	items, err := t.list(ctx, g.link, g.parent)
	if err != nil {
		return err
	}
	g.children = make([]*Node[T], len(items))
	for i, item := range items {
		g.children[i] = &Node[T]{kind: LinkedEntity, item: item, group: g}
	}
	g.loaded = true
	return nil
}

func (t *Tree[T]) groupSize(ctx context.Context, g *group[T]) (int, error) {
	if err := t.load(ctx, g); err != nil {
		return 0, err
	}
	return len(g.children), nil
}

// HasChildren reports whether n has at least one child. For an entity it
// stops at the first link node that has items when the tree is flattened,
// and only consults the catalog otherwise.
func (t *Tree[T]) HasChildren(ctx context.Context, n *Node[T]) (bool, error) {
	switch {
	case n.kind == LinkNode:
		size, err := t.groupSize(ctx, n.group)
		return size > 0, err
	case n.expands():
		groups, err := t.groupsOf(ctx, n)
		if err != nil || !t.flattened {
			return len(groups) > 0, err
		}
		for _, g := range groups {
			size, err := t.groupSize(ctx, g)
			if err != nil {
				return false, err
			}
			if size > 0 {
				return true, nil
			}
		}
	}
	return false, nil
}

// ChildCount returns how many children of parent fall in the window. A nil
// parent counts roots.
func (t *Tree[T]) ChildCount(ctx context.Context, parent *Node[T], offset, limit int) (int, error) {
	if parent == nil {
		return t.roots.Count(ctx, offset, limit)
	}
	spans, _, err := t.window(ctx, parent, offset, limit)
	if err != nil {
		return 0, err
	}
	return pagination.Total(spans), nil
}

// FetchChildren returns the children of parent in the window. A nil parent
// fetches roots.
func (t *Tree[T]) FetchChildren(ctx context.Context, parent *Node[T], offset, limit int) ([]*Node[T], error) {
	if parent == nil {
		items, err := t.roots.Fetch(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		out := make([]*Node[T], len(items))
		for i, item := range items {
			out[i] = t.Entity(item)
		}
		return out, nil
	}
	spans, lists, err := t.window(ctx, parent, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*Node[T], 0, pagination.Total(spans))
	for _, s := range spans {
		out = append(out, lists[s.Index][s.From:s.To]...)
	}
	return out, nil
}

// window resolves the children lists of parent and the spans of them that
// the window covers. Lists past the window are never loaded.
func (t *Tree[T]) window(ctx context.Context, parent *Node[T], offset, limit int) ([]pagination.Span, [][]*Node[T], error) {
	if !pagination.Valid(offset, limit) {
		return nil, nil, viewcache.InvalidWindow(offset, limit)
	}
	switch {
	case parent.kind == LinkNode:
		if err := t.load(ctx, parent.group); err != nil {
			return nil, nil, err
		}
		lists := [][]*Node[T]{parent.group.children}
		from, to := pagination.Clamp(len(parent.group.children), offset, limit)
		if from == to {
			return nil, lists, nil
		}
		return []pagination.Span{{Index: 0, From: from, To: to}}, lists, nil
	case parent.expands():
		groups, err := t.groupsOf(ctx, parent)
		if err != nil {
			return nil, nil, err
		}
		if !t.flattened {
			nodes := make([]*Node[T], len(groups))
			for i, g := range groups {
				nodes[i] = g.node
			}
			from, to := pagination.Clamp(len(nodes), offset, limit)
			if from == to {
				return nil, [][]*Node[T]{nodes}, nil
			}
			return []pagination.Span{{Index: 0, From: from, To: to}}, [][]*Node[T]{nodes}, nil
		}
		lists := make([][]*Node[T], len(groups))
		var loadErr error
		spans := pagination.Concat(len(groups), func(i int) int {
			if loadErr != nil {
				return 0
			}
			size, err := t.groupSize(ctx, groups[i])
			if err != nil {
				loadErr = err
				return 0
			}
			lists[i] = groups[i].children
			return size
		}, offset, limit)
		if loadErr != nil {
			return nil, nil, loadErr
		}
		return spans, lists, nil
	}
	return nil, nil, nil
}

// RefreshItem refreshes one node. An entity is re-fetched by the root cache
// and its link nodes are dropped; a link node forgets its items, leaving its
// siblings alone.
func (t *Tree[T]) RefreshItem(ctx context.Context, n *Node[T]) error {
	switch n.kind {
	case LinkNode:
		n.group.children = nil
		n.group.loaded = false
		return nil
	case Entity:
		id := t.identity(n.item)
		for key := range t.groups {
			if key.parentID == id {
				delete(t.groups, key)
			}
		}
		return t.roots.Refresh(ctx, id)
	}
	return nil
}

// RefreshAll refreshes the roots and drops every link node.
func (t *Tree[T]) RefreshAll(ctx context.Context) error {
	t.groups = map[groupKey]*group[T]{}
	return t.roots.RefreshAll(ctx)
}
