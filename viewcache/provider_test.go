package viewcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-view-cache/pkg/testsupport"
	"github.com/goliatone/go-view-cache/viewfilter"
)

func newProvider(t *testing.T, cfg Config, names ...string) (*Provider[Item], *Cache[Item]) {
	t.Helper()
	c, _, _ := newCache(t, testsupport.Items(names...)...)
	p := NewProvider(c, cfg)
	p.RegisterSort("name", testsupport.ByName)
	return p, c
}

func providerNames(t *testing.T, p *Provider[Item], q Query) []string {
	t.Helper()
	items, err := p.Fetch(context.Background(), q)
	require.NoError(t, err)
	return testsupport.Names(items)
}

func TestProviderSortsAndMatches(t *testing.T) {
	p, _ := newProvider(t, DefaultConfig(), "Cherry", "apple", "Banana", "Avocado")

	got := providerNames(t, p, Query{Limit: 10, Sort: []SortSpec{{Key: "name"}}})
	assert.Equal(t, []string{"Avocado", "Banana", "Cherry", "apple"}, got)

	got = providerNames(t, p, Query{Limit: 10, Sort: []SortSpec{{Key: "name", Desc: true}}, Text: "A"})
	assert.Equal(t, []string{"apple", "Banana", "Avocado"}, got)
}

func TestProviderFetchAndCountShareTokenMemo(t *testing.T) {
	c, _, rec := newCache(t, testsupport.Items("foo", "bar", "foo bar", "baz")...)
	p := NewProvider(c, DefaultConfig())
	ctx := context.Background()

	n, err := p.Count(ctx, Query{Limit: 10, Text: "foo bar"})
	require.NoError(t, err)
	items, err := p.Fetch(ctx, Query{Limit: 10, Text: "bar  foo"})
	require.NoError(t, err)
	assert.Len(t, items, n)
	assert.Equal(t, 3, n)

	n2, err := p.Count(ctx, Query{Limit: 10, Text: "foo bar foo"})
	require.NoError(t, err)
	assert.Equal(t, n, n2)
	assert.Equal(t, 1, rec.Rescans)
}

func TestProviderRejectsSortWhenNotAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowSorting = false
	p, c := newProvider(t, cfg, "B", "A")
	ctx := context.Background()

	assert.Equal(t, []string{"B", "A"}, providerNames(t, p, Query{Limit: 10}))

	_, err := p.Fetch(ctx, Query{Limit: 10, Sort: []SortSpec{{Key: "name"}}})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Nil(t, c.Sorter())
	assert.Equal(t, []string{"B", "A"}, providerNames(t, p, Query{Limit: 10}))
}

func TestProviderRejectsUnknownSortKey(t *testing.T) {
	p, c := newProvider(t, DefaultConfig(), "B", "A")
	providerNames(t, p, Query{Limit: 10, Sort: []SortSpec{{Key: "name"}}})
	before := c.Sorter()

	_, err := p.Count(context.Background(), Query{Limit: 10, Sort: []SortSpec{{Key: "size"}}})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Same(t, before, c.Sorter())
}

func TestProviderReusesSorterForSameSpec(t *testing.T) {
	p, c := newProvider(t, DefaultConfig(), "B", "A")
	q := Query{Limit: 10, Sort: []SortSpec{{Key: "name"}}}
	providerNames(t, p, q)
	first := c.Sorter()
	providerNames(t, p, q)
	assert.Same(t, first, c.Sorter())

	providerNames(t, p, Query{Limit: 10})
	assert.Nil(t, c.Sorter())
}

func TestProviderOverlayWindow(t *testing.T) {
	p, _ := newProvider(t, DefaultConfig(), "A", "B", "C")
	ctx := context.Background()
	providerNames(t, p, Query{Limit: 10})

	p.Added(testsupport.NewItem("Y"))
	p.Added(testsupport.NewItem("X"))

	assert.Equal(t, []string{"X", "Y", "A"}, providerNames(t, p, Query{Limit: 3}))
	assert.Equal(t, []string{"Y", "A", "B"}, providerNames(t, p, Query{Offset: 1, Limit: 3}))
	assert.Equal(t, []string{"B", "C"}, providerNames(t, p, Query{Offset: 3, Limit: 3}))

	n, err := p.Count(ctx, Query{Offset: 1, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, p.Deleted(ctx, testsupport.NewItem("Y")))
	assert.Equal(t, []string{"X", "A"}, providerNames(t, p, Query{Limit: 2}))
}

func TestProviderAddedBeforeFirstLoadComesFromBackingStore(t *testing.T) {
	p, c := newProvider(t, DefaultConfig(), "A", "B", "X")
	require.False(t, c.Initialized())

	p.Added(testsupport.NewItem("X"))

	assert.Equal(t, []string{"A", "B", "X"}, providerNames(t, p, Query{Limit: 10}))
	assert.Equal(t, 3, c.Size())
}

func TestProviderViewFilterText(t *testing.T) {
	p, _ := newProvider(t, DefaultConfig(), "red apple", "green apple", "red cherry")
	p.FilterView("red")

	assert.Equal(t, []string{"red apple", "red cherry"}, providerNames(t, p, Query{Limit: 10}))

	cfg := DefaultConfig()
	cfg.FilterLogic = viewfilter.AND.String()
	p2, _ := newProvider(t, cfg, "red apple", "green apple", "red cherry")
	p2.FilterView("red")
	assert.Equal(t, []string{"red apple"}, providerNames(t, p2, Query{Limit: 10, Text: "apple"}))
}

func TestProviderDefaultPageSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultPageSize = 2
	p, _ := newProvider(t, cfg, "A", "B", "C")

	assert.Len(t, providerNames(t, p, Query{}), 2)

	_, err := p.Fetch(context.Background(), Query{Offset: -1})
	assert.True(t, IsConfigError(err))
}

func TestProviderRefresh(t *testing.T) {
	c, loader, _ := newCache(t, testsupport.Items("A", "B")...)
	p := NewProvider(c, DefaultConfig())
	ctx := context.Background()
	providerNames(t, p, Query{Limit: 10})

	a := testsupport.NewItem("A")
	a.Name = "Aa"
	loader.Put(a)
	require.NoError(t, p.RefreshItem(ctx, a.ID))
	assert.Equal(t, []string{"Aa", "B"}, providerNames(t, p, Query{Limit: 10}))

	b := testsupport.NewItem("B")
	b.Name = "Bb"
	loader.Put(b)
	require.NoError(t, p.Edited(ctx, b))
	require.NoError(t, p.RefreshAll(ctx))
	assert.Equal(t, []string{"Aa", "Bb"}, providerNames(t, p, Query{Limit: 10}))
}
