package testsupport

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-view-cache/store"
)

// Item is the sample entity used across the view cache tests.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   int    `json:"status"`
	Kind     string `json:"kind"`
	ParentID string `json:"parent_id,omitempty"`
}

// Identity implements store.Identifiable.
func (i Item) Identity() string { return i.ID }

// DisplayValues implements viewfilter.Displayer.
func (i Item) DisplayValues() []string { return []string{i.Name} }

// EntityType names the item's type for relationship lookups.
func (i Item) EntityType() string {
	if i.Kind == "" {
		return "item"
	}
	return i.Kind
}

// NewItem builds an item whose identity is derived from its name.
func NewItem(name string) Item {
	return Item{ID: "id-" + strings.ToLower(name), Name: name}
}

// Items builds one item per name, in order.
func Items(names ...string) []Item {
	out := make([]Item, 0, len(names))
	for _, n := range names {
		out = append(out, NewItem(n))
	}
	return out
}

// Names projects items to their names, handy in assertions.
func Names(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

// ItemField reads an Item field by name for the slice loader expressions.
func ItemField(item Item, field string) (string, bool) {
	switch strings.ToLower(field) {
	case "id":
		return item.ID, true
	case "name":
		return item.Name, true
	case "status":
		return strconv.Itoa(item.Status), true
	case "kind":
		return item.Kind, true
	case "parent_id", "parentid", "parent":
		return item.ParentID, true
	}
	return "", false
}

// ByName orders items by name.
func ByName(a, b Item) int {
	return strings.Compare(a.Name, b.Name)
}

// NewLoader creates a slice loader over items that understands
// "Field=Value" conditions, "Field [DESC]" orders and master loads that
// return the master's children by ParentID.
func NewLoader(items ...Item) *store.SliceLoader[Item] {
	var loader *store.SliceLoader[Item]
	loader = store.NewSliceLoader(items,
		store.WithConditions(store.FieldConditions(ItemField)),
		store.WithOrder(store.FieldOrder(ItemField)),
		store.WithRelated(func(master any, linkType int) ([]Item, error) {
			parent, ok := master.(Item)
			if !ok {
				return nil, nil
			}
			var out []Item
			for _, it := range loader.Items() {
				if it.ParentID == parent.ID {
					out = append(out, it)
				}
			}
			return out, nil
		}),
	)
	return loader
}
