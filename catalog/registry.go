package catalog

import (
	"context"
	"slices"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

// Registry is a Catalog populated by explicit registration, usually at
// startup. It is safe for concurrent use.
type Registry struct {
	links *xsync.MapOf[string, []Link]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{links: xsync.NewMapOf[string, []Link]()}
}

// Register appends links to the declarations of typeName.
func (r *Registry) Register(typeName string, links ...Link) {
	r.links.Compute(typeName, func(old []Link, loaded bool) ([]Link, bool) {
		return append(slices.Clone(old), links...), false
	})
}

// LinksOf implements Catalog. Unknown types have no links.
func (r *Registry) LinksOf(ctx context.Context, typeName string) ([]Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	links, _ := r.links.Load(typeName)
	return slices.Clone(links), nil
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	var out []string
	r.links.Range(func(key string, _ []Link) bool {
		out = append(out, key)
		return true
	})
	sort.Strings(out)
	return out
}
