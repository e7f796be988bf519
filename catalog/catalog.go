package catalog

import (
	"context"
	"reflect"
	"strings"
	"unicode"
)

// Link describes one child relationship of a parent type.
type Link struct {
	// Name labels the relationship in views.
	Name string `json:"name"`
	// Target is the type name of the related items.
	Target string `json:"target"`
	// Detail marks owned children, which are expanded recursively.
	Detail bool `json:"detail"`
	// Type is the link type passed to the backing store when listing the
	// related items of a master.
	Type int `json:"type"`
}

// Catalog returns the declared links of a type, in declaration order.
type Catalog interface {
	LinksOf(ctx context.Context, typeName string) ([]Link, error)
}

// Func adapts a function to a Catalog.
type Func func(ctx context.Context, typeName string) ([]Link, error)

// LinksOf implements Catalog.
func (f Func) LinksOf(ctx context.Context, typeName string) ([]Link, error) {
	return f(ctx, typeName)
}

// Typed is implemented by entities that report their catalog type name.
type Typed interface {
	EntityType() string
}

// TypeName returns the catalog type name of v: its EntityType when it is
// Typed, otherwise the snake_case name of its Go type.
func TypeName(v any) string {
	if t, ok := v.(Typed); ok {
		return t.EntityType()
	}
	rt := reflect.TypeOf(v)
	if rt == nil {
		return ""
	}
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	name := rt.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return toSnake(name)
}

// toSnake converts a Go type name to snake_case, dropping punctuation.
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	sep := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
			b.WriteByte('_')
		}
	}
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sep()
				}
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLower(r), unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			sep()
		}
	}
	return strings.Trim(b.String(), "_")
}
