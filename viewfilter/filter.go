package viewfilter

import (
	"fmt"
	"strings"
)

// Projection renders an item as the text quick matching searches in.
type Projection[T any] func(T) string

// Matcher decides a match on its own, bypassing projection and the logical
// operator. It receives the raw, unfolded tokens.
type Matcher[T any] func(item T, tokens []string) bool

// Displayer is implemented by entities that declare which of their attribute
// values are shown, and therefore searched, in views.
type Displayer interface {
	DisplayValues() []string
}

// DefaultProjection renders an item from its display values, its String method
// or its default format, in that order of preference.
func DefaultProjection[T any](item T) string {
	switch v := any(item).(type) {
	case nil:
		return ""
	case Displayer:
		return strings.Join(v.DisplayValues(), " ")
	case fmt.Stringer:
		return v.String()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Filter is the quick-match state of one view: the active token set, the
// logical operator and the way items are projected or matched.
type Filter[T any] struct {
	tokens     []string
	logic      LogicalOperator
	projection Projection[T]
	matcher    Matcher[T]
}

// Option configures a Filter.
type Option[T any] func(*Filter[T])

// WithLogic sets the operator used to combine tokens.
func WithLogic[T any](op LogicalOperator) Option[T] {
	return func(f *Filter[T]) { f.logic = op }
}

// WithProjection installs a custom projection.
func WithProjection[T any](p Projection[T]) Option[T] {
	return func(f *Filter[T]) { f.projection = p }
}

// WithMatcher installs a custom matcher.
func WithMatcher[T any](m Matcher[T]) Option[T] {
	return func(f *Filter[T]) { f.matcher = m }
}

// New creates a Filter with the OR operator and the default projection.
func New[T any](opts ...Option[T]) *Filter[T] {
	f := &Filter[T]{logic: OR}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetProjection replaces the projection and clears any custom matcher. The
// token set is reset so the next SetMatchTokens reports a change.
func (f *Filter[T]) SetProjection(p Projection[T]) {
	f.projection = p
	f.matcher = nil
	f.tokens = nil
}

// SetMatcher replaces the custom matcher and clears any custom projection. The
// token set is reset so the next SetMatchTokens reports a change.
func (f *Filter[T]) SetMatcher(m Matcher[T]) {
	f.matcher = m
	f.projection = nil
	f.tokens = nil
}

// SetLogic changes the operator. The token set is kept, so callers that
// change the operator on a live view must force a rescan themselves.
func (f *Filter[T]) SetLogic(op LogicalOperator) {
	f.logic = op
}

// Logic returns the active operator.
func (f *Filter[T]) Logic() LogicalOperator {
	return f.logic
}

// Tokens returns a copy of the active token set.
func (f *Filter[T]) Tokens() []string {
	return append([]string(nil), f.tokens...)
}

// SetMatchTokens tokenizes text and makes it the active token set. It reports
// whether the set changed. With the projection based matching the comparison
// is order and duplicate insensitive; a custom matcher may care about order,
// so only an identical token sequence counts as unchanged there.
func (f *Filter[T]) SetMatchTokens(text string) bool {
	next := Tokenize(text, f.matcher == nil)
	if f.matcher != nil {
		if ExactlySame(next, f.tokens) {
			return false
		}
	} else if SameTokens(next, f.tokens) {
		return false
	}
	f.tokens = next
	return true
}

// SkipMatching reports whether the token set is empty, in which case every
// item matches and no scan is needed.
func (f *Filter[T]) SkipMatching() bool {
	return Blank(f.tokens)
}

// Match tests one item against the active token set.
func (f *Filter[T]) Match(item T) bool {
	if f.matcher != nil {
		return f.matcher(item, f.tokens)
	}
	p := f.projection
	if p == nil {
		p = DefaultProjection[T]
	}
	return Contains(f.logic, f.tokens, p(item))
}
