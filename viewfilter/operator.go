package viewfilter

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// LogicalOperator combines the per-token containment tests.
type LogicalOperator int

const (
	OR LogicalOperator = iota
	AND
	NotOR
	NotAND
)

func (op LogicalOperator) String() string {
	switch op {
	case OR:
		return "OR"
	case AND:
		return "AND"
	case NotOR:
		return "NOT_OR"
	case NotAND:
		return "NOT_AND"
	default:
		return "UNKNOWN"
	}
}

// ParseOperator parses the textual form of an operator. Matching is case
// insensitive and accepts "-" or " " in place of "_".
func ParseOperator(s string) (LogicalOperator, error) {
	norm := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToUpper(strings.TrimSpace(s)))
	switch norm {
	case "", "OR":
		return OR, nil
	case "AND":
		return AND, nil
	case "NOT_OR", "NOR":
		return NotOR, nil
	case "NOT_AND", "NAND":
		return NotAND, nil
	}
	return OR, goerrors.New("unknown logical operator "+s, goerrors.CategoryValidation).
		WithTextCode("UNKNOWN_OPERATOR")
}

// Contains reports whether text satisfies the token set under op. Tokens are
// expected to be folded already; text is folded here.
func Contains(op LogicalOperator, tokens []string, text string) bool {
	text = fold(text)
	truth := op == AND || op == NotOR
	for _, tok := range tokens {
		found := strings.Contains(text, tok)
		switch op {
		case OR:
			if found {
				return true
			}
		case AND:
			if !found {
				return false
			}
		case NotOR:
			if found {
				return false
			}
		case NotAND:
			if !found {
				return true
			}
		}
	}
	return truth
}

// Predicate builds a reusable item predicate from a token set.
func Predicate[T any](op LogicalOperator, tokens []string, projection Projection[T]) func(T) bool {
	if projection == nil {
		projection = DefaultProjection[T]
	}
	return func(item T) bool {
		return Contains(op, tokens, projection(item))
	}
}

// All returns a predicate that holds when every predicate holds. Nil
// predicates are ignored.
func All[T any](preds ...func(T) bool) func(T) bool {
	return func(item T) bool {
		for _, p := range preds {
			if p != nil && !p(item) {
				return false
			}
		}
		return true
	}
}

// Any returns a predicate that holds when at least one predicate holds.
func Any[T any](preds ...func(T) bool) func(T) bool {
	return func(item T) bool {
		for _, p := range preds {
			if p != nil && p(item) {
				return true
			}
		}
		return false
	}
}

// Not negates a predicate.
func Not[T any](pred func(T) bool) func(T) bool {
	return func(item T) bool {
		return !pred(item)
	}
}
