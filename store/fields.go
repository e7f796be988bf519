package store

import (
	"cmp"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// FieldFunc reads a named field of an item as text.
type FieldFunc[T any] func(item T, field string) (string, bool)

// FieldConditions compiles a small condition language for SliceLoader:
// comparisons "Field=Value" or "Field!=Value" joined with AND. Values are
// compared as text, case sensitively.
func FieldConditions[T any](field FieldFunc[T]) func(string) (func(T) bool, error) {
	return func(condition string) (func(T) bool, error) {
		var tests []func(T) bool
		for _, clause := range splitAnd(condition) {
			test, err := compileClause(field, clause)
			if err != nil {
				return nil, err
			}
			tests = append(tests, test)
		}
		return func(item T) bool {
			for _, test := range tests {
				if !test(item) {
					return false
				}
			}
			return true
		}, nil
	}
}

func splitAnd(condition string) []string {
	var clauses []string
	rest := condition
	for {
		i := strings.Index(strings.ToUpper(rest), " AND ")
		if i < 0 {
			break
		}
		clauses = append(clauses, strings.TrimSpace(rest[:i]))
		rest = rest[i+5:]
	}
	if rest = strings.TrimSpace(rest); rest != "" {
		clauses = append(clauses, rest)
	}
	return clauses
}

func compileClause[T any](field FieldFunc[T], clause string) (func(T) bool, error) {
	negate := false
	name, value, ok := strings.Cut(clause, "!=")
	if ok {
		negate = true
	} else if name, value, ok = strings.Cut(clause, "="); !ok {
		return nil, goerrors.New("cannot parse condition "+strconv.Quote(clause), goerrors.CategoryValidation).
			WithTextCode("INVALID_CONDITION")
	}
	name = strings.TrimSpace(name)
	value = strings.Trim(strings.TrimSpace(value), `'"`)
	return func(item T) bool {
		got, found := field(item, name)
		return (found && got == value) != negate
	}, nil
}

// FieldOrder compiles comma separated "Field [ASC|DESC]" terms into a
// comparator. Values that parse as numbers compare numerically.
func FieldOrder[T any](field FieldFunc[T]) func(string) (func(a, b T) int, error) {
	return func(orderBy string) (func(a, b T) int, error) {
		type term struct {
			name string
			desc bool
		}
		var terms []term
		for _, part := range orderTerms(orderBy) {
			fields := strings.Fields(part)
			t := term{name: fields[0]}
			if len(fields) > 1 {
				switch strings.ToUpper(fields[1]) {
				case "ASC":
				case "DESC":
					t.desc = true
				default:
					return nil, goerrors.New("cannot parse order "+strconv.Quote(part), goerrors.CategoryValidation).
						WithTextCode("INVALID_ORDER")
				}
			}
			terms = append(terms, t)
		}
		return func(a, b T) int {
			for _, t := range terms {
				av, _ := field(a, t.name)
				bv, _ := field(b, t.name)
				c := compareText(av, bv)
				if t.desc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		}, nil
	}
}

func compareText(a, b string) int {
	af, aerr := strconv.ParseFloat(a, 64)
	bf, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		return cmp.Compare(af, bf)
	}
	return strings.Compare(a, b)
}
