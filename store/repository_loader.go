package store

import (
	"context"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Lister is the part of a go-repository-bun repository a RepositoryLoader
// needs. Any repository.Repository[T] satisfies it.
type Lister[T any] interface {
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error)
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error)
}

// MasterCriteria narrows a query to the items linked to master.
type MasterCriteria func(master any, linkType int) (repository.SelectCriteria, error)

// RepositoryLoader loads raw layers from a repository. The descriptor's
// condition becomes a WHERE clause and its order a list of ORDER BY terms.
type RepositoryLoader[T any] struct {
	repo     Lister[T]
	master   MasterCriteria
	subtypes func(allow bool) repository.SelectCriteria
	extra    []repository.SelectCriteria
}

// RepositoryOption configures a RepositoryLoader.
type RepositoryOption[T any] func(*RepositoryLoader[T])

// WithMasterCriteria enables master loads.
func WithMasterCriteria[T any](fn MasterCriteria) RepositoryOption[T] {
	return func(l *RepositoryLoader[T]) { l.master = fn }
}

// WithSubtypeCriteria maps the descriptor's AllowSubtypes flag to criteria,
// for schemas that store several entity kinds in one table.
func WithSubtypeCriteria[T any](fn func(allow bool) repository.SelectCriteria) RepositoryOption[T] {
	return func(l *RepositoryLoader[T]) { l.subtypes = fn }
}

// WithBaseCriteria adds criteria applied to every load.
func WithBaseCriteria[T any](criteria ...repository.SelectCriteria) RepositoryOption[T] {
	return func(l *RepositoryLoader[T]) { l.extra = append(l.extra, criteria...) }
}

// NewRepositoryLoader creates a loader over repo.
func NewRepositoryLoader[T any](repo Lister[T], opts ...RepositoryOption[T]) *RepositoryLoader[T] {
	l := &RepositoryLoader[T]{repo: repo}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Criteria translates a descriptor into repository criteria.
func (l *RepositoryLoader[T]) Criteria(d Descriptor) ([]repository.SelectCriteria, error) {
	criteria := append([]repository.SelectCriteria(nil), l.extra...)

	if !d.WholeType() {
		if l.master == nil {
			return nil, unsupported("master loads need master criteria")
		}
		c, err := l.master(d.Master, d.LinkType)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}

	if cond := strings.TrimSpace(d.Condition); cond != "" {
		criteria = append(criteria, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(cond)
		})
	}

	if l.subtypes != nil {
		if c := l.subtypes(d.AllowSubtypes); c != nil {
			criteria = append(criteria, c)
		}
	}

	if orders := orderTerms(d.OrderBy); len(orders) > 0 {
		criteria = append(criteria, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order(orders...)
		})
	}
	return criteria, nil
}

func orderTerms(orderBy string) []string {
	var terms []string
	for _, part := range strings.Split(orderBy, ",") {
		if part = strings.TrimSpace(part); part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}

// Load implements Loader.
func (l *RepositoryLoader[T]) Load(ctx context.Context, d Descriptor) ([]T, error) {
	criteria, err := l.Criteria(d)
	if err != nil {
		return nil, err
	}
	records, _, err := l.repo.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Fetch implements Loader.
func (l *RepositoryLoader[T]) Fetch(ctx context.Context, id string) (T, error) {
	return l.repo.GetByID(ctx, id, l.extra...)
}
