package store_test

import (
	"context"
	"database/sql"
	"testing"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-view-cache/pkg/testsupport"
	"github.com/goliatone/go-view-cache/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type recordingLister struct {
	records  []testsupport.Item
	criteria []int
	ids      []string
	err      error
}

func (r *recordingLister) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]testsupport.Item, int, error) {
	r.criteria = append(r.criteria, len(criteria))
	return r.records, len(r.records), r.err
}

func (r *recordingLister) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (testsupport.Item, error) {
	r.ids = append(r.ids, id)
	for _, it := range r.records {
		if it.ID == id {
			return it, nil
		}
	}
	return testsupport.Item{}, sql.ErrNoRows
}

func TestRepositoryLoaderCriteria(t *testing.T) {
	repo := &recordingLister{records: testsupport.Items("Apple")}
	loader := store.NewRepositoryLoader[testsupport.Item](repo)

	criteria, err := loader.Criteria(store.Descriptor{})
	require.NoError(t, err)
	assert.Empty(t, criteria)

	criteria, err = loader.Criteria(store.Descriptor{Condition: "status = 1", OrderBy: "name, id DESC"})
	require.NoError(t, err)
	assert.Len(t, criteria, 2)

	_, err = loader.Criteria(store.Descriptor{Master: testsupport.NewItem("Root")})
	require.Error(t, err)
}

func TestRepositoryLoaderMasterAndSubtypes(t *testing.T) {
	repo := &recordingLister{records: testsupport.Items("Apple")}
	var gotMaster any
	loader := store.NewRepositoryLoader[testsupport.Item](repo,
		store.WithMasterCriteria[testsupport.Item](func(master any, linkType int) (repository.SelectCriteria, error) {
			gotMaster = master
			return func(q *bun.SelectQuery) *bun.SelectQuery { return q }, nil
		}),
		store.WithSubtypeCriteria[testsupport.Item](func(allow bool) repository.SelectCriteria {
			if allow {
				return nil
			}
			return func(q *bun.SelectQuery) *bun.SelectQuery { return q }
		}),
	)

	items, err := loader.Load(context.Background(), store.Descriptor{Master: "root", Condition: "x"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "root", gotMaster)
	assert.Equal(t, []int{3}, repo.criteria)
}

func TestRepositoryLoaderBacksAStore(t *testing.T) {
	repo := &recordingLister{records: testsupport.Items("Apple", "Banana")}
	st := store.New[testsupport.Item](store.NewRepositoryLoader[testsupport.Item](repo))

	require.NoError(t, st.Load(context.Background(), store.Descriptor{}))
	assert.Equal(t, 2, st.Size())

	repo.records = repo.records[:1]
	require.NoError(t, st.Refresh(context.Background(), "id-banana"))
	assert.Equal(t, []string{"id-banana"}, repo.ids)
	assert.True(t, store.IsNotFound(sql.ErrNoRows))
}
