package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
)

type stubReader struct {
	items     map[string]catalog.Entity
	lastQuery catalog.ListQuery
}

func (r *stubReader) List(_ context.Context, query catalog.ListQuery) ([]catalog.Entity, error) {
	r.lastQuery = query
	out := make([]catalog.Entity, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *stubReader) GetByID(_ context.Context, id string) (catalog.Entity, bool, error) {
	item, ok := r.items[id]
	return item, ok, nil
}

type stubReaders map[resource.Name]catalog.Reader

func (s stubReaders) Reader(name resource.Name) (catalog.Reader, bool) {
	r, ok := s[name]
	return r, ok
}

func TestCatalogServiceClampsLimit(t *testing.T) {
	t.Parallel()

	reader := &stubReader{items: map[string]catalog.Entity{"t1": {ID: "t1"}}}
	svc := NewCatalogService(stubReaders{resource.Teams: reader})

	_, err := svc.List(context.Background(), resource.Teams, catalog.ListQuery{Limit: 5000, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, maxListLimit, reader.lastQuery.Limit)
	assert.Zero(t, reader.lastQuery.Offset)

	_, err = svc.List(context.Background(), resource.Teams, catalog.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, reader.lastQuery.Limit)
}

func TestCatalogServiceGet(t *testing.T) {
	t.Parallel()

	reader := &stubReader{items: map[string]catalog.Entity{"t1": {ID: "t1", Name: "Arsenal"}}}
	svc := NewCatalogService(stubReaders{resource.Teams: reader})

	item, err := svc.Get(context.Background(), resource.Teams, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", item.Name)

	_, err = svc.Get(context.Background(), resource.Teams, "t9")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), resource.Matches, "t1")
	require.ErrorIs(t, err, ErrNotFound, "matches are not a catalog resource")
}
