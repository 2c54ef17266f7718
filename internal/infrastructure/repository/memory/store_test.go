package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/match"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/domain/syncstate"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	registry, err := resource.NewRegistry(resource.Defaults(time.Minute))
	require.NoError(t, err)
	return NewStore(registry)
}

func TestStoreBindsEveryResource(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	for _, desc := range resource.Defaults(time.Minute) {
		_, ok := store.Collection(desc.Name)
		assert.True(t, ok, "collection %s", desc.Name)

		_, isReader := store.Reader(desc.Name)
		assert.Equal(t, desc.Kind == resource.KindEntity, isReader, "reader %s", desc.Name)
	}
}

func TestEntitySaveListClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewEntityRepository("teams")

	created, err := repo.Save(ctx, catalog.Entity{ID: "b", ParentID: "c1"})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.Save(ctx, catalog.Entity{ID: "b", Name: "renamed", ParentID: "c1"})
	require.NoError(t, err)
	assert.False(t, created)
	_, _ = repo.Save(ctx, catalog.Entity{ID: "a", ParentID: "c1"})
	_, _ = repo.Save(ctx, catalog.Entity{ID: "c", ParentID: "c2"})

	items, err := repo.List(ctx, catalog.ListQuery{ParentID: "c1"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "renamed", items[1].Name)

	page, err := repo.List(ctx, catalog.ListQuery{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].ID)

	empty, err := repo.List(ctx, catalog.ListQuery{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)

	n, err := repo.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = repo.Save(ctx, match.Match{ID: "m1"})
	require.Error(t, err)
}

func TestMatchQueryFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(
		match.Match{ID: "m1", SeasonID: "s1", HomeTeamID: "a", AwayTeamID: "b", StatusID: match.StatusEnd, MatchTime: 100},
		match.Match{ID: "m2", SeasonID: "s1", HomeTeamID: "b", AwayTeamID: "c", StatusID: match.StatusHalfTime, MatchTime: 200},
		match.Match{ID: "m3", SeasonID: "s2", HomeTeamID: "c", AwayTeamID: "a", StatusID: match.StatusNotStarted, MatchTime: 300},
	)

	byTeam, err := repo.List(ctx, match.Query{TeamID: "a"})
	require.NoError(t, err)
	require.Len(t, byTeam, 2)
	assert.Equal(t, "m1", byTeam[0].ID)

	live, err := repo.List(ctx, match.Query{LiveOnly: true})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "m2", live[0].ID)

	status := match.StatusNotStarted
	upcoming, err := repo.List(ctx, match.Query{StatusID: &status, From: 250, To: 400})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)

	season, err := repo.ListBySeason(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, season, 2)
}

func TestMatchRepositoryReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(match.Match{ID: "m1", HomeScores: []int{1}})

	got, _, _ := repo.GetByID(ctx, "m1")
	got.HomeScores[0] = 9

	again, _, _ := repo.GetByID(ctx, "m1")
	assert.Equal(t, 1, again.HomeScore())
}

func TestSyncStateRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSyncStateRepository()

	st, err := repo.Get(ctx, "teams")
	require.NoError(t, err)
	assert.True(t, st.IsInitialSync)

	require.NoError(t, repo.Save(ctx, st.Advance(syncstate.ModeFull, "run-1", time.Now(), 5)))
	st, err = repo.Get(ctx, "teams")
	require.NoError(t, err)
	assert.False(t, st.IsInitialSync)
	assert.False(t, st.UpdatedAt.IsZero())

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
