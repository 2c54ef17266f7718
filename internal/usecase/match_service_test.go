package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-mirror/internal/domain/livescore"
	"github.com/riskibarqy/sports-mirror/internal/domain/match"
	matchmock "github.com/riskibarqy/sports-mirror/internal/mocks/domain/match"
)

type stubDetails struct {
	analysis match.Analysis
	lineup   match.Lineup
	err      error
}

func (s stubDetails) FetchAnalysis(context.Context, string) (match.Analysis, error) {
	return s.analysis, s.err
}

func (s stubDetails) FetchLineup(context.Context, string) (match.Lineup, error) {
	return s.lineup, s.err
}

func TestMatchServiceListFiltersByDateAndLive(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.On("List", mock.Anything, mock.MatchedBy(func(q match.Query) bool {
		return q.From == day.Unix() && q.To == day.Add(24*time.Hour).Unix() && q.Limit == defaultListLimit && q.LiveOnly
	})).Return([]match.Match{
		{ID: "m1", StatusID: match.StatusFirstHalf, MatchTime: day.Unix() + 3600},
		{ID: "m2", StatusID: match.StatusNotStarted, MatchTime: day.Unix() + 7200},
	}, nil).Once()

	store := newMemLiveStore(livescore.Snapshot{MatchID: "m1", StatusID: match.StatusFirstHalf, IsLive: true})
	svc := NewMatchService(repo, NewOverlayService(store), nil)

	views, err := svc.List(context.Background(), MatchQuery{Date: "2026-03-01", LiveOnly: true})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "m1", views[0].ID)
}

func TestMatchServiceListRejectsBadDate(t *testing.T) {
	t.Parallel()

	svc := NewMatchService(matchmock.NewRepository(t), nil, nil)
	_, err := svc.List(context.Background(), MatchQuery{Date: "01/03/2026"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMatchServiceGetNotFound(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	repo.On("GetByID", mock.Anything, "missing").Return(match.Match{}, false, nil).Once()

	_, err := NewMatchService(repo, nil, nil).Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMatchServiceDetailsRequireProvider(t *testing.T) {
	t.Parallel()

	svc := NewMatchService(matchmock.NewRepository(t), nil, nil)
	_, err := svc.HeadToHead(context.Background(), "m1")
	require.ErrorIs(t, err, ErrDependencyUnavailable)
	_, err = svc.Lineup(context.Background(), "m1")
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestMatchServiceLineupAndAnalysis(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	repo.On("GetByID", mock.Anything, "m1").Return(match.Match{ID: "m1"}, true, nil).Twice()

	details := stubDetails{
		analysis: match.Analysis{HeadToHead: []match.HistoryEntry{{MatchID: "old"}}},
		lineup:   match.Lineup{Confirmed: true, HomeFormation: "4-3-3"},
	}
	svc := NewMatchService(repo, nil, details)

	analysis, err := svc.HeadToHead(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", analysis.MatchID)
	assert.Len(t, analysis.HeadToHead, 1)

	lineup, err := svc.Lineup(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", lineup.MatchID)
	assert.Equal(t, "4-3-3", lineup.HomeFormation)
}

func TestMatchServiceDetailErrorIsDependencyFailure(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	repo.On("GetByID", mock.Anything, "m1").Return(match.Match{ID: "m1"}, true, nil).Once()

	_, err := NewMatchService(repo, nil, stubDetails{err: errors.New("timeout")}).Lineup(context.Background(), "m1")
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}
