package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
)

func TestIncrementalSyncDefaultsToLookback(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fetcher := &stubFetcher{since: pageResponse{page: mirror.Page{Records: entities("t", 1, 3)}}}
	driver := NewIncrementalSyncDriver(fetcher, nil, nil, IncrementalSyncConfig{}, nil)
	driver.now = func() time.Time { return now }

	result, err := driver.Run(context.Background(), teamsTarget(newMemCollection(), resource.RefreshAdditive), time.Time{})
	require.NoError(t, err)

	require.Len(t, fetcher.sinceArgs, 1)
	assert.True(t, fetcher.sinceArgs[0].Equal(now.Add(-time.Hour)), "since=%s", fetcher.sinceArgs[0])
	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, 3, result.Upsert.Created)
}

func TestIncrementalSyncUsesGivenSince(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	fetcher := &stubFetcher{since: pageResponse{page: mirror.Page{
		Rejected: []mirror.RecordError{{ID: "t9", Reason: "decode"}},
	}}}
	driver := NewIncrementalSyncDriver(fetcher, nil, nil, IncrementalSyncConfig{}, nil)

	result, err := driver.Run(context.Background(), teamsTarget(newMemCollection(), resource.RefreshAdditive), since)
	require.NoError(t, err)
	assert.True(t, fetcher.sinceArgs[0].Equal(since))
	assert.Zero(t, result.Synced)
	assert.Len(t, result.Upsert.Errors, 1)
}

func TestIncrementalSyncSurfacesFetchError(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{since: pageResponse{err: errProviderDown}}
	driver := NewIncrementalSyncDriver(fetcher, nil, nil, IncrementalSyncConfig{}, nil)

	_, err := driver.Run(context.Background(), teamsTarget(newMemCollection(), resource.RefreshAdditive), time.Now())
	require.True(t, errors.Is(err, errProviderDown), "err=%v", err)
}
