package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	usecasemock "github.com/riskibarqy/sports-mirror/internal/mocks/usecase"
)

func TestIncrementalSyncRetriesTransientFetchWithMockery(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	fetcher := usecasemock.NewPageFetcher(t)
	fetcher.On("FetchSince", mock.Anything, mock.MatchedBy(func(d resource.Descriptor) bool {
		return d.Name == resource.Teams
	}), since).Return(mirror.Page{}, errProviderDown).Once()
	fetcher.On("FetchSince", mock.Anything, mock.Anything, since).
		Return(mirror.Page{Records: entities("t", 1, 2)}, nil).Once()

	retry := NewBackoffRetry(BackoffRetryConfig{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
	}, nil)
	driver := NewIncrementalSyncDriver(fetcher, nil, retry, IncrementalSyncConfig{}, nil)

	result, err := driver.Run(context.Background(), teamsTarget(newMemCollection(), resource.RefreshAdditive), since)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Synced)
	fetcher.AssertNumberOfCalls(t, "FetchSince", 2)
}
