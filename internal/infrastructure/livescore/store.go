package livescore

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/riskibarqy/sports-mirror/internal/domain/livescore"
)

const (
	defaultTTL     = 2 * time.Minute
	defaultMaxSize = 10_000
)

// Store holds the latest snapshot per match. A snapshot not refreshed within
// ttl is treated as gone, so matches drop off the overlay once the feed stops
// reporting them.
type Store struct {
	cache *otter.Cache[string, livescore.Snapshot]
}

func NewStore(ttl time.Duration, maxSize int) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	return &Store{cache: otter.Must(&otter.Options[string, livescore.Snapshot]{
		MaximumSize:      maxSize,
		ExpiryCalculator: otter.ExpiryWriting[string, livescore.Snapshot](ttl),
	})}
}

func (s *Store) Get(_ context.Context, matchID string) (livescore.Snapshot, bool) {
	if matchID == "" {
		return livescore.Snapshot{}, false
	}
	return s.cache.GetIfPresent(matchID)
}

// PutMany stores every snapshot with a match id and returns how many were kept.
func (s *Store) PutMany(_ context.Context, snapshots []livescore.Snapshot) int {
	stored := 0
	for _, snap := range snapshots {
		if snap.MatchID == "" {
			continue
		}
		_, _ = s.cache.Set(snap.MatchID, snap)
		stored++
	}
	return stored
}

func (s *Store) Len() int {
	return s.cache.EstimatedSize()
}

var _ livescore.Store = (*Store)(nil)
