package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/sports-mirror/internal/domain/livescore"
	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
)

// TupleParser decodes one raw live-score tuple.
type TupleParser func(raw []byte) (livescore.Snapshot, error)

type LiveRefreshResult struct {
	Received int `json:"received"`
	Stored   int `json:"stored"`
	Skipped  int `json:"skipped"`
}

// LiveScoreService polls the provider live feed into the snapshot store.
type LiveScoreService struct {
	feed   LiveFeed
	parse  TupleParser
	store  livescore.Store
	logger *logging.Logger
	now    func() time.Time
}

func NewLiveScoreService(feed LiveFeed, parse TupleParser, store livescore.Store, logger *logging.Logger) *LiveScoreService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LiveScoreService{feed: feed, parse: parse, store: store, logger: logger, now: time.Now}
}

func (s *LiveScoreService) Refresh(ctx context.Context) (LiveRefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveScoreService.Refresh")
	defer span.End()

	tuples, err := s.feed.FetchLiveScores(ctx)
	if err != nil {
		recordSpanError(span, err)
		return LiveRefreshResult{}, fmt.Errorf("fetch live scores: %w", err)
	}

	result := LiveRefreshResult{Received: len(tuples)}
	now := s.now().UTC()
	snapshots := make([]livescore.Snapshot, 0, len(tuples))
	for i, raw := range tuples {
		snap, err := s.parse(raw)
		if err != nil {
			result.Skipped++
			s.logger.DebugContext(ctx, "skip malformed live tuple", "index", i, "error", err)
			continue
		}
		snap.UpdatedAt = now
		snapshots = append(snapshots, snap)
	}
	result.Stored = s.store.PutMany(ctx, snapshots)

	if result.Skipped > 0 {
		s.logger.WarnContext(ctx, "live score refresh skipped malformed tuples", "skipped", result.Skipped, "received", result.Received)
	}
	return result, nil
}
