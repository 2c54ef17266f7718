package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/sports-mirror/internal/domain/match"
	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
)

// PageFetcher is the provider capability the sync drivers walk.
type PageFetcher interface {
	FetchPage(ctx context.Context, desc resource.Descriptor, page int) (mirror.Page, error)
	FetchSince(ctx context.Context, desc resource.Descriptor, since time.Time) (mirror.Page, error)
}

// Collection is the write side of one mirrored table.
type Collection interface {
	Count(ctx context.Context) (int64, error)
	// Save overwrites every column of the stored record and reports whether it was newly inserted.
	Save(ctx context.Context, record mirror.Record) (created bool, err error)
	Clear(ctx context.Context) (int64, error)
}

type CollectionSet interface {
	Collection(name resource.Name) (Collection, bool)
}

// LiveFeed returns the raw provider live-score tuples.
type LiveFeed interface {
	FetchLiveScores(ctx context.Context) ([][]byte, error)
}

type MatchDetailFetcher interface {
	FetchAnalysis(ctx context.Context, matchID string) (match.Analysis, error)
	FetchLineup(ctx context.Context, matchID string) (match.Lineup, error)
}

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

// SyncEvent is emitted after each successful run.
type SyncEvent struct {
	RunID      string    `json:"run_id"`
	Resource   string    `json:"resource"`
	Mode       string    `json:"mode"`
	Synced     int       `json:"synced"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Errors     int       `json:"errors"`
	FinishedAt time.Time `json:"finished_at"`
}

type SyncEventPublisher interface {
	PublishSyncCompleted(ctx context.Context, event SyncEvent) error
}

type noopSyncEventPublisher struct{}

func (noopSyncEventPublisher) PublishSyncCompleted(context.Context, SyncEvent) error { return nil }

func NewNoopSyncEventPublisher() SyncEventPublisher {
	return noopSyncEventPublisher{}
}
