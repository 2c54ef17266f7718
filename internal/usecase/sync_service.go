package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/domain/syncstate"
	"github.com/riskibarqy/sports-mirror/internal/platform/id"
	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
)

const (
	ReasonForced          = "forced"
	ReasonEmptyCollection = "empty_collection"
	ReasonInitialSync     = "initial_sync"
	ReasonSteady          = "steady"
)

type SyncServiceConfig struct {
	// RetryDelay is how long a failed resource waits in the job queue before re-running.
	RetryDelay time.Duration
	// Concurrency bounds SyncAll fan-out.
	Concurrency int
}

type RunOptions struct {
	ForceFull bool `json:"force_full"`
}

type SyncResult struct {
	RunID          string               `json:"run_id"`
	Resource       string               `json:"resource"`
	Mode           syncstate.Mode       `json:"mode"`
	Reason         string               `json:"reason"`
	Synced         int                  `json:"synced"`
	Created        int                  `json:"created"`
	Updated        int                  `json:"updated"`
	Errors         []mirror.RecordError `json:"errors"`
	PagesProcessed int                  `json:"pages_processed,omitempty"`
	FailedPages    int                  `json:"failed_pages,omitempty"`
	Cleared        int64                `json:"cleared,omitempty"`
	Truncated      bool                 `json:"truncated,omitempty"`
	Incomplete     bool                 `json:"incomplete,omitempty"`
	StartedAt      time.Time            `json:"started_at"`
	DurationMS     int64                `json:"duration_ms"`
	Error          string               `json:"error,omitempty"`
}

// SyncService picks full or incremental mode per resource and keeps the persisted state.
type SyncService struct {
	registry    *resource.Registry
	collections CollectionSet
	states      syncstate.Repository
	full        *FullSyncDriver
	incremental *IncrementalSyncDriver
	events      SyncEventPublisher
	queue       JobQueue
	ids         id.Generator
	cfg         SyncServiceConfig
	logger      *logging.Logger
	now         func() time.Time

	locksMu sync.Mutex
	locks   map[resource.Name]*sync.Mutex
}

func NewSyncService(
	registry *resource.Registry,
	collections CollectionSet,
	states syncstate.Repository,
	full *FullSyncDriver,
	incremental *IncrementalSyncDriver,
	events SyncEventPublisher,
	queue JobQueue,
	ids id.Generator,
	cfg SyncServiceConfig,
	logger *logging.Logger,
) *SyncService {
	if events == nil {
		events = NewNoopSyncEventPublisher()
	}
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Minute
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		registry:    registry,
		collections: collections,
		states:      states,
		full:        full,
		incremental: incremental,
		events:      events,
		queue:       queue,
		ids:         ids,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
		locks:       make(map[resource.Name]*sync.Mutex),
	}
}

func (s *SyncService) lockFor(name resource.Name) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[name]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[name] = mu
	}
	return mu
}

func (s *SyncService) SelectAndRun(ctx context.Context, name resource.Name, opts RunOptions) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SelectAndRun", attribute.String("resource", string(name)))
	defer span.End()

	desc, ok := s.registry.Get(name)
	if !ok {
		return SyncResult{}, fmt.Errorf("%w: unknown resource %q", ErrNotFound, name)
	}
	collection, ok := s.collections.Collection(name)
	if !ok {
		return SyncResult{}, fmt.Errorf("%w: no collection for %q", ErrDependencyUnavailable, name)
	}

	lock := s.lockFor(name)
	if !lock.TryLock() {
		return SyncResult{Resource: string(name)}, fmt.Errorf("%w: %s", ErrSyncInProgress, name)
	}
	defer lock.Unlock()

	state, err := s.states.Get(ctx, string(name))
	if err != nil {
		recordSpanError(span, err)
		return SyncResult{}, fmt.Errorf("load sync state for %s: %w", name, err)
	}

	mode, reason, err := s.selectMode(ctx, collection, state, opts)
	if err != nil {
		recordSpanError(span, err)
		return SyncResult{}, err
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return SyncResult{}, fmt.Errorf("generate run id: %w", err)
	}
	started := s.now().UTC()
	result := SyncResult{RunID: runID, Resource: string(name), Mode: mode, Reason: reason, StartedAt: started}
	span.SetAttributes(attribute.String("mode", string(mode)), attribute.String("reason", reason))

	target := SyncTarget{Descriptor: desc, Collection: collection, Refresh: RefreshStrategyFor(desc.Refresh)}
	runErr := s.execute(ctx, target, mode, state, &result)
	result.DurationMS = s.now().Sub(started).Milliseconds()

	if runErr != nil {
		recordSpanError(span, runErr)
		result.Error = runErr.Error()
		s.logger.WarnContext(ctx, "sync run failed, state unchanged",
			"resource", name,
			"run_id", runID,
			"mode", string(mode),
			"error", runErr,
		)
		s.scheduleRetry(ctx, name, opts)
		return result, runErr
	}

	if result.Incomplete {
		// Pages past the failure streak were never walked; keep the old
		// watermark and retry a full walk.
		s.logger.WarnContext(ctx, "full sync incomplete, state unchanged",
			"resource", name,
			"run_id", runID,
			"synced", result.Synced,
			"failed_pages", result.FailedPages,
		)
		s.scheduleRetry(ctx, name, RunOptions{ForceFull: true})
		return result, nil
	}

	next := state.Advance(mode, runID, started, result.Synced)
	next.Resource = string(name)
	next.UpdatedAt = s.now().UTC()
	if err := s.states.Save(ctx, next); err != nil {
		recordSpanError(span, err)
		return result, fmt.Errorf("save sync state for %s: %w", name, err)
	}

	s.logger.InfoContext(ctx, "sync run finished",
		"resource", name,
		"run_id", runID,
		"mode", string(mode),
		"reason", reason,
		"synced", result.Synced,
		"created", result.Created,
		"updated", result.Updated,
		"errors", len(result.Errors),
		"duration_ms", result.DurationMS,
	)
	s.publish(ctx, result)
	return result, nil
}

func (s *SyncService) selectMode(ctx context.Context, collection Collection, state syncstate.State, opts RunOptions) (syncstate.Mode, string, error) {
	if opts.ForceFull {
		return syncstate.ModeFull, ReasonForced, nil
	}
	count, err := collection.Count(ctx)
	if err != nil {
		return "", "", fmt.Errorf("count collection: %w", err)
	}
	if count == 0 {
		return syncstate.ModeFull, ReasonEmptyCollection, nil
	}
	if state.IsInitialSync {
		return syncstate.ModeFull, ReasonInitialSync, nil
	}
	return syncstate.ModeIncremental, ReasonSteady, nil
}

func (s *SyncService) execute(ctx context.Context, target SyncTarget, mode syncstate.Mode, state syncstate.State, result *SyncResult) error {
	if mode == syncstate.ModeFull {
		out, err := s.full.Run(ctx, target)
		result.Synced = out.TotalFetched
		result.Created = out.Upsert.Created
		result.Updated = out.Upsert.Updated
		result.Errors = out.Upsert.Errors
		result.PagesProcessed = out.PagesProcessed
		result.FailedPages = out.FailedPages
		result.Cleared = out.Cleared
		result.Truncated = out.Truncated
		result.Incomplete = out.Incomplete
		return err
	}

	var since time.Time
	if state.LastSyncTime != nil {
		since = *state.LastSyncTime
	}
	out, err := s.incremental.Run(ctx, target, since)
	result.Synced = out.Synced
	result.Created = out.Upsert.Created
	result.Updated = out.Upsert.Updated
	result.Errors = out.Upsert.Errors
	return err
}

func (s *SyncService) scheduleRetry(ctx context.Context, name resource.Name, opts RunOptions) {
	if ctx.Err() != nil {
		return
	}
	at := s.now().Add(s.cfg.RetryDelay)
	dedupID := dedupKey("sync-retry", string(name), at, s.cfg.RetryDelay)
	if err := s.queue.Enqueue(ctx, "/v1/sync/"+string(name), opts, s.cfg.RetryDelay, dedupID); err != nil {
		s.logger.WarnContext(ctx, "enqueue sync retry failed", "resource", name, "dispatch_id", dedupID, "error", err)
	}
}

func (s *SyncService) publish(ctx context.Context, result SyncResult) {
	event := SyncEvent{
		RunID:      result.RunID,
		Resource:   result.Resource,
		Mode:       string(result.Mode),
		Synced:     result.Synced,
		Created:    result.Created,
		Updated:    result.Updated,
		Errors:     len(result.Errors),
		FinishedAt: s.now().UTC(),
	}
	if err := s.events.PublishSyncCompleted(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish sync event failed", "resource", result.Resource, "run_id", result.RunID, "error", err)
	}
}

// SyncAll runs every enabled resource concurrently. Results follow registry order;
// failed resources carry their error text and are joined into the returned error.
func (s *SyncService) SyncAll(ctx context.Context, opts RunOptions) ([]SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncAll")
	defer span.End()

	enabled := s.registry.Enabled()
	order := make(map[string]int, len(enabled))

	p := pool.NewWithResults[SyncResult]().
		WithContext(ctx).
		WithCollectErrored().
		WithMaxGoroutines(s.cfg.Concurrency)
	for i, desc := range enabled {
		name := desc.Name
		order[string(name)] = i
		p.Go(func(ctx context.Context) (SyncResult, error) {
			result, err := s.SelectAndRun(ctx, name, opts)
			result.Resource = string(name)
			if err != nil {
				result.Error = err.Error()
				return result, fmt.Errorf("%s: %w", name, err)
			}
			return result, nil
		})
	}

	results, err := p.Wait()
	sort.SliceStable(results, func(i, j int) bool {
		return order[results[i].Resource] < order[results[j].Resource]
	})
	if err != nil {
		recordSpanError(span, err)
	}
	return results, err
}

func (s *SyncService) States(ctx context.Context) ([]syncstate.State, error) {
	stored, err := s.states.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sync states: %w", err)
	}
	byName := make(map[string]syncstate.State, len(stored))
	for _, st := range stored {
		byName[st.Resource] = st
	}

	out := make([]syncstate.State, 0, len(s.registry.All()))
	for _, desc := range s.registry.All() {
		if st, ok := byName[string(desc.Name)]; ok {
			out = append(out, st)
			continue
		}
		out = append(out, syncstate.Initial(string(desc.Name)))
	}
	return out, nil
}

// IsSkippable reports errors the scheduler should log at info and move past.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrSyncInProgress) || errors.Is(err, context.Canceled)
}
