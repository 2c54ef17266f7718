package usecase

import (
	"context"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
)

// SyncTarget binds a resource descriptor to where its records are written.
type SyncTarget struct {
	Descriptor resource.Descriptor
	Collection Collection
	Refresh    RefreshStrategy
}

type FullSyncConfig struct {
	PageDelay              time.Duration
	MaxConsecutiveFailures int
	// MaxPages caps the walk; 0 means unlimited.
	MaxPages int
}

type FullSyncResult struct {
	TotalFetched   int
	PagesProcessed int
	FailedPages    int
	Cleared        int64
	Truncated      bool
	// Incomplete marks a walk cut short by consecutive page failures. The
	// MaxPages cap truncates without setting it.
	Incomplete bool
	Upsert     UpsertResult
}

type loopStep int

const (
	stepContinue loopStep = iota
	stepStop
	stepAbort
)

// FullSyncDriver walks provider pages from 1 upward until the detector signals the end.
type FullSyncDriver struct {
	fetcher  PageFetcher
	writer   *UpsertWriter
	retry    RetryStrategy
	newPacer func(time.Duration) Pacer
	cfg      FullSyncConfig
	logger   *logging.Logger
}

func NewFullSyncDriver(fetcher PageFetcher, writer *UpsertWriter, retry RetryStrategy, cfg FullSyncConfig, logger *logging.Logger) *FullSyncDriver {
	if writer == nil {
		writer = NewUpsertWriter(nil)
	}
	if retry == nil {
		retry = NewNoRetry()
	}
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = 10
	}
	if cfg.PageDelay < 0 {
		cfg.PageDelay = 0
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FullSyncDriver{
		fetcher:  fetcher,
		writer:   writer,
		retry:    retry,
		newPacer: NewFixedPacer,
		cfg:      cfg,
		logger:   logger,
	}
}

// fullSyncRun is the mutable state of one Run call.
type fullSyncRun struct {
	target              SyncTarget
	page                int
	seen                mapset.Set[string]
	consecutiveFailures int
	lastErr             error
	result              FullSyncResult
}

func (d *FullSyncDriver) Run(ctx context.Context, target SyncTarget) (FullSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FullSyncDriver.Run", attribute.String("resource", string(target.Descriptor.Name)))
	defer span.End()

	run := &fullSyncRun{
		target: target,
		page:   1,
		seen:   mapset.NewThreadUnsafeSet[string](),
		result: FullSyncResult{Upsert: UpsertResult{Errors: []mirror.RecordError{}}},
	}

	refresh := target.Refresh
	if refresh == nil {
		refresh = RefreshStrategyFor(target.Descriptor.Refresh)
	}
	cleared, err := refresh.BeforeFullSync(ctx, target.Collection)
	if err != nil {
		recordSpanError(span, err)
		return run.result, fmt.Errorf("%s refresh for %s: %w", refresh.Name(), target.Descriptor.Name, err)
	}
	run.result.Cleared = cleared

	pacer := d.newPacer(d.cfg.PageDelay)
	for {
		step, err := d.step(ctx, run)
		switch step {
		case stepAbort:
			recordSpanError(span, err)
			return run.result, err
		case stepStop:
			span.SetAttributes(attribute.Int("pages_processed", run.result.PagesProcessed), attribute.Int("total_fetched", run.result.TotalFetched))
			return run.result, nil
		}

		run.page++
		if d.cfg.MaxPages > 0 && run.page > d.cfg.MaxPages {
			run.result.Truncated = true
			d.logger.WarnContext(ctx, "full sync page cap reached", "resource", target.Descriptor.Name, "max_pages", d.cfg.MaxPages)
			return run.result, nil
		}
		if err := pacer.Wait(ctx); err != nil {
			recordSpanError(span, err)
			return run.result, err
		}
	}
}

func (d *FullSyncDriver) step(ctx context.Context, run *fullSyncRun) (loopStep, error) {
	name := run.target.Descriptor.Name

	var page mirror.Page
	err := d.retry.Do(ctx, func(ctx context.Context) error {
		var fetchErr error
		page, fetchErr = d.fetcher.FetchPage(ctx, run.target.Descriptor, run.page)
		return fetchErr
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stepAbort, ctxErr
		}
		return d.pageFailed(ctx, run, err)
	}
	run.consecutiveFailures = 0
	run.result.Upsert.Errors = append(run.result.Upsert.Errors, page.Rejected...)

	if len(page.Records) == 0 && !page.Empty() {
		d.logger.WarnContext(ctx, "page had no decodable records, advancing",
			"resource", name,
			"page", run.page,
			"rejected", len(page.Rejected),
		)
		return stepContinue, nil
	}

	verdict := DetectPageEnd(page.Records, run.seen)
	if verdict.NearEnd() {
		d.logger.InfoContext(ctx, "page mostly duplicates, likely near end",
			"resource", name,
			"page", run.page,
			"new_ratio", verdict.NewRatio,
		)
	}

	if len(verdict.New) > 0 {
		written, err := d.writer.Write(ctx, run.target.Collection, verdict.New)
		run.result.Upsert.Merge(written)
		if err != nil {
			return stepAbort, err
		}
		run.result.TotalFetched += len(verdict.New)
		run.result.PagesProcessed++
	}

	if !verdict.Continue {
		d.logger.DebugContext(ctx, "full sync reached end of pages", "resource", name, "page", run.page, "reason", string(verdict.Reason))
		return stepStop, nil
	}
	return stepContinue, nil
}

func (d *FullSyncDriver) pageFailed(ctx context.Context, run *fullSyncRun, err error) (loopStep, error) {
	run.result.FailedPages++
	run.consecutiveFailures++
	run.lastErr = err
	d.logger.WarnContext(ctx, "fetch page failed, advancing",
		"resource", run.target.Descriptor.Name,
		"page", run.page,
		"consecutive_failures", run.consecutiveFailures,
		"error", err,
	)

	if run.consecutiveFailures < d.cfg.MaxConsecutiveFailures {
		return stepContinue, nil
	}
	if run.result.TotalFetched == 0 {
		return stepAbort, fmt.Errorf("%w: %s failed %d consecutive pages: %w", ErrSystemicFailure, run.target.Descriptor.Name, run.consecutiveFailures, run.lastErr)
	}
	run.result.Truncated = true
	run.result.Incomplete = true
	d.logger.WarnContext(ctx, "full sync stopped after consecutive failures",
		"resource", run.target.Descriptor.Name,
		"page", run.page,
		"total_fetched", run.result.TotalFetched,
	)
	return stepStop, nil
}
