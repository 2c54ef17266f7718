package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
)

type SchedulerConfig struct {
	Workers      int
	LiveInterval time.Duration
}

type LiveRefresher interface {
	Refresh(ctx context.Context) (LiveRefreshResult, error)
}

// Scheduler ticks every enabled resource at its own interval and hands runs to a bounded pool.
type Scheduler struct {
	sync      *SyncService
	live      LiveRefresher
	resources []resource.Descriptor
	pool      *ants.Pool
	cfg       SchedulerConfig
	logger    *logging.Logger
	wg        sync.WaitGroup
}

// NewScheduler leaves live refresh off when live is nil.
func NewScheduler(syncSvc *SyncService, live LiveRefresher, registry *resource.Registry, cfg SchedulerConfig, logger *logging.Logger) (*Scheduler, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.LiveInterval <= 0 {
		cfg.LiveInterval = 15 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := ants.NewPool(cfg.Workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Scheduler{
		sync:      syncSvc,
		live:      live,
		resources: registry.Enabled(),
		pool:      pool,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Start runs one pass immediately, then ticks until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "resources", len(s.resources), "workers", s.cfg.Workers)

	for _, desc := range s.resources {
		s.submitSync(ctx, desc.Name)
	}
	if s.live != nil {
		s.submitLive(ctx)
	}

	var loops sync.WaitGroup
	for _, desc := range s.resources {
		desc := desc
		loops.Add(1)
		go func() {
			defer loops.Done()
			s.tick(ctx, desc.Interval, func() { s.submitSync(ctx, desc.Name) })
		}()
	}
	if s.live != nil {
		loops.Add(1)
		go func() {
			defer loops.Done()
			s.tick(ctx, s.cfg.LiveInterval, func() { s.submitLive(ctx) })
		}()
	}

	<-ctx.Done()
	loops.Wait()
	s.logger.Info("scheduler stopped")
	return ctx.Err()
}

func (s *Scheduler) tick(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

func (s *Scheduler) submitSync(ctx context.Context, name resource.Name) {
	s.submit(ctx, "sync "+string(name), func() {
		_, err := s.sync.SelectAndRun(ctx, name, RunOptions{})
		switch {
		case err == nil:
		case IsSkippable(err):
			s.logger.InfoContext(ctx, "scheduled sync skipped", "resource", name, "reason", err.Error())
		default:
			s.logger.ErrorContext(ctx, "scheduled sync failed", "resource", name, "error", err)
		}
	})
}

func (s *Scheduler) submitLive(ctx context.Context) {
	s.submit(ctx, "live scores", func() {
		if _, err := s.live.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.WarnContext(ctx, "live score refresh failed", "error", err)
		}
	})
}

func (s *Scheduler) submit(ctx context.Context, job string, fn func()) {
	if ctx.Err() != nil {
		return
	}
	s.wg.Add(1)
	err := s.pool.Submit(func() {
		defer s.wg.Done()
		fn()
	})
	if err != nil {
		s.wg.Done()
		if errors.Is(err, ants.ErrPoolOverload) {
			s.logger.WarnContext(ctx, "worker pool full, skipping tick", "job", job)
			return
		}
		s.logger.ErrorContext(ctx, "submit job failed", "job", job, "error", err)
	}
}

// Stop waits for in-flight jobs and releases the pool.
func (s *Scheduler) Stop() {
	s.wg.Wait()
	s.pool.Release()
}
