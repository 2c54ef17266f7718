package usecase

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
)

// RetryStrategy runs one provider request with whatever retry policy it implements.
type RetryStrategy interface {
	Do(ctx context.Context, op func(ctx context.Context) error) error
}

type noRetry struct{}

func (noRetry) Do(ctx context.Context, op func(ctx context.Context) error) error {
	return op(ctx)
}

// NewNoRetry returns a strategy that runs op exactly once.
func NewNoRetry() RetryStrategy {
	return noRetry{}
}

type BackoffRetryConfig struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// Retryable decides which errors are worth another attempt. Nil retries everything.
	Retryable func(error) bool
}

// BackoffRetry retries with exponential backoff and jitter.
type BackoffRetry struct {
	cfg    BackoffRetryConfig
	logger *logging.Logger
}

func NewBackoffRetry(cfg BackoffRetryConfig, logger *logging.Logger) *BackoffRetry {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BackoffRetry{cfg: cfg, logger: logger}
}

func (r *BackoffRetry) Do(ctx context.Context, op func(ctx context.Context) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.cfg.InitialInterval
	policy.MaxInterval = r.cfg.MaxInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := op(ctx)
		if err == nil {
			return struct{}{}, nil
		}
		if ctx.Err() != nil || (r.cfg.Retryable != nil && !r.cfg.Retryable(err)) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(r.cfg.MaxAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			r.logger.WarnContext(ctx, "provider request failed, retrying", "wait", wait.String(), "error", err)
		}),
	)
	return err
}
