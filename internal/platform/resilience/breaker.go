package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Breaker trips after consecutive failures and probes again after OpenTimeout.
// A nil *Breaker allows everything.
type Breaker struct {
	mu  sync.Mutex
	cfg BreakerConfig

	state     State
	failures  int
	openedAt  time.Time
	probes    int
	successes int

	now           func() time.Time
	onStateChange func(from, to State)
}

// NewBreaker returns nil when cfg is disabled.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if !cfg.Enabled {
		return nil
	}
	return &Breaker{cfg: cfg.Normalize(), state: StateClosed, now: time.Now}
}

// OnStateChange registers a hook called with the lock held; it must not call back into b.
func (b *Breaker) OnStateChange(fn func(from, to State)) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.onStateChange = fn
	b.mu.Unlock()
}

func (b *Breaker) Allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.transition(StateHalfOpen)
	}
	if b.state == StateHalfOpen {
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

func (b *Breaker) Record(err error) {
	if err == nil {
		b.RecordSuccess()
		return
	}
	b.RecordFailure()
}

func (b *Breaker) RecordSuccess() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
			b.transition(StateClosed)
		}
	}
}

func (b *Breaker) RecordFailure() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		b.transition(StateOpen)
	case StateOpen:
		b.openedAt = b.now()
	}
}

// Execute runs fn when allowed and records its outcome. Errors for which
// ignore returns true count as success (e.g. a 404 is not a dependency fault).
func (b *Breaker) Execute(fn func() error, ignore func(error) bool) error {
	if err := b.Allow(); err != nil {
		return err
	}
	err := fn()
	if err != nil && ignore != nil && ignore(err) {
		b.RecordSuccess()
		return err
	}
	b.Record(err)
	return err
}

func (b *Breaker) State() State {
	if b == nil {
		return StateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	b.probes = 0
	b.successes = 0
	switch to {
	case StateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	case StateOpen:
		b.openedAt = b.now()
	}
	if from != to && b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}
