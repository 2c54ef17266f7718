package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, now *time.Time) *Breaker {
	b := NewBreaker(BreakerConfig{Enabled: true, FailureThreshold: threshold, OpenTimeout: 5 * time.Second, HalfOpenMaxReq: 1})
	b.now = func() time.Time { return *now }
	return b
}

func TestBreakerTransitions(t *testing.T) {
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(2, &now)

	var changes []State
	b.OnStateChange(func(_, to State) { changes = append(changes, to) })

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}
	b.RecordFailure()
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}
	b.RecordSuccess()
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []State{StateOpen, StateHalfOpen, StateClosed}
	if len(changes) != len(want) {
		t.Fatalf("unexpected transitions %v", changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Fatalf("transition %d = %s, want %s", i, changes[i], want[i])
		}
	}
}

func TestBreakerExecuteIgnoresClassifiedErrors(t *testing.T) {
	now := time.Now()
	b := newTestBreaker(1, &now)
	notFound := errors.New("not found")

	err := b.Execute(func() error { return notFound }, func(err error) bool { return errors.Is(err, notFound) })
	if !errors.Is(err, notFound) {
		t.Fatalf("expected passthrough error, got %v", err)
	}
	if state := b.State(); state != StateClosed {
		t.Fatalf("ignored error must not trip breaker, got %s", state)
	}

	_ = b.Execute(func() error { return errors.New("bad gateway") }, nil)
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected open after counted failure, got %s", state)
	}
}

func TestNilBreakerAllowsEverything(t *testing.T) {
	b := NewBreaker(BreakerConfig{Enabled: false})
	if b != nil {
		t.Fatalf("disabled config should yield nil breaker")
	}
	if err := b.Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("nil breaker rejected call: %v", err)
	}
	if b.State() != StateClosed {
		t.Fatalf("nil breaker must report closed")
	}
}
