package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/sports-mirror/internal/domain/syncstate"
)

type SyncStateRepository struct {
	mu     sync.RWMutex
	states map[string]syncstate.State
	now    func() time.Time
}

func NewSyncStateRepository() *SyncStateRepository {
	return &SyncStateRepository{states: make(map[string]syncstate.State), now: time.Now}
}

func (r *SyncStateRepository) Get(_ context.Context, resource string) (syncstate.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.states[resource]
	if !ok {
		return syncstate.Initial(resource), nil
	}
	return st, nil
}

func (r *SyncStateRepository) Save(_ context.Context, state syncstate.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state.UpdatedAt = r.now().UTC()
	if state.LastSyncTime != nil {
		at := *state.LastSyncTime
		state.LastSyncTime = &at
	}
	r.states[state.Resource] = state
	return nil
}

func (r *SyncStateRepository) List(context.Context) ([]syncstate.State, error) {
	r.mu.RLock()
	out := make([]syncstate.State, 0, len(r.states))
	for _, st := range r.states {
		out = append(out, st)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Resource < out[j].Resource })
	return out, nil
}
