package syncstate

import "time"

type Mode string

const (
	ModeFull        Mode = "full"
	ModeIncremental Mode = "incremental"
)

// State is the persisted sync bookkeeping for one resource.
type State struct {
	Resource      string     `json:"resource"`
	LastSyncTime  *time.Time `json:"last_sync_time"`
	IsInitialSync bool       `json:"is_initial_sync"`
	LastMode      Mode       `json:"last_mode,omitempty"`
	LastRunID     string     `json:"last_run_id,omitempty"`
	TotalSynced   int64      `json:"total_synced"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Initial is the cold-start state used when nothing has been persisted yet.
func Initial(resource string) State {
	return State{Resource: resource, IsInitialSync: true}
}

// Advance returns the state after a successful run that started at startedAt.
func (s State) Advance(mode Mode, runID string, startedAt time.Time, synced int) State {
	next := s
	at := startedAt.UTC()
	next.LastSyncTime = &at
	next.LastMode = mode
	next.LastRunID = runID
	next.TotalSynced += int64(synced)
	if mode == ModeFull {
		next.IsInitialSync = false
	}
	return next
}
