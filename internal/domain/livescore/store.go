package livescore

import "context"

// Store keeps the most recent snapshot per match id.
type Store interface {
	Get(ctx context.Context, matchID string) (Snapshot, bool)
	PutMany(ctx context.Context, snapshots []Snapshot) int
}
