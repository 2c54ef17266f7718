package syncstate

import "context"

// Repository persists per-resource sync state. Get returns Initial when no row exists.
type Repository interface {
	Get(ctx context.Context, resource string) (State, error)
	Save(ctx context.Context, state State) error
	List(ctx context.Context) ([]State, error)
}
