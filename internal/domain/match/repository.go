package match

import "context"

type Query struct {
	From          int64
	To            int64
	SeasonID      string
	CompetitionID string
	TeamID        string
	StatusID      *int
	LiveOnly      bool
	Limit         int
	Offset        int
}

// Repository exposes match read operations.
type Repository interface {
	List(ctx context.Context, query Query) ([]Match, error)
	GetByID(ctx context.Context, id string) (Match, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Match, error)
}
