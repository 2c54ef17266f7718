package catalog

import (
	"context"

	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
)

type ListQuery struct {
	Limit    int
	Offset   int
	ParentID string
}

// Reader exposes catalog read operations for one resource.
type Reader interface {
	List(ctx context.Context, query ListQuery) ([]Entity, error)
	GetByID(ctx context.Context, id string) (Entity, bool, error)
}

// ReaderSet resolves the reader bound to one catalog resource.
type ReaderSet interface {
	Reader(name resource.Name) (Reader, bool)
}
