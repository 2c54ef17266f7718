package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
)

type EntityRepository struct {
	mu    sync.RWMutex
	name  string
	items map[string]catalog.Entity
}

func NewEntityRepository(name string, seed ...catalog.Entity) *EntityRepository {
	r := &EntityRepository{name: name, items: make(map[string]catalog.Entity, len(seed))}
	for _, item := range seed {
		r.items[item.ID] = item
	}
	return r
}

func (r *EntityRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

func (r *EntityRepository) Save(_ context.Context, record mirror.Record) (bool, error) {
	item, ok := record.(catalog.Entity)
	if !ok {
		return false, fmt.Errorf("save %s: unexpected record type %T", r.name, record)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.items[item.ID]
	r.items[item.ID] = item
	return !exists, nil
}

func (r *EntityRepository) Clear(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.items))
	r.items = make(map[string]catalog.Entity)
	return n, nil
}

func (r *EntityRepository) List(_ context.Context, query catalog.ListQuery) ([]catalog.Entity, error) {
	r.mu.RLock()
	out := make([]catalog.Entity, 0, len(r.items))
	for _, item := range r.items {
		if query.ParentID != "" && item.ParentID != query.ParentID {
			continue
		}
		out = append(out, item)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, query.Limit, query.Offset), nil
}

func (r *EntityRepository) GetByID(_ context.Context, id string) (catalog.Entity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
