package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/match"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/usecase"
	basecache "github.com/riskibarqy/sports-mirror/internal/platform/cache"
)

func keyPrefix(name resource.Name) string {
	return string(name) + ":"
}

// CatalogReader caches one resource's list and lookup reads.
type CatalogReader struct {
	name  resource.Name
	next  catalog.Reader
	cache *basecache.Store
}

func NewCatalogReader(name resource.Name, next catalog.Reader, cache *basecache.Store) *CatalogReader {
	return &CatalogReader{name: name, next: next, cache: cache}
}

func (r *CatalogReader) List(ctx context.Context, query catalog.ListQuery) ([]catalog.Entity, error) {
	key := fmt.Sprintf("%slist:%s:%d:%d", keyPrefix(r.name), query.ParentID, query.Limit, query.Offset)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, query)
		if err != nil {
			return nil, err
		}
		return append([]catalog.Entity(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]catalog.Entity)
	return append([]catalog.Entity(nil), items...), nil
}

func (r *CatalogReader) GetByID(ctx context.Context, id string) (catalog.Entity, bool, error) {
	key := keyPrefix(r.name) + "id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedByID[catalog.Entity]{value: item, exists: exists}, nil
	})
	if err != nil {
		return catalog.Entity{}, false, err
	}

	cached, _ := v.(cachedByID[catalog.Entity])
	return cached.value, cached.exists, nil
}

type cachedByID[T any] struct {
	value  T
	exists bool
}

// ReaderSet wraps every reader of next with a CatalogReader sharing one store.
type ReaderSet struct {
	readers map[resource.Name]catalog.Reader
}

func NewReaderSet(next catalog.ReaderSet, registry *resource.Registry, cache *basecache.Store) *ReaderSet {
	set := &ReaderSet{readers: make(map[resource.Name]catalog.Reader)}
	for _, desc := range registry.All() {
		reader, ok := next.Reader(desc.Name)
		if !ok {
			continue
		}
		set.readers[desc.Name] = NewCatalogReader(desc.Name, reader, cache)
	}
	return set
}

func (s *ReaderSet) Reader(name resource.Name) (catalog.Reader, bool) {
	reader, ok := s.readers[name]
	return reader, ok
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) List(ctx context.Context, query match.Query) ([]match.Match, error) {
	status := "*"
	if query.StatusID != nil {
		status = strconv.Itoa(*query.StatusID)
	}
	key := fmt.Sprintf("%slist:%d:%d:%s:%s:%s:%s:%t:%d:%d", keyPrefix(resource.Matches),
		query.From, query.To, query.SeasonID, query.CompetitionID, query.TeamID,
		status, query.LiveOnly, query.Limit, query.Offset)
	return r.loadList(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.List(ctx, query)
	})
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	key := keyPrefix(resource.Matches) + "id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedByID[match.Match]{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedByID[match.Match])
	return cached.value.Clone(), cached.exists, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID string) ([]match.Match, error) {
	key := keyPrefix(resource.Matches) + "season:" + seasonID
	return r.loadList(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListBySeason(ctx, seasonID)
	})
}

func (r *MatchRepository) loadList(ctx context.Context, key string, load func(context.Context) ([]match.Match, error)) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return cloneMatches(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return cloneMatches(items), nil
}

func cloneMatches(items []match.Match) []match.Match {
	out := make([]match.Match, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// InvalidatingPublisher drops a resource's cached reads once a sync run of
// that resource completes, then forwards the event.
type InvalidatingPublisher struct {
	next  usecase.SyncEventPublisher
	cache *basecache.Store
}

func NewInvalidatingPublisher(next usecase.SyncEventPublisher, cache *basecache.Store) *InvalidatingPublisher {
	if next == nil {
		next = usecase.NewNoopSyncEventPublisher()
	}
	return &InvalidatingPublisher{next: next, cache: cache}
}

func (p *InvalidatingPublisher) PublishSyncCompleted(ctx context.Context, event usecase.SyncEvent) error {
	if event.Resource != "" {
		p.cache.DeletePrefix(ctx, keyPrefix(resource.Name(event.Resource)))
	}
	return p.next.PublishSyncCompleted(ctx, event)
}
