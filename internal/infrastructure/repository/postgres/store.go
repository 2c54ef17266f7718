package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

// Store binds every registered resource to its table.
type Store struct {
	entities map[resource.Name]*EntityRepository
	matches  *MatchRepository
	states   *SyncStateRepository
}

func NewStore(db *sqlx.DB, registry *resource.Registry) *Store {
	s := &Store{
		entities: make(map[resource.Name]*EntityRepository),
		matches:  NewMatchRepository(db),
		states:   NewSyncStateRepository(db),
	}
	for _, desc := range registry.All() {
		if desc.Kind == resource.KindEntity {
			s.entities[desc.Name] = NewEntityRepository(db, desc.Table())
		}
	}
	return s
}

func (s *Store) Collection(name resource.Name) (usecase.Collection, bool) {
	if name == resource.Matches {
		return s.matches, true
	}
	repo, ok := s.entities[name]
	if !ok {
		return nil, false
	}
	return repo, true
}

func (s *Store) Reader(name resource.Name) (catalog.Reader, bool) {
	repo, ok := s.entities[name]
	if !ok {
		return nil, false
	}
	return repo, true
}

func (s *Store) Matches() *MatchRepository {
	return s.matches
}

func (s *Store) SyncStates() *SyncStateRepository {
	return s.states
}
