package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/sports-mirror/internal/domain/match"
	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository(seed ...match.Match) *MatchRepository {
	r := &MatchRepository{items: make(map[string]match.Match, len(seed))}
	for _, item := range seed {
		r.items[item.ID] = item.Clone()
	}
	return r
}

func (r *MatchRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

func (r *MatchRepository) Save(_ context.Context, record mirror.Record) (bool, error) {
	item, ok := record.(match.Match)
	if !ok {
		return false, fmt.Errorf("save match: unexpected record type %T", record)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.items[item.ID]
	r.items[item.ID] = item.Clone()
	return !exists, nil
}

func (r *MatchRepository) Clear(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.items))
	r.items = make(map[string]match.Match)
	return n, nil
}

func (r *MatchRepository) List(_ context.Context, query match.Query) ([]match.Match, error) {
	out := r.filter(func(m match.Match) bool { return matches(m, query) })
	return paginate(out, query.Limit, query.Offset), nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return match.Match{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *MatchRepository) ListBySeason(_ context.Context, seasonID string) ([]match.Match, error) {
	return r.filter(func(m match.Match) bool { return m.SeasonID == seasonID }), nil
}

// filter returns clones ordered by kickoff then id.
func (r *MatchRepository) filter(keep func(match.Match) bool) []match.Match {
	r.mu.RLock()
	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchTime != out[j].MatchTime {
			return out[i].MatchTime < out[j].MatchTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func matches(m match.Match, q match.Query) bool {
	switch {
	case q.From > 0 && m.MatchTime < q.From:
		return false
	case q.To > 0 && m.MatchTime >= q.To:
		return false
	case q.SeasonID != "" && m.SeasonID != q.SeasonID:
		return false
	case q.CompetitionID != "" && m.CompetitionID != q.CompetitionID:
		return false
	case q.TeamID != "" && m.HomeTeamID != q.TeamID && m.AwayTeamID != q.TeamID:
		return false
	case q.StatusID != nil && m.StatusID != *q.StatusID:
		return false
	case q.LiveOnly && !match.IsLiveStatus(m.StatusID):
		return false
	}
	return true
}
