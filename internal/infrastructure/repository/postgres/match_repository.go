package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sports-mirror/internal/domain/match"
	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
	qb "github.com/riskibarqy/sports-mirror/internal/platform/querybuilder"
)

type MatchRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db, now: time.Now}
}

func (r *MatchRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := qb.Count(matchTable).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}
	var n int64
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return n, nil
}

func (r *MatchRepository) Save(ctx context.Context, record mirror.Record) (bool, error) {
	item, ok := record.(match.Match)
	if !ok {
		return false, fmt.Errorf("save match: unexpected record type %T", record)
	}
	query, args, err := qb.UpsertModel(matchTable, matchToModel(item, r.now()), "id", "(xmax = 0) AS inserted")
	if err != nil {
		return false, fmt.Errorf("build upsert match query: %w", err)
	}

	var inserted bool
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&inserted); err != nil {
		return false, fmt.Errorf("upsert match id=%s: %w", item.ID, err)
	}
	return inserted, nil
}

func (r *MatchRepository) Clear(ctx context.Context) (int64, error) {
	query, args, err := qb.DeleteFrom(matchTable).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build clear matches query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear matches: %w", err)
	}
	return res.RowsAffected()
}

func (r *MatchRepository) List(ctx context.Context, q match.Query) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns).From(matchTable).
		Where(matchConditions(q)...).
		OrderBy("match_time", "id").
		Limit(q.Limit).
		Offset(q.Offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}
	return r.selectMatches(ctx, "list matches", query, args)
}

func matchConditions(q match.Query) []qb.Condition {
	var where []qb.Condition
	if q.From > 0 {
		where = append(where, qb.Gte("match_time", q.From))
	}
	if q.To > 0 {
		where = append(where, qb.Lt("match_time", q.To))
	}
	if q.SeasonID != "" {
		where = append(where, qb.Eq("season_id", q.SeasonID))
	}
	if q.CompetitionID != "" {
		where = append(where, qb.Eq("competition_id", q.CompetitionID))
	}
	if q.TeamID != "" {
		where = append(where, qb.Expr("(home_team_id = ? OR away_team_id = ?)", q.TeamID, q.TeamID))
	}
	if q.StatusID != nil {
		where = append(where, qb.Eq("status_id", *q.StatusID))
	}
	if q.LiveOnly {
		where = append(where, qb.In("status_id", liveStatusArgs()))
	}
	return where
}

func liveStatusArgs() []any {
	out := make([]any, 0, 6)
	for id := match.StatusFirstHalf; id <= match.StatusPenaltyShoot; id++ {
		if match.IsLiveStatus(id) {
			out = append(out, id)
		}
	}
	return out
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns).From(matchTable).Where(qb.Eq("id", id)).Limit(1).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match id=%s: %w", id, err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID string) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns).From(matchTable).
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("match_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season matches query: %w", err)
	}
	return r.selectMatches(ctx, "list matches season_id="+seasonID, query, args)
}

func (r *MatchRepository) selectMatches(ctx context.Context, op, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
