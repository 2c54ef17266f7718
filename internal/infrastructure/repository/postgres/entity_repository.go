package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
	qb "github.com/riskibarqy/sports-mirror/internal/platform/querybuilder"
)

// EntityRepository stores one catalog resource in its own table.
type EntityRepository struct {
	db    *sqlx.DB
	table string
	now   func() time.Time
}

func NewEntityRepository(db *sqlx.DB, table string) *EntityRepository {
	return &EntityRepository{db: db, table: table, now: time.Now}
}

func (r *EntityRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := qb.Count(r.table).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count %s query: %w", r.table, err)
	}
	var n int64
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	return n, nil
}

func (r *EntityRepository) Save(ctx context.Context, record mirror.Record) (bool, error) {
	entity, ok := record.(catalog.Entity)
	if !ok {
		return false, fmt.Errorf("save %s: unexpected record type %T", r.table, record)
	}
	query, args, err := qb.UpsertModel(r.table, entityToModel(entity, r.now()), "id", "(xmax = 0) AS inserted")
	if err != nil {
		return false, fmt.Errorf("build upsert %s query: %w", r.table, err)
	}

	var inserted bool
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&inserted); err != nil {
		return false, fmt.Errorf("upsert %s id=%s: %w", r.table, entity.ID, err)
	}
	return inserted, nil
}

func (r *EntityRepository) Clear(ctx context.Context) (int64, error) {
	query, args, err := qb.DeleteFrom(r.table).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build clear %s query: %w", r.table, err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", r.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear %s rows affected: %w", r.table, err)
	}
	return n, nil
}

func (r *EntityRepository) List(ctx context.Context, q catalog.ListQuery) ([]catalog.Entity, error) {
	builder := qb.Select(entityColumns).From(r.table).OrderBy("id").Limit(q.Limit).Offset(q.Offset)
	if q.ParentID != "" {
		builder = builder.Where(qb.Eq("parent_id", q.ParentID))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list %s query: %w", r.table, err)
	}

	var rows []entityTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	out := make([]catalog.Entity, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *EntityRepository) GetByID(ctx context.Context, id string) (catalog.Entity, bool, error) {
	query, args, err := qb.Select(entityColumns).From(r.table).Where(qb.Eq("id", id)).Limit(1).ToSQL()
	if err != nil {
		return catalog.Entity{}, false, fmt.Errorf("build get %s query: %w", r.table, err)
	}

	var row entityTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return catalog.Entity{}, false, nil
		}
		return catalog.Entity{}, false, fmt.Errorf("get %s id=%s: %w", r.table, id, err)
	}
	return row.toDomain(), true, nil
}
