package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/sports-mirror/internal/domain/syncstate"
	qb "github.com/riskibarqy/sports-mirror/internal/platform/querybuilder"
)

const (
	syncStateTable   = "sync_state"
	syncStateColumns = "resource, last_sync_time, is_initial_sync, last_mode, last_run_id, total_synced, updated_at"
)

type syncStateTableModel struct {
	Resource      string       `db:"resource"`
	LastSyncTime  sql.NullTime `db:"last_sync_time"`
	IsInitialSync bool         `db:"is_initial_sync"`
	LastMode      string       `db:"last_mode"`
	LastRunID     string       `db:"last_run_id"`
	TotalSynced   int64        `db:"total_synced"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

func (m syncStateTableModel) toDomain() syncstate.State {
	return syncstate.State{
		Resource:      m.Resource,
		LastSyncTime:  nullTimeToPtr(m.LastSyncTime),
		IsInitialSync: m.IsInitialSync,
		LastMode:      syncstate.Mode(m.LastMode),
		LastRunID:     m.LastRunID,
		TotalSynced:   m.TotalSynced,
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type SyncStateRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSyncStateRepository(db *sqlx.DB) *SyncStateRepository {
	return &SyncStateRepository{db: db, now: time.Now}
}

func (r *SyncStateRepository) Get(ctx context.Context, resource string) (syncstate.State, error) {
	query, args, err := qb.Select(syncStateColumns).From(syncStateTable).Where(qb.Eq("resource", resource)).Limit(1).ToSQL()
	if err != nil {
		return syncstate.State{}, fmt.Errorf("build get sync state query: %w", err)
	}

	var row syncStateTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncstate.Initial(resource), nil
		}
		return syncstate.State{}, fmt.Errorf("get sync state resource=%s: %w", resource, err)
	}
	return row.toDomain(), nil
}

func (r *SyncStateRepository) Save(ctx context.Context, state syncstate.State) error {
	row := syncStateTableModel{
		Resource:      state.Resource,
		LastSyncTime:  ptrToNullTime(state.LastSyncTime),
		IsInitialSync: state.IsInitialSync,
		LastMode:      string(state.LastMode),
		LastRunID:     state.LastRunID,
		TotalSynced:   state.TotalSynced,
		UpdatedAt:     r.now().UTC(),
	}
	query, args, err := qb.UpsertModel(syncStateTable, row, "resource")
	if err != nil {
		return fmt.Errorf("build upsert sync state query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert sync state resource=%s: %w", state.Resource, err)
	}
	return nil
}

func (r *SyncStateRepository) List(ctx context.Context) ([]syncstate.State, error) {
	query, args, err := qb.Select(syncStateColumns).From(syncStateTable).OrderBy("resource").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sync state query: %w", err)
	}

	var rows []syncStateTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sync state: %w", err)
	}
	out := make([]syncstate.State, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
