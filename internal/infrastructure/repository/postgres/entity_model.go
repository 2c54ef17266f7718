package postgres

import (
	"time"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
)

const entityColumns = "id, name, short_name, logo, parent_id, country_id, updated_at, payload, synced_at"

type entityTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	ShortName string    `db:"short_name"`
	Logo      string    `db:"logo"`
	ParentID  string    `db:"parent_id"`
	CountryID string    `db:"country_id"`
	UpdatedAt int64     `db:"updated_at"`
	Payload   []byte    `db:"payload"`
	SyncedAt  time.Time `db:"synced_at"`
}

func entityToModel(e catalog.Entity, syncedAt time.Time) entityTableModel {
	return entityTableModel{
		ID:        e.ID,
		Name:      e.Name,
		ShortName: e.ShortName,
		Logo:      e.Logo,
		ParentID:  e.ParentID,
		CountryID: e.CountryID,
		UpdatedAt: e.UpdatedAt,
		Payload:   jsonPayload(e.Payload),
		SyncedAt:  syncedAt.UTC(),
	}
}

func (m entityTableModel) toDomain() catalog.Entity {
	return catalog.Entity{
		ID:        m.ID,
		Name:      m.Name,
		ShortName: m.ShortName,
		Logo:      m.Logo,
		ParentID:  m.ParentID,
		CountryID: m.CountryID,
		UpdatedAt: m.UpdatedAt,
		Payload:   m.Payload,
	}
}
