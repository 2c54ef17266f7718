package catalog

import "encoding/json"

// Entity is the shared shape of every catalog resource (teams, players, venues, ...).
type Entity struct {
	ID        string          `json:"id" validate:"required,max=64,natural_id"`
	Name      string          `json:"name" validate:"max=255"`
	ShortName string          `json:"short_name,omitempty" validate:"max=255"`
	Logo      string          `json:"logo,omitempty"`
	ParentID  string          `json:"parent_id,omitempty"`
	CountryID string          `json:"country_id,omitempty"`
	UpdatedAt int64           `json:"updated_at"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (e Entity) NaturalID() string {
	return e.ID
}
