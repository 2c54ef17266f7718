package thesports

import (
	"encoding/json"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/match"
	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
)

type listEnvelope struct {
	Code    int               `json:"code"`
	Err     string            `json:"err"`
	Results []json.RawMessage `json:"results"`
}

type objectEnvelope struct {
	Code    int             `json:"code"`
	Err     string          `json:"err"`
	Results json.RawMessage `json:"results"`
}

func decodeList(raw []byte) ([]json.RawMessage, error) {
	var env listEnvelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return nil, crerr.Wrap(err, "decode provider payload")
	}
	if strings.TrimSpace(env.Err) != "" {
		return nil, crerr.Newf("provider error code=%d: %s", env.Code, abbreviateBody([]byte(env.Err)))
	}
	return env.Results, nil
}

func decodeObject(raw []byte) (json.RawMessage, error) {
	var env objectEnvelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return nil, crerr.Wrap(err, "decode provider payload")
	}
	if strings.TrimSpace(env.Err) != "" {
		return nil, crerr.Newf("provider error code=%d: %s", env.Code, abbreviateBody([]byte(env.Err)))
	}
	return env.Results, nil
}

// parentKeys lists, per resource, where the provider puts the owning record id.
var parentKeys = map[resource.Name]func(entityWire) string{
	resource.Countries:    func(w entityWire) string { return w.CategoryID },
	resource.Competitions: func(w entityWire) string { return w.CategoryID },
	resource.Teams:        func(w entityWire) string { return w.CompetitionID },
	resource.Players:      func(w entityWire) string { return w.TeamID },
	resource.Coaches:      func(w entityWire) string { return w.TeamID },
	resource.Seasons:      func(w entityWire) string { return w.CompetitionID },
	resource.Stages:       func(w entityWire) string { return w.SeasonID },
}

type entityWire struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ShortName     string `json:"short_name"`
	Logo          string `json:"logo"`
	CountryID     string `json:"country_id"`
	CategoryID    string `json:"category_id"`
	CompetitionID string `json:"competition_id"`
	TeamID        string `json:"team_id"`
	SeasonID      string `json:"season_id"`
	UpdatedAt     int64  `json:"updated_at"`
}

type matchWire struct {
	ID            string `json:"id"`
	SeasonID      string `json:"season_id"`
	CompetitionID string `json:"competition_id"`
	HomeTeamID    string `json:"home_team_id"`
	AwayTeamID    string `json:"away_team_id"`
	VenueID       string `json:"venue_id"`
	RefereeID     string `json:"referee_id"`
	StatusID      int    `json:"status_id"`
	MatchTime     int64  `json:"match_time"`
	HomeScores    []int  `json:"home_scores"`
	AwayScores    []int  `json:"away_scores"`
	UpdatedAt     int64  `json:"updated_at"`
}

// decodePage turns provider results into records. A result that cannot be
// decoded is reported in Rejected and never fails the page.
func decodePage(desc resource.Descriptor, results []json.RawMessage) mirror.Page {
	page := mirror.Page{Records: make([]mirror.Record, 0, len(results))}
	for i, raw := range results {
		record, err := decodeRecord(desc, raw)
		if err != nil {
			page.Rejected = append(page.Rejected, mirror.RecordError{
				ID:     peekID(raw),
				Reason: fmt.Sprintf("result %d: %v", i, err),
			})
			continue
		}
		page.Records = append(page.Records, record)
	}
	return page
}

func decodeRecord(desc resource.Descriptor, raw json.RawMessage) (mirror.Record, error) {
	payload := append(json.RawMessage(nil), raw...)
	if desc.Kind == resource.KindMatch {
		var wire matchWire
		if err := sonic.Unmarshal(raw, &wire); err != nil {
			return nil, crerr.Wrap(err, "decode match")
		}
		return match.Match{
			ID:            strings.TrimSpace(wire.ID),
			SeasonID:      wire.SeasonID,
			CompetitionID: wire.CompetitionID,
			HomeTeamID:    wire.HomeTeamID,
			AwayTeamID:    wire.AwayTeamID,
			VenueID:       wire.VenueID,
			RefereeID:     wire.RefereeID,
			StatusID:      wire.StatusID,
			MatchTime:     wire.MatchTime,
			HomeScores:    wire.HomeScores,
			AwayScores:    wire.AwayScores,
			UpdatedAt:     wire.UpdatedAt,
			Payload:       payload,
		}, nil
	}

	var wire entityWire
	if err := sonic.Unmarshal(raw, &wire); err != nil {
		return nil, crerr.Wrapf(err, "decode %s", desc.Name)
	}
	entity := catalog.Entity{
		ID:        strings.TrimSpace(wire.ID),
		Name:      strings.TrimSpace(wire.Name),
		ShortName: strings.TrimSpace(wire.ShortName),
		Logo:      strings.TrimSpace(wire.Logo),
		CountryID: wire.CountryID,
		UpdatedAt: wire.UpdatedAt,
		Payload:   payload,
	}
	if parent, ok := parentKeys[desc.Name]; ok {
		entity.ParentID = parent(wire)
	}
	return entity, nil
}

func peekID(raw json.RawMessage) string {
	node, err := sonic.Get(raw, "id")
	if err != nil {
		return ""
	}
	id, err := node.String()
	if err != nil {
		return ""
	}
	return id
}
