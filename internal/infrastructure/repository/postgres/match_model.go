package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/sports-mirror/internal/domain/match"
)

const (
	matchTable   = "matches"
	matchColumns = "id, season_id, competition_id, home_team_id, away_team_id, venue_id, referee_id, status_id, match_time, home_scores, away_scores, updated_at, payload, synced_at"
)

type matchTableModel struct {
	ID            string        `db:"id"`
	SeasonID      string        `db:"season_id"`
	CompetitionID string        `db:"competition_id"`
	HomeTeamID    string        `db:"home_team_id"`
	AwayTeamID    string        `db:"away_team_id"`
	VenueID       string        `db:"venue_id"`
	RefereeID     string        `db:"referee_id"`
	StatusID      int           `db:"status_id"`
	MatchTime     int64         `db:"match_time"`
	HomeScores    pq.Int64Array `db:"home_scores"`
	AwayScores    pq.Int64Array `db:"away_scores"`
	UpdatedAt     int64         `db:"updated_at"`
	Payload       []byte        `db:"payload"`
	SyncedAt      time.Time     `db:"synced_at"`
}

func matchToModel(m match.Match, syncedAt time.Time) matchTableModel {
	return matchTableModel{
		ID:            m.ID,
		SeasonID:      m.SeasonID,
		CompetitionID: m.CompetitionID,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		VenueID:       m.VenueID,
		RefereeID:     m.RefereeID,
		StatusID:      m.StatusID,
		MatchTime:     m.MatchTime,
		HomeScores:    pq.Int64Array(intsToInt64s(m.HomeScores)),
		AwayScores:    pq.Int64Array(intsToInt64s(m.AwayScores)),
		UpdatedAt:     m.UpdatedAt,
		Payload:       jsonPayload(m.Payload),
		SyncedAt:      syncedAt.UTC(),
	}
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:            m.ID,
		SeasonID:      m.SeasonID,
		CompetitionID: m.CompetitionID,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		VenueID:       m.VenueID,
		RefereeID:     m.RefereeID,
		StatusID:      m.StatusID,
		MatchTime:     m.MatchTime,
		HomeScores:    int64sToInts(m.HomeScores),
		AwayScores:    int64sToInts(m.AwayScores),
		UpdatedAt:     m.UpdatedAt,
		Payload:       m.Payload,
	}
}
