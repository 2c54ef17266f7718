package match

import "encoding/json"

// Provider status codes.
const (
	StatusAbnormal       = 0
	StatusNotStarted     = 1
	StatusFirstHalf      = 2
	StatusHalfTime       = 3
	StatusSecondHalf     = 4
	StatusOvertime       = 5
	StatusOvertimeOld    = 6
	StatusPenaltyShoot   = 7
	StatusEnd            = 8
	StatusDelay          = 9
	StatusInterrupt      = 10
	StatusCutInHalf      = 11
	StatusCancel         = 12
	StatusToBeDetermined = 13
)

var statusText = map[int]string{
	StatusAbnormal:       "abnormal",
	StatusNotStarted:     "not_started",
	StatusFirstHalf:      "first_half",
	StatusHalfTime:       "half_time",
	StatusSecondHalf:     "second_half",
	StatusOvertime:       "overtime",
	StatusOvertimeOld:    "overtime",
	StatusPenaltyShoot:   "penalty_shootout",
	StatusEnd:            "ended",
	StatusDelay:          "delayed",
	StatusInterrupt:      "interrupted",
	StatusCutInHalf:      "cut_in_half",
	StatusCancel:         "cancelled",
	StatusToBeDetermined: "to_be_determined",
}

func StatusText(statusID int) string {
	if text, ok := statusText[statusID]; ok {
		return text
	}
	return "unknown"
}

func IsLiveStatus(statusID int) bool {
	switch statusID {
	case StatusFirstHalf, StatusHalfTime, StatusSecondHalf, StatusOvertime, StatusOvertimeOld, StatusPenaltyShoot:
		return true
	default:
		return false
	}
}

func IsFinishedStatus(statusID int) bool {
	return statusID == StatusEnd
}

// Match is one mirrored provider match.
type Match struct {
	ID            string          `json:"id" validate:"required,max=64,natural_id"`
	SeasonID      string          `json:"season_id,omitempty"`
	CompetitionID string          `json:"competition_id,omitempty"`
	HomeTeamID    string          `json:"home_team_id" validate:"required"`
	AwayTeamID    string          `json:"away_team_id" validate:"required"`
	VenueID       string          `json:"venue_id,omitempty"`
	RefereeID     string          `json:"referee_id,omitempty"`
	StatusID      int             `json:"status_id" validate:"gte=0"`
	MatchTime     int64           `json:"match_time" validate:"gte=0"`
	HomeScores    []int           `json:"home_scores,omitempty"`
	AwayScores    []int           `json:"away_scores,omitempty"`
	UpdatedAt     int64           `json:"updated_at"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

func (m Match) NaturalID() string {
	return m.ID
}

// Clone returns a deep copy so callers can decorate it without touching the original.
func (m Match) Clone() Match {
	out := m
	out.HomeScores = append([]int(nil), m.HomeScores...)
	out.AwayScores = append([]int(nil), m.AwayScores...)
	if m.Payload != nil {
		out.Payload = append(json.RawMessage(nil), m.Payload...)
	}
	return out
}

// HomeScore returns the regular-time score, the first element of the provider score array.
func (m Match) HomeScore() int {
	return firstScore(m.HomeScores)
}

func (m Match) AwayScore() int {
	return firstScore(m.AwayScores)
}

func firstScore(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	return scores[0]
}

// HistoryEntry is one past meeting from the head-to-head analysis.
type HistoryEntry struct {
	MatchID       string `json:"match_id"`
	CompetitionID string `json:"competition_id"`
	StatusID      int    `json:"status_id"`
	MatchTime     int64  `json:"match_time"`
	HomeTeamID    string `json:"home_team_id"`
	HomePosition  string `json:"home_position,omitempty"`
	HomeScore     int    `json:"home_score"`
	HomeHalfTime  int    `json:"home_half_time"`
	AwayTeamID    string `json:"away_team_id"`
	AwayPosition  string `json:"away_position,omitempty"`
	AwayScore     int    `json:"away_score"`
	AwayHalfTime  int    `json:"away_half_time"`
}

// Analysis groups the head-to-head and recent results for both teams.
type Analysis struct {
	MatchID    string         `json:"match_id"`
	HeadToHead []HistoryEntry `json:"head_to_head"`
	HomeRecent []HistoryEntry `json:"home_recent"`
	AwayRecent []HistoryEntry `json:"away_recent"`
	Skipped    int            `json:"skipped,omitempty"`
}

type LineupPlayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShirtNumber int    `json:"shirt_number"`
	Position    string `json:"position,omitempty"`
	First       bool   `json:"first"`
	Captain     bool   `json:"captain,omitempty"`
	Rating      string `json:"rating,omitempty"`
}

type Lineup struct {
	MatchID       string         `json:"match_id"`
	Confirmed     bool           `json:"confirmed"`
	HomeFormation string         `json:"home_formation,omitempty"`
	AwayFormation string         `json:"away_formation,omitempty"`
	Home          []LineupPlayer `json:"home"`
	Away          []LineupPlayer `json:"away"`
}

// Standing is one row of a season table computed from finished matches.
type Standing struct {
	TeamID         string   `json:"team_id"`
	Position       int      `json:"position"`
	Played         int      `json:"played"`
	Won            int      `json:"won"`
	Drawn          int      `json:"drawn"`
	Lost           int      `json:"lost"`
	GoalsFor       int      `json:"goals_for"`
	GoalsAgainst   int      `json:"goals_against"`
	GoalDifference int      `json:"goal_difference"`
	Points         int      `json:"points"`
	Form           []string `json:"form"`
}
