package livescore

import "time"

// TeamStats is one side of a live score tuple.
type TeamStats struct {
	Score    int `json:"score"`
	HalfTime int `json:"half_time"`
	Red      int `json:"red"`
	Yellow   int `json:"yellow"`
	Corners  int `json:"corners"`
	Overtime int `json:"overtime"`
	Penalty  int `json:"penalty"`
}

// Snapshot is the latest live state the provider reported for a match.
type Snapshot struct {
	MatchID   string    `json:"match_id"`
	StatusID  int       `json:"status_id"`
	Home      TeamStats `json:"home"`
	Away      TeamStats `json:"away"`
	KickoffAt int64     `json:"kickoff_at"`
	IsLive    bool      `json:"is_live"`
	UpdatedAt time.Time `json:"updated_at"`
}
