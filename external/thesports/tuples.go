package thesports

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/sports-mirror/internal/domain/livescore"
	"github.com/riskibarqy/sports-mirror/internal/domain/match"
)

const (
	shapeScore   = "score"
	shapeHistory = "history"
	shapeLineup  = "lineup"
)

// TupleError reports which field of an array-encoded provider shape was bad.
// Index is -1 when the tuple as a whole could not be read.
type TupleError struct {
	Shape  string
	Index  int
	Reason string
}

func (e *TupleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("decode %s tuple: %s", e.Shape, e.Reason)
	}
	return fmt.Sprintf("decode %s tuple: field %d: %s", e.Shape, e.Index, e.Reason)
}

type tuple struct {
	shape  string
	fields []json.RawMessage
}

func readTuple(shape string, raw []byte, minLen int) (tuple, error) {
	var fields []json.RawMessage
	if err := sonic.Unmarshal(raw, &fields); err != nil {
		return tuple{}, &TupleError{Shape: shape, Index: -1, Reason: "not an array"}
	}
	if len(fields) < minLen {
		return tuple{}, &TupleError{Shape: shape, Index: -1, Reason: fmt.Sprintf("want at least %d fields, got=%d", minLen, len(fields))}
	}
	return tuple{shape: shape, fields: fields}, nil
}

func (t tuple) fail(i int, reason string) error {
	return &TupleError{Shape: t.shape, Index: i, Reason: reason}
}

// id accepts both string and numeric ids.
func (t tuple) idAt(i int) (string, error) {
	raw := t.fields[i]
	var s string
	if err := sonic.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return "", t.fail(i, "empty id")
		}
		return s, nil
	}
	var n int64
	if err := sonic.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	return "", t.fail(i, "id must be a string or integer")
}

func (t tuple) int64At(i int) (int64, error) {
	var n int64
	if err := sonic.Unmarshal(t.fields[i], &n); err != nil {
		return 0, t.fail(i, "want integer")
	}
	return n, nil
}

func (t tuple) intAt(i int) (int, error) {
	n, err := t.int64At(i)
	return int(n), err
}

func (t tuple) intsAt(i, want int) ([]int, error) {
	var out []int
	if err := sonic.Unmarshal(t.fields[i], &out); err != nil {
		return nil, t.fail(i, "want integer array")
	}
	if len(out) < want {
		return nil, t.fail(i, fmt.Sprintf("want %d integers, got=%d", want, len(out)))
	}
	return out, nil
}

func (t tuple) nested(i int, minLen int) (tuple, error) {
	inner, err := readTuple(t.shape, t.fields[i], minLen)
	if err != nil {
		return tuple{}, t.fail(i, err.(*TupleError).Reason)
	}
	return inner, nil
}

// ParseScoreTuple decodes one live feed row:
// [match_id, status_id, home[7], away[7], kickoff_ts, note].
// Each side is [score, half_time, red, yellow, corners, overtime, penalty].
func ParseScoreTuple(raw []byte) (livescore.Snapshot, error) {
	t, err := readTuple(shapeScore, raw, 5)
	if err != nil {
		return livescore.Snapshot{}, err
	}

	var snap livescore.Snapshot
	if snap.MatchID, err = t.idAt(0); err != nil {
		return livescore.Snapshot{}, err
	}
	if snap.StatusID, err = t.intAt(1); err != nil {
		return livescore.Snapshot{}, err
	}
	home, err := t.intsAt(2, 7)
	if err != nil {
		return livescore.Snapshot{}, err
	}
	away, err := t.intsAt(3, 7)
	if err != nil {
		return livescore.Snapshot{}, err
	}
	if snap.KickoffAt, err = t.int64At(4); err != nil {
		return livescore.Snapshot{}, err
	}

	snap.Home = teamStats(home)
	snap.Away = teamStats(away)
	snap.IsLive = match.IsLiveStatus(snap.StatusID)
	return snap, nil
}

func teamStats(v []int) livescore.TeamStats {
	return livescore.TeamStats{
		Score:    v[0],
		HalfTime: v[1],
		Red:      v[2],
		Yellow:   v[3],
		Corners:  v[4],
		Overtime: v[5],
		Penalty:  v[6],
	}
}

// ParseHistoryTuple decodes one head-to-head or recent-form row:
// [match_id, competition_id, status_id, match_time, home[team_id, position, score, half_time], away[...]].
func ParseHistoryTuple(raw []byte) (match.HistoryEntry, error) {
	t, err := readTuple(shapeHistory, raw, 6)
	if err != nil {
		return match.HistoryEntry{}, err
	}

	var entry match.HistoryEntry
	if entry.MatchID, err = t.idAt(0); err != nil {
		return match.HistoryEntry{}, err
	}
	if entry.CompetitionID, err = t.idAt(1); err != nil {
		return match.HistoryEntry{}, err
	}
	if entry.StatusID, err = t.intAt(2); err != nil {
		return match.HistoryEntry{}, err
	}
	if entry.MatchTime, err = t.int64At(3); err != nil {
		return match.HistoryEntry{}, err
	}

	home, err := t.nested(4, 4)
	if err != nil {
		return match.HistoryEntry{}, err
	}
	away, err := t.nested(5, 4)
	if err != nil {
		return match.HistoryEntry{}, err
	}
	if entry.HomeTeamID, entry.HomePosition, entry.HomeScore, entry.HomeHalfTime, err = historySide(home); err != nil {
		return match.HistoryEntry{}, err
	}
	if entry.AwayTeamID, entry.AwayPosition, entry.AwayScore, entry.AwayHalfTime, err = historySide(away); err != nil {
		return match.HistoryEntry{}, err
	}
	return entry, nil
}

func historySide(t tuple) (teamID, position string, score, halfTime int, err error) {
	if teamID, err = t.idAt(0); err != nil {
		return
	}
	// position is free text ("3", "" or a group label); absent or null is allowed.
	if p, perr := t.idAt(1); perr == nil {
		position = p
	}
	if score, err = t.intAt(2); err != nil {
		return
	}
	halfTime, err = t.intAt(3)
	return
}

type lineupWire struct {
	Confirmed     int                `json:"confirmed"`
	HomeFormation string             `json:"home_formation"`
	AwayFormation string             `json:"away_formation"`
	Home          []lineupPlayerWire `json:"home"`
	Away          []lineupPlayerWire `json:"away"`
}

type lineupPlayerWire struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShirtNumber int    `json:"shirt_number"`
	Position    string `json:"position"`
	First       int    `json:"first"`
	Captain     int    `json:"captain"`
	Rating      string `json:"rating"`
}

// ParseLineup decodes the match/lineup/detail object.
func ParseLineup(raw []byte) (match.Lineup, error) {
	var wire lineupWire
	if err := sonic.Unmarshal(raw, &wire); err != nil {
		return match.Lineup{}, &TupleError{Shape: shapeLineup, Index: -1, Reason: "not a lineup object"}
	}

	home, err := lineupPlayers(wire.Home, "home")
	if err != nil {
		return match.Lineup{}, err
	}
	away, err := lineupPlayers(wire.Away, "away")
	if err != nil {
		return match.Lineup{}, err
	}
	return match.Lineup{
		Confirmed:     wire.Confirmed == 1,
		HomeFormation: strings.TrimSpace(wire.HomeFormation),
		AwayFormation: strings.TrimSpace(wire.AwayFormation),
		Home:          home,
		Away:          away,
	}, nil
}

func lineupPlayers(items []lineupPlayerWire, side string) ([]match.LineupPlayer, error) {
	out := make([]match.LineupPlayer, 0, len(items))
	for i, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, &TupleError{Shape: shapeLineup, Index: i, Reason: side + " player without id"}
		}
		out = append(out, match.LineupPlayer{
			ID:          id,
			Name:        strings.TrimSpace(item.Name),
			ShirtNumber: item.ShirtNumber,
			Position:    strings.TrimSpace(item.Position),
			First:       item.First == 1,
			Captain:     item.Captain == 1,
			Rating:      strings.TrimSpace(item.Rating),
		})
	}
	return out, nil
}
