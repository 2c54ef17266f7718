package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/sports-mirror/internal/domain/match"
)

const formLength = 5

type StandingsService struct {
	matches match.Repository
}

func NewStandingsService(matches match.Repository) *StandingsService {
	return &StandingsService{matches: matches}
}

// Season builds the table from finished matches only. An unsynced season yields an empty table.
func (s *StandingsService) Season(ctx context.Context, seasonID string) ([]match.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Season")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	items, err := s.matches.ListBySeason(ctx, seasonID)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list matches for season id=%s: %w", seasonID, err)
	}
	return BuildStandings(items), nil
}

// BuildStandings scores 3/1/0 and orders by points, goal difference, goals for, then team id.
func BuildStandings(items []match.Match) []match.Standing {
	finished := make([]match.Match, 0, len(items))
	for _, m := range items {
		if match.IsFinishedStatus(m.StatusID) {
			finished = append(finished, m)
		}
	}
	// Newest first so form is appended most-recent-first.
	sort.SliceStable(finished, func(i, j int) bool {
		if finished[i].MatchTime != finished[j].MatchTime {
			return finished[i].MatchTime > finished[j].MatchTime
		}
		return finished[i].ID > finished[j].ID
	})

	table := make(map[string]*match.Standing)
	row := func(teamID string) *match.Standing {
		st, ok := table[teamID]
		if !ok {
			st = &match.Standing{TeamID: teamID, Form: []string{}}
			table[teamID] = st
		}
		return st
	}

	for _, m := range finished {
		home, away := row(m.HomeTeamID), row(m.AwayTeamID)
		hs, as := m.HomeScore(), m.AwayScore()
		applyResult(home, hs, as)
		applyResult(away, as, hs)
	}

	out := make([]match.Standing, 0, len(table))
	for _, st := range table {
		st.GoalDifference = st.GoalsFor - st.GoalsAgainst
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

func applyResult(st *match.Standing, scored, conceded int) {
	st.Played++
	st.GoalsFor += scored
	st.GoalsAgainst += conceded

	var letter string
	switch {
	case scored > conceded:
		st.Won++
		st.Points += 3
		letter = "W"
	case scored == conceded:
		st.Drawn++
		st.Points++
		letter = "D"
	default:
		st.Lost++
		letter = "L"
	}
	if len(st.Form) < formLength {
		st.Form = append(st.Form, letter)
	}
}
