package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sports-mirror/internal/domain/match"
)

type MatchQuery struct {
	// Date is YYYY-MM-DD in UTC.
	Date          string `validate:"omitempty,datetime=2006-01-02"`
	SeasonID      string `validate:"omitempty,max=64"`
	CompetitionID string `validate:"omitempty,max=64"`
	TeamID        string `validate:"omitempty,max=64"`
	StatusID      *int   `validate:"omitempty,gte=0,lte=13"`
	LiveOnly      bool
	Limit         int `validate:"gte=0"`
	Offset        int `validate:"gte=0"`
}

type MatchService struct {
	matches match.Repository
	overlay *OverlayService
	details MatchDetailFetcher
}

// NewMatchService accepts a nil details fetcher; analysis and lineup then report ErrDependencyUnavailable.
func NewMatchService(matches match.Repository, overlay *OverlayService, details MatchDetailFetcher) *MatchService {
	if overlay == nil {
		overlay = NewOverlayService(nil)
	}
	return &MatchService{matches: matches, overlay: overlay, details: details}
}

func (s *MatchService) List(ctx context.Context, query MatchQuery) ([]LiveView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	repoQuery, err := toRepoQuery(query)
	if err != nil {
		return nil, err
	}
	items, err := s.matches.List(ctx, repoQuery)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list matches: %w", err)
	}

	views := s.overlay.OverlayAll(ctx, items)
	if !query.LiveOnly {
		return views, nil
	}
	live := views[:0]
	for _, v := range views {
		if v.IsLive {
			live = append(live, v)
		}
	}
	return live, nil
}

func toRepoQuery(query MatchQuery) (match.Query, error) {
	out := match.Query{
		SeasonID:      strings.TrimSpace(query.SeasonID),
		CompetitionID: strings.TrimSpace(query.CompetitionID),
		TeamID:        strings.TrimSpace(query.TeamID),
		StatusID:      query.StatusID,
		LiveOnly:      query.LiveOnly,
	}
	out.Limit, out.Offset = normalizePage(query.Limit, query.Offset)

	if date := strings.TrimSpace(query.Date); date != "" {
		day, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return match.Query{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		out.From = day.UTC().Unix()
		out.To = day.UTC().Add(24 * time.Hour).Unix()
	}
	return out, nil
}

func (s *MatchService) Get(ctx context.Context, id string) (LiveView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	item, err := s.getStored(ctx, id)
	if err != nil {
		recordSpanError(span, err)
		return LiveView{}, err
	}
	return s.overlay.Overlay(ctx, item), nil
}

func (s *MatchService) HeadToHead(ctx context.Context, id string) (match.Analysis, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.HeadToHead")
	defer span.End()

	if s.details == nil {
		return match.Analysis{}, fmt.Errorf("%w: match detail provider is not configured", ErrDependencyUnavailable)
	}
	item, err := s.getStored(ctx, id)
	if err != nil {
		return match.Analysis{}, err
	}
	analysis, err := s.details.FetchAnalysis(ctx, item.ID)
	if err != nil {
		recordSpanError(span, err)
		return match.Analysis{}, fmt.Errorf("%w: fetch analysis for match id=%s: %w", ErrDependencyUnavailable, item.ID, err)
	}
	analysis.MatchID = item.ID
	return analysis, nil
}

func (s *MatchService) Lineup(ctx context.Context, id string) (match.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Lineup")
	defer span.End()

	if s.details == nil {
		return match.Lineup{}, fmt.Errorf("%w: match detail provider is not configured", ErrDependencyUnavailable)
	}
	item, err := s.getStored(ctx, id)
	if err != nil {
		return match.Lineup{}, err
	}
	lineup, err := s.details.FetchLineup(ctx, item.ID)
	if err != nil {
		recordSpanError(span, err)
		return match.Lineup{}, fmt.Errorf("%w: fetch lineup for match id=%s: %w", ErrDependencyUnavailable, item.ID, err)
	}
	lineup.MatchID = item.ID
	return lineup, nil
}

func (s *MatchService) getStored(ctx context.Context, id string) (match.Match, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	item, exists, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match id=%s: %w", id, err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match id=%s", ErrNotFound, id)
	}
	return item, nil
}
