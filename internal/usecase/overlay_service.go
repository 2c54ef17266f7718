package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/sports-mirror/internal/domain/livescore"
	"github.com/riskibarqy/sports-mirror/internal/domain/match"
	"github.com/riskibarqy/sports-mirror/internal/platform/matchclock"
)

// LiveView is a stored match decorated with live state at read time.
type LiveView struct {
	match.Match
	Status     string              `json:"status"`
	LiveStatus int                 `json:"live_status_id"`
	IsLive     bool                `json:"is_live"`
	Home       livescore.TeamStats `json:"home"`
	Away       livescore.TeamStats `json:"away"`
	Clock      *matchclock.Clock   `json:"clock,omitempty"`
	Source     string              `json:"live_source"`
}

const (
	liveSourceSnapshot = "snapshot"
	liveSourceStored   = "stored"
	liveSourceNone     = "not_started"
)

// OverlayService merges live snapshots and the derived clock into a copy of a stored match.
type OverlayService struct {
	store livescore.Store
	now   func() time.Time
}

// NewOverlayService accepts a nil store; every match then uses the stored fallback.
func NewOverlayService(store livescore.Store) *OverlayService {
	return &OverlayService{store: store, now: time.Now}
}

func (s *OverlayService) Overlay(ctx context.Context, stored match.Match) LiveView {
	view := LiveView{
		Match:      stored.Clone(),
		Status:     match.StatusText(stored.StatusID),
		LiveStatus: stored.StatusID,
	}

	if stored.StatusID == match.StatusNotStarted {
		view.Source = liveSourceNone
		return view
	}

	firstKickoff := stored.MatchTime
	var secondKickoff *int64

	snap, ok := s.lookup(ctx, stored.ID)
	if ok {
		view.Source = liveSourceSnapshot
		view.Home = snap.Home
		view.Away = snap.Away
		view.IsLive = snap.IsLive
		view.LiveStatus = snap.StatusID
		view.Status = match.StatusText(snap.StatusID)

		if snap.KickoffAt > 0 {
			switch {
			case snap.StatusID >= match.StatusSecondHalf:
				k2 := snap.KickoffAt
				secondKickoff = &k2
			case snap.StatusID == match.StatusFirstHalf:
				firstKickoff = snap.KickoffAt
			}
		}
	} else {
		view.Source = liveSourceStored
		view.IsLive = false
	}

	if firstKickoff > 0 {
		clock := matchclock.Derive(s.now().Unix(), firstKickoff, secondKickoff)
		view.Clock = &clock
	}
	return view
}

func (s *OverlayService) OverlayAll(ctx context.Context, stored []match.Match) []LiveView {
	out := make([]LiveView, 0, len(stored))
	for _, item := range stored {
		out = append(out, s.Overlay(ctx, item))
	}
	return out
}

func (s *OverlayService) lookup(ctx context.Context, matchID string) (livescore.Snapshot, bool) {
	if s.store == nil {
		return livescore.Snapshot{}, false
	}
	return s.store.Get(ctx, matchID)
}
