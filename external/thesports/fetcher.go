package thesports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/sports-mirror/internal/domain/match"
	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
)

const (
	liveScoreEndpoint = "match/detail_live"
	analysisEndpoint  = "match/analysis"
	lineupEndpoint    = "match/lineup/detail"
)

func (c *Client) FetchPage(ctx context.Context, desc resource.Descriptor, page int) (mirror.Page, error) {
	if page < 1 {
		return mirror.Page{}, fmt.Errorf("page must be >= 1, got=%d", page)
	}
	raw, err := c.get(ctx, desc.Endpoint, url.Values{"page": {strconv.Itoa(page)}})
	if err != nil {
		return mirror.Page{}, fmt.Errorf("fetch %s page=%d: %w", desc.Name, page, err)
	}
	results, err := decodeList(raw)
	if err != nil {
		return mirror.Page{}, fmt.Errorf("fetch %s page=%d: %w", desc.Name, page, err)
	}
	return decodePage(desc, results), nil
}

func (c *Client) FetchSince(ctx context.Context, desc resource.Descriptor, since time.Time) (mirror.Page, error) {
	ts := since.Unix()
	raw, err := c.get(ctx, desc.Endpoint, url.Values{"time": {strconv.FormatInt(ts, 10)}})
	if err != nil {
		return mirror.Page{}, fmt.Errorf("fetch %s since=%d: %w", desc.Name, ts, err)
	}
	results, err := decodeList(raw)
	if err != nil {
		return mirror.Page{}, fmt.Errorf("fetch %s since=%d: %w", desc.Name, ts, err)
	}
	return decodePage(desc, results), nil
}

// FetchLiveScores returns each raw tuple of the live feed undecoded.
func (c *Client) FetchLiveScores(ctx context.Context) ([][]byte, error) {
	raw, err := c.get(ctx, liveScoreEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch live scores: %w", err)
	}
	results, err := decodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("fetch live scores: %w", err)
	}
	out := make([][]byte, 0, len(results))
	for _, item := range results {
		out = append(out, item)
	}
	return out, nil
}

type analysisWire struct {
	History struct {
		VS   []json.RawMessage `json:"vs"`
		Home []json.RawMessage `json:"home"`
		Away []json.RawMessage `json:"away"`
	} `json:"history"`
}

func (c *Client) FetchAnalysis(ctx context.Context, matchID string) (match.Analysis, error) {
	raw, err := c.get(ctx, analysisEndpoint, url.Values{"uuid": {matchID}})
	if err != nil {
		return match.Analysis{}, fmt.Errorf("fetch analysis match_id=%s: %w", matchID, err)
	}
	body, err := decodeObject(raw)
	if err != nil {
		return match.Analysis{}, fmt.Errorf("fetch analysis match_id=%s: %w", matchID, err)
	}

	var wire analysisWire
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, &wire); err != nil {
			return match.Analysis{}, fmt.Errorf("decode analysis match_id=%s: %w", matchID, err)
		}
	}

	out := match.Analysis{MatchID: matchID}
	var skipped int
	out.HeadToHead, skipped = parseHistory(wire.History.VS)
	out.Skipped += skipped
	out.HomeRecent, skipped = parseHistory(wire.History.Home)
	out.Skipped += skipped
	out.AwayRecent, skipped = parseHistory(wire.History.Away)
	out.Skipped += skipped

	if out.Skipped > 0 {
		c.logger.WarnContext(ctx, "skip malformed history tuples", "match_id", matchID, "skipped", out.Skipped)
	}
	return out, nil
}

func parseHistory(rows []json.RawMessage) ([]match.HistoryEntry, int) {
	out := make([]match.HistoryEntry, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		entry, err := ParseHistoryTuple(row)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, entry)
	}
	return out, skipped
}

func (c *Client) FetchLineup(ctx context.Context, matchID string) (match.Lineup, error) {
	raw, err := c.get(ctx, lineupEndpoint, url.Values{"uuid": {matchID}})
	if err != nil {
		return match.Lineup{}, fmt.Errorf("fetch lineup match_id=%s: %w", matchID, err)
	}
	body, err := decodeObject(raw)
	if err != nil {
		return match.Lineup{}, fmt.Errorf("fetch lineup match_id=%s: %w", matchID, err)
	}
	lineup, err := ParseLineup(body)
	if err != nil {
		return match.Lineup{}, fmt.Errorf("fetch lineup match_id=%s: %w", matchID, err)
	}
	lineup.MatchID = matchID
	return lineup, nil
}
