package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	query, err := parseMatchQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.matchService.List(ctx, query)
	if err != nil {
		h.logFailure(ctx, "list matches failed", err)
		writeError(ctx, w, err)
		return
	}

	writeList(ctx, w, items)
}

func parseMatchQuery(r *http.Request) (usecase.MatchQuery, error) {
	q := r.URL.Query()
	page, err := parsePage(r)
	if err != nil {
		return usecase.MatchQuery{}, err
	}
	live, err := queryBool(r, "live")
	if err != nil {
		return usecase.MatchQuery{}, err
	}

	query := usecase.MatchQuery{
		Date:          strings.TrimSpace(q.Get("date")),
		SeasonID:      strings.TrimSpace(q.Get("season_id")),
		CompetitionID: strings.TrimSpace(q.Get("competition_id")),
		TeamID:        strings.TrimSpace(q.Get("team_id")),
		LiveOnly:      live,
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	if strings.TrimSpace(q.Get("status_id")) != "" {
		status, err := queryInt(r, "status_id")
		if err != nil {
			return usecase.MatchQuery{}, err
		}
		query.StatusID = &status
	}
	return query, nil
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	id := r.PathValue("id")
	item, err := h.matchService.Get(ctx, id)
	if err != nil {
		h.logFailure(ctx, "get match failed", err, "match_id", id)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, item)
}

func (h *Handler) GetMatchAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchAnalysis")
	defer span.End()

	id := r.PathValue("id")
	item, err := h.matchService.HeadToHead(ctx, id)
	if err != nil {
		h.logFailure(ctx, "get match analysis failed", err, "match_id", id)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, item)
}

func (h *Handler) GetMatchLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchLineup")
	defer span.End()

	id := r.PathValue("id")
	item, err := h.matchService.Lineup(ctx, id)
	if err != nil {
		h.logFailure(ctx, "get match lineup failed", err, "match_id", id)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, item)
}

func (h *Handler) GetSeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonStandings")
	defer span.End()

	seasonID := r.PathValue("id")
	items, err := h.standingsService.Season(ctx, seasonID)
	if err != nil {
		h.logFailure(ctx, "get season standings failed", err, "season_id", seasonID)
		writeError(ctx, w, err)
		return
	}

	writeList(ctx, w, items)
}
