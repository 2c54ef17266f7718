package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

type syncAllResponse struct {
	Results []usecase.SyncResult `json:"runs"`
	Synced  int                  `json:"synced"`
	Created int                  `json:"created"`
	Updated int                  `json:"updated"`
	Errors  int                  `json:"errors"`
	Failed  []string             `json:"failed,omitempty"`
}

func (h *Handler) syncAvailable() error {
	if h.syncService == nil {
		return fmt.Errorf("%w: sync is not configured", usecase.ErrDependencyUnavailable)
	}
	return nil
}

func (h *Handler) runOptions(r *http.Request) (usecase.RunOptions, error) {
	force, err := queryBool(r, "force_full")
	if err != nil {
		return usecase.RunOptions{}, err
	}
	return usecase.RunOptions{ForceFull: force}, nil
}

func (h *Handler) SyncResource(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncResource")
	defer span.End()

	if err := h.syncAvailable(); err != nil {
		writeError(ctx, w, err)
		return
	}
	name, ok := resource.ParseName(r.PathValue("resource"))
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown resource %q", usecase.ErrNotFound, r.PathValue("resource")))
		return
	}
	opts, err := h.runOptions(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.SelectAndRun(ctx, name, opts)
	if err != nil {
		h.logFailure(ctx, "sync resource failed", err, "resource", name, "force_full", opts.ForceFull)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) SyncAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncAll")
	defer span.End()

	if err := h.syncAvailable(); err != nil {
		writeError(ctx, w, err)
		return
	}
	opts, err := h.runOptions(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	results, err := h.syncService.SyncAll(ctx, opts)
	resp := syncAllResponse{Results: results}
	for _, item := range results {
		resp.Synced += item.Synced
		resp.Created += item.Created
		resp.Updated += item.Updated
		resp.Errors += len(item.Errors)
		if item.Error != "" {
			resp.Failed = append(resp.Failed, item.Resource)
		}
	}
	if err != nil {
		if len(resp.Failed) == len(results) {
			h.logFailure(ctx, "sync all failed", err)
			writeError(ctx, w, err)
			return
		}
		h.logger.WarnContext(ctx, "sync all finished with failures", "failed", resp.Failed, "error", err)
	}

	writeSuccess(ctx, w, http.StatusOK, resp)
}

func (h *Handler) ListSyncStates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncStates")
	defer span.End()

	if err := h.syncAvailable(); err != nil {
		writeError(ctx, w, err)
		return
	}
	states, err := h.syncService.States(ctx)
	if err != nil {
		h.logFailure(ctx, "list sync states failed", err)
		writeError(ctx, w, err)
		return
	}

	writeList(ctx, w, states)
}
