package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

func catalogResource(r *http.Request) (resource.Name, error) {
	name, ok := resource.ParseName(r.PathValue("resource"))
	if !ok || !resource.IsCatalog(name) {
		return "", fmt.Errorf("%w: unknown resource %q", usecase.ErrNotFound, r.PathValue("resource"))
	}
	return name, nil
}

func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCatalog")
	defer span.End()

	name, err := catalogResource(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, page); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.catalogService.List(ctx, name, catalog.ListQuery{
		Limit:    page.Limit,
		Offset:   page.Offset,
		ParentID: strings.TrimSpace(r.URL.Query().Get("parent_id")),
	})
	if err != nil {
		h.logFailure(ctx, "list catalog failed", err, "resource", name)
		writeError(ctx, w, err)
		return
	}

	writeList(ctx, w, items)
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCatalog")
	defer span.End()

	name, err := catalogResource(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	item, err := h.catalogService.Get(ctx, name, id)
	if err != nil {
		h.logFailure(ctx, "get catalog record failed", err, "resource", name, "id", id)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, item)
}
