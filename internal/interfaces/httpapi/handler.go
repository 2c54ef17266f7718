package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

type Handler struct {
	catalogService   *usecase.CatalogService
	matchService     *usecase.MatchService
	standingsService *usecase.StandingsService
	syncService      *usecase.SyncService
	logger           *logging.Logger
	validator        *validator.Validate
}

// NewHandler accepts a nil sync service; the sync routes then answer 503.
func NewHandler(
	catalogService *usecase.CatalogService,
	matchService *usecase.MatchService,
	standingsService *usecase.StandingsService,
	syncService *usecase.SyncService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService:   catalogService,
		matchService:     matchService,
		standingsService: standingsService,
		syncService:      syncService,
		logger:           logger,
		validator:        usecase.NewValidator(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// logFailure keeps 404s out of the error log.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	if isNotFound(err) {
		return
	}
	h.logger.WarnContext(ctx, msg, append(args, "error", err)...)
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return v, nil
}

func queryBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", usecase.ErrInvalidInput, key)
	}
	return v, nil
}

type pageParams struct {
	Limit  int `validate:"gte=0"`
	Offset int `validate:"gte=0"`
}

func parsePage(r *http.Request) (pageParams, error) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return pageParams{}, err
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		return pageParams{}, err
	}
	return pageParams{Limit: limit, Offset: offset}, nil
}
