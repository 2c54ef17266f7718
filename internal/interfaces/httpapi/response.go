package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

type listEnvelope struct {
	Code    int `json:"code"`
	Results any `json:"results"`
}

type itemEnvelope struct {
	Code   int `json:"code"`
	Result any `json:"result"`
}

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes into a pooled buffer first so an encode failure can still
// answer 500 instead of a truncated body.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":500,"message":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, itemEnvelope{Code: status, Result: data})
}

func writeList[T any](ctx context.Context, w http.ResponseWriter, items []T) {
	ctx, span := startSpan(ctx, "httpapi.writeList")
	defer span.End()

	if items == nil {
		items = []T{}
	}
	writeJSON(ctx, w, http.StatusOK, listEnvelope{Code: http.StatusOK, Results: items})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	status := mapError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(ctx, w, status, errorEnvelope{Code: status, Message: msg})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, errorEnvelope{
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
	})
}

func mapError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrSyncInProgress):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrDependencyUnavailable), errors.Is(err, usecase.ErrSystemicFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, usecase.ErrNotFound)
}
