package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

func TestWriteSuccess_ItemEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if got, _ := body["code"].(float64); got != 200 {
		t.Fatalf("expected code=200, got %v", body["code"])
	}
	if _, ok := body["result"]; !ok {
		t.Fatalf("expected result key in success response")
	}
}

func TestWriteList_EmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	writeList[string](context.Background(), rec, nil)

	if got := rec.Body.String(); got != "{\"code\":200,\"results\":[]}\n" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestWriteError_MapsSentinels(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), want: http.StatusBadRequest},
		{err: usecase.ErrUnauthorized, want: http.StatusUnauthorized},
		{err: fmt.Errorf("%w: teams id=1", usecase.ErrNotFound), want: http.StatusNotFound},
		{err: fmt.Errorf("%w: teams", usecase.ErrSyncInProgress), want: http.StatusConflict},
		{err: fmt.Errorf("wrap: %w", usecase.ErrDependencyUnavailable), want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeError(context.Background(), rec, tt.err)
		if rec.Code != tt.want {
			t.Fatalf("error %q: expected status %d, got %d", tt.err, tt.want, rec.Code)
		}

		var body errorEnvelope
		if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal response body: %v", err)
		}
		if body.Code != tt.want {
			t.Fatalf("expected body code %d, got %d", tt.want, body.Code)
		}
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: password authentication failed"))

	var body errorEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Message != "internal server error" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}
