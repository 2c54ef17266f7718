package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get team: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fmt.Errorf("pq: relation teams does not exist")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestNullTimeRoundTrip(t *testing.T) {
	if got := nullTimeToPtr(sql.NullTime{}); got != nil {
		t.Fatalf("expected nil for null time, got %v", got)
	}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	got := nullTimeToPtr(ptrToNullTime(&at))
	if got == nil || !got.Equal(at) || got.Location() != time.UTC {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestScoreArrayConversion(t *testing.T) {
	if got := intsToInt64s(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
	if got := int64sToInts([]int64{2, 1}); len(got) != 2 || got[0] != 2 {
		t.Fatalf("unexpected ints %v", got)
	}
	if got := int64sToInts(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestJSONPayloadDefaultsToEmptyObject(t *testing.T) {
	if got := string(jsonPayload(nil)); got != "{}" {
		t.Fatalf("expected {}, got %s", got)
	}
	if got := string(jsonPayload([]byte(`{"id":"t1"}`))); got != `{"id":"t1"}` {
		t.Fatalf("unexpected payload %s", got)
	}
}
