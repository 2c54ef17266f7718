package usecase

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
)

func TestDetectPageEnd(t *testing.T) {
	t.Parallel()

	t.Run("empty page stops", func(t *testing.T) {
		t.Parallel()
		verdict := DetectPageEnd(nil, mapset.NewThreadUnsafeSet[string]())
		if verdict.Continue || verdict.Reason != PageEndEmpty {
			t.Fatalf("unexpected verdict: %+v", verdict)
		}
	})

	t.Run("all seen stops without touching set", func(t *testing.T) {
		t.Parallel()
		seen := mapset.NewThreadUnsafeSet("t1", "t2")
		verdict := DetectPageEnd(entities("t", 1, 2), seen)
		if verdict.Continue || verdict.Reason != PageEndAllDuplicates || len(verdict.New) != 0 {
			t.Fatalf("unexpected verdict: %+v", verdict)
		}
		if seen.Cardinality() != 2 {
			t.Fatalf("seen set changed: %v", seen)
		}
	})

	t.Run("partial page continues and records new ids", func(t *testing.T) {
		t.Parallel()
		seen := mapset.NewThreadUnsafeSet("t1", "t2", "t3")
		verdict := DetectPageEnd(entities("t", 1, 4), seen)
		if !verdict.Continue {
			t.Fatalf("expected continue, got %+v", verdict)
		}
		if len(verdict.New) != 1 || verdict.New[0].NaturalID() != "t4" {
			t.Fatalf("unexpected new records: %+v", verdict.New)
		}
		if !verdict.NearEnd() || verdict.NewRatio != 0.25 {
			t.Fatalf("expected near-end ratio 0.25, got %v", verdict.NewRatio)
		}
		if !seen.Contains("t4") {
			t.Fatalf("new id not added to seen")
		}
	})

	t.Run("repeated id within a page counts once", func(t *testing.T) {
		t.Parallel()
		page := append(entities("t", 1, 2), entities("t", 1, 1)...)
		verdict := DetectPageEnd(page, mapset.NewThreadUnsafeSet[string]())
		if len(verdict.New) != 2 {
			t.Fatalf("expected 2 new records, got %d", len(verdict.New))
		}
	})
}
