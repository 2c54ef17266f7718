package thesports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/match"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
	"github.com/riskibarqy/sports-mirror/internal/platform/resilience"
	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, breaker resilience.BreakerConfig) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		BaseURL:        srv.URL,
		User:           "mirror",
		Secret:         "s3cr3t",
		Timeout:        2 * time.Second,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func teamsDescriptor() resource.Descriptor {
	return resource.Descriptor{Name: resource.Teams, Kind: resource.KindEntity, Endpoint: "team/additional/list"}
}

func TestFetchPageDecodesEntitiesAndSendsCredentials(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/team/additional/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("user") != "mirror" || q.Get("secret") != "s3cr3t" || q.Get("page") != "2" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"code":0,"results":[
			{"id":"t1","name":" Arsenal ","short_name":"ARS","competition_id":"c1","country_id":"gb","updated_at":1700000000},
			"garbage",
			{"id":"t2","name":"Chelsea"}
		]}`))
	}, resilience.BreakerConfig{})

	page, err := client.FetchPage(context.Background(), teamsDescriptor(), 2)
	if err != nil {
		t.Fatalf("fetch page: %v", err)
	}
	if len(page.Records) != 2 {
		t.Fatalf("expected 2 records, got=%d", len(page.Records))
	}
	first, ok := page.Records[0].(catalog.Entity)
	if !ok {
		t.Fatalf("expected catalog.Entity, got=%T", page.Records[0])
	}
	if first.Name != "Arsenal" || first.ParentID != "c1" || first.CountryID != "gb" || first.UpdatedAt != 1700000000 {
		t.Fatalf("unexpected entity %+v", first)
	}
	if len(first.Payload) == 0 {
		t.Fatalf("expected raw payload to be kept")
	}
	if len(page.Rejected) != 1 || !strings.HasPrefix(page.Rejected[0].Reason, "result 1:") {
		t.Fatalf("expected one rejected result, got=%+v", page.Rejected)
	}
}

func TestFetchSinceDecodesMatches(t *testing.T) {
	t.Parallel()

	since := time.Unix(1700000000, 0)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("time"); got != "1700000000" {
			t.Errorf("expected time=1700000000, got=%s", got)
		}
		_, _ = w.Write([]byte(`{"code":0,"results":[{"id":"m1","home_team_id":"a","away_team_id":"b","status_id":2,"match_time":1700000100,"home_scores":[1,0,0,0,2,0,0],"away_scores":[0,0,1,0,0,0,0]}]}`))
	}, resilience.BreakerConfig{})

	desc := resource.Descriptor{Name: resource.Matches, Kind: resource.KindMatch, Endpoint: "match/recent/list"}
	page, err := client.FetchSince(context.Background(), desc, since)
	if err != nil {
		t.Fatalf("fetch since: %v", err)
	}
	if len(page.Records) != 1 {
		t.Fatalf("expected 1 record, got=%d", len(page.Records))
	}
	m := page.Records[0].(match.Match)
	if m.HomeScore() != 1 || m.AwayScore() != 0 || m.StatusID != match.StatusFirstHalf || m.MatchTime != 1700000100 {
		t.Fatalf("unexpected match %+v", m)
	}
}

func TestFetchPageClassifiesStatusErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		status    int
		transient bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, transient: true},
		{name: "server error", status: http.StatusBadGateway, transient: true},
		{name: "not found", status: http.StatusNotFound, transient: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"err":"nope"}`))
			}, resilience.BreakerConfig{})

			_, err := client.FetchPage(context.Background(), teamsDescriptor(), 1)
			if err == nil {
				t.Fatalf("expected error")
			}
			if IsTransient(err) != tc.transient {
				t.Fatalf("expected transient=%v, err=%v", tc.transient, err)
			}
		})
	}
}

func TestFetchPageProviderErrorBodyIsNotTransient(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":1,"err":"invalid secret"}`))
	}, resilience.BreakerConfig{})

	_, err := client.FetchPage(context.Background(), teamsDescriptor(), 1)
	if err == nil || IsTransient(err) {
		t.Fatalf("expected non-transient provider error, got=%v", err)
	}
	if !strings.Contains(err.Error(), "invalid secret") {
		t.Fatalf("expected provider message in error, got=%v", err)
	}
}

func TestBreakerOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, resilience.BreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		if _, err := client.FetchPage(context.Background(), teamsDescriptor(), 1); !IsTransient(err) {
			t.Fatalf("attempt %d: expected transient error, got=%v", i, err)
		}
	}
	_, err := client.FetchPage(context.Background(), teamsDescriptor(), 1)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable once open, got=%v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected open breaker to skip the request, hits=%d", got)
	}
}

func TestSharedRequestSurvivesFirstCallerCancel(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case entered <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte(`{"code":0,"results":[{"id":"t1","name":"Arsenal"}]}`))
	}, resilience.BreakerConfig{})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := client.FetchPage(firstCtx, teamsDescriptor(), 1)
		firstDone <- err
	}()

	<-entered
	cancelFirst()
	select {
	case err := <-firstDone:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected first caller to see context.Canceled, got=%v", err)
		}
	case <-time.After(time.Second):
		close(release)
		t.Fatalf("first caller did not return after cancel")
	}

	type outcome struct {
		records int
		err     error
	}
	secondDone := make(chan outcome, 1)
	go func() {
		page, err := client.FetchPage(context.Background(), teamsDescriptor(), 1)
		secondDone <- outcome{records: len(page.Records), err: err}
	}()

	// Let the second caller join the in-flight request before the server answers.
	time.Sleep(100 * time.Millisecond)
	close(release)

	got := <-secondDone
	if got.err != nil {
		t.Fatalf("second caller: %v", got.err)
	}
	if got.records != 1 {
		t.Fatalf("expected 1 record, got=%d", got.records)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("expected one shared round trip, got=%d", n)
	}
}

func TestRedactURLHidesSecret(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "https://example.test", Secret: "s3cr3t", Logger: logging.NewNop()})
	got := client.redactURL("https://example.test/team/list?page=1&secret=s3cr3t&user=mirror")
	if strings.Contains(got, "s3cr3t") || !strings.Contains(got, "secret=REDACTED") {
		t.Fatalf("secret leaked: %s", got)
	}
	if got := client.sanitize(`Get "https://x/?secret=abc&page=1": dial tcp`); strings.Contains(got, "abc") {
		t.Fatalf("secret leaked: %s", got)
	}
}

func TestFetchAnalysisSkipsMalformedRows(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("uuid") != "m1" {
			t.Errorf("expected uuid=m1, got=%s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"code":0,"results":{"history":{
			"vs":[["old1","c1",8,1690000000,["a","1",2,1],["b","4",0,0]],["broken"]],
			"home":[["old2","c1",8,1680000000,["a","",1,1],["x",null,1,0]]],
			"away":[]
		}}}`))
	}, resilience.BreakerConfig{})

	analysis, err := client.FetchAnalysis(context.Background(), "m1")
	if err != nil {
		t.Fatalf("fetch analysis: %v", err)
	}
	if len(analysis.HeadToHead) != 1 || len(analysis.HomeRecent) != 1 || len(analysis.AwayRecent) != 0 {
		t.Fatalf("unexpected analysis %+v", analysis)
	}
	if analysis.Skipped != 1 {
		t.Fatalf("expected skipped=1, got=%d", analysis.Skipped)
	}
	if analysis.HeadToHead[0].HomeScore != 2 || analysis.HeadToHead[0].AwayTeamID != "b" {
		t.Fatalf("unexpected head to head row %+v", analysis.HeadToHead[0])
	}
}

func TestFetchLineup(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":0,"results":{"confirmed":1,"home_formation":"4-3-3","away_formation":"4-4-2",
			"home":[{"id":"p1","name":"Keeper","shirt_number":1,"position":"G","first":1,"captain":0}],
			"away":[{"id":"p2","name":"Striker","shirt_number":9,"position":"F","first":0,"captain":1,"rating":"7.1"}]}}`))
	}, resilience.BreakerConfig{})

	lineup, err := client.FetchLineup(context.Background(), "m1")
	if err != nil {
		t.Fatalf("fetch lineup: %v", err)
	}
	if !lineup.Confirmed || lineup.MatchID != "m1" || lineup.AwayFormation != "4-4-2" {
		t.Fatalf("unexpected lineup %+v", lineup)
	}
	if !lineup.Home[0].First || !lineup.Away[0].Captain || lineup.Away[0].Rating != "7.1" {
		t.Fatalf("unexpected players home=%+v away=%+v", lineup.Home, lineup.Away)
	}
}
