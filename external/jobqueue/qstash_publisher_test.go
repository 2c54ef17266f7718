package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
	"github.com/riskibarqy/sports-mirror/internal/platform/resilience"
)

func TestEnqueueSendsUpstashHeaders(t *testing.T) {
	t.Parallel()

	var gotPath, gotBody string
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	q, err := New(Config{
		BaseURL:          srv.URL,
		Token:            "qs-token",
		TargetBaseURL:    "https://mirror.example.com/",
		Retries:          2,
		InternalJobToken: "job-token",
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	err = q.Enqueue(context.Background(), "v1/sync/teams", map[string]any{"force_full": false}, 90*time.Second, "sync-retry-teams")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if gotPath != "/v2/publish/https://mirror.example.com/v1/sync/teams" {
		t.Fatalf("unexpected publish path %s", gotPath)
	}
	if gotHeader.Get("Authorization") != "Bearer qs-token" {
		t.Fatalf("missing bearer token")
	}
	if gotHeader.Get("Upstash-Delay") != "90s" || gotHeader.Get("Upstash-Retries") != "2" {
		t.Fatalf("unexpected upstash headers %v", gotHeader)
	}
	if gotHeader.Get("Upstash-Deduplication-Id") != "sync-retry-teams" {
		t.Fatalf("missing dedup id")
	}
	if gotHeader.Get("Upstash-Forward-X-Internal-Job-Token") != "job-token" {
		t.Fatalf("missing forwarded job token")
	}
	if gotBody != `{"force_full":false}` {
		t.Fatalf("unexpected body %s", gotBody)
	}
}

func TestEnqueueClassifiesFailures(t *testing.T) {
	t.Parallel()

	status := http.StatusServiceUnavailable
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	q, err := New(Config{
		BaseURL:        srv.URL,
		TargetBaseURL:  "https://mirror.example.com",
		CircuitBreaker: resilience.BreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute},
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	err = q.Enqueue(context.Background(), "/v1/sync/teams", nil, 0, "")
	if !IsTransient(err) {
		t.Fatalf("expected transient error, got=%v", err)
	}

	err = q.Enqueue(context.Background(), "/v1/sync/teams", nil, 0, "")
	if err == nil || !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Fatalf("expected open breaker, got=%v", err)
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{BaseURL: "ftp://qstash", TargetBaseURL: "https://x"}, nil); err == nil {
		t.Fatalf("expected scheme error")
	}
	if _, err := New(Config{BaseURL: "https://qstash.upstash.io", TargetBaseURL: ""}, nil); err == nil {
		t.Fatalf("expected empty target error")
	}
}

func TestCurlPreviewMasksCredentials(t *testing.T) {
	t.Parallel()

	preview := publishRequest{
		publishURL:   "https://q/v2/publish/https://t/v1/sync",
		delay:        "0s",
		body:         []byte(`{"a":"it's"}`),
		forwardToken: true,
	}.curlPreview()

	if !strings.Contains(preview, "Bearer ***") || !strings.Contains(preview, "Job-Token: ***") {
		t.Fatalf("credentials not masked: %s", preview)
	}
	if strings.Contains(preview, "Upstash-Delay") {
		t.Fatalf("zero delay should be omitted: %s", preview)
	}
	if !strings.Contains(preview, `'{"a":"it'"'"'s"}'`) {
		t.Fatalf("body not shell quoted: %s", preview)
	}
}

func TestFormatDelay(t *testing.T) {
	t.Parallel()

	cases := map[time.Duration]string{
		0:                       "0s",
		-time.Second:            "0s",
		1400 * time.Millisecond: "1s",
		5 * time.Minute:         "300s",
	}
	for in, want := range cases {
		if got := formatDelay(in); got != want {
			t.Fatalf("formatDelay(%s)=%s want=%s", in, got, want)
		}
	}
}
