package jobqueue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
	"github.com/riskibarqy/sports-mirror/internal/platform/resilience"
)

var errTransient = crerr.New("qstash transient failure")

// IsTransient reports whether an Enqueue failure may succeed on a later attempt.
func IsTransient(err error) bool {
	return err != nil && crerr.Is(err, errTransient)
}

type Config struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.BreakerConfig
}

// QStash schedules delayed HTTP callbacks into this service through Upstash QStash.
type QStash struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.Breaker
}

// New validates both base URLs up front so a misconfigured queue fails at startup.
func New(cfg Config, logger *logging.Logger) (*QStash, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(cfg.TargetBaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &QStash{
		client:           &http.Client{Timeout: timeout},
		baseURL:          baseURL,
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    targetBaseURL,
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger.Named("qstash"),
		breaker:          resilience.NewBreaker(cfg.CircuitBreaker),
	}, nil
}

func (q *QStash) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return crerr.New("job path is required")
	}
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal job payload")
	}

	targetURL := q.targetBaseURL + path
	publishURL := q.baseURL + "/v2/publish/" + targetURL
	job := publishRequest{
		publishURL:      publishURL,
		path:            path,
		delay:           formatDelay(delay),
		retries:         q.retries,
		deduplicationID: strings.TrimSpace(deduplicationID),
		body:            body,
		forwardToken:    q.internalJobToken != "",
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", targetURL),
			attribute.String("qstash.path", path),
			attribute.String("qstash.delay", job.delay),
		)
	}
	q.logger.DebugContext(ctx, "qstash publish request", "path", path, "curl_preview", job.curlPreview())

	err = q.breaker.Execute(func() error {
		return q.send(ctx, job)
	}, func(err error) bool { return !IsTransient(err) })
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			q.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", string(q.breaker.State()))
			return fmt.Errorf("qstash is temporarily unavailable: %w", err)
		}
		return err
	}

	q.logger.InfoContext(ctx, "qstash job published", "path", path, "delay", job.delay, "deduplication_id", job.deduplicationID)
	return nil
}

func (q *QStash) send(ctx context.Context, job publishRequest) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, job.publishURL, bytes.NewReader(job.body))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	req.Header.Set("Authorization", "Bearer "+q.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Method", http.MethodPost)
	if job.retries > 0 {
		req.Header.Set("Upstash-Retries", strconv.Itoa(job.retries))
	}
	if job.delay != "0s" {
		req.Header.Set("Upstash-Delay", job.delay)
	}
	if job.deduplicationID != "" {
		req.Header.Set("Upstash-Deduplication-Id", job.deduplicationID)
	}
	if q.internalJobToken != "" {
		req.Header.Set("Upstash-Forward-X-Internal-Job-Token", q.internalJobToken)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return crerr.Mark(crerr.Wrapf(err, "publish qstash job path=%s", job.path), errTransient)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	callErr := crerr.Newf("publish qstash job status=%d path=%s body=%s", resp.StatusCode, job.path, strings.TrimSpace(string(raw)))
	if isRetryableStatus(resp.StatusCode) {
		callErr = crerr.Mark(callErr, errTransient)
	}
	return callErr
}

type publishRequest struct {
	publishURL      string
	path            string
	delay           string
	retries         int
	deduplicationID string
	body            []byte
	forwardToken    bool
}

// curlPreview renders the request as a shell command with credentials masked.
func (r publishRequest) curlPreview() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	header := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl -X POST")
	appendPart(shellQuote(r.publishURL))
	header("Authorization: Bearer ***")
	header("Content-Type: application/json")
	header("Upstash-Method: POST")
	if r.retries > 0 {
		header("Upstash-Retries: " + strconv.Itoa(r.retries))
	}
	if r.delay != "0s" {
		header("Upstash-Delay: " + r.delay)
	}
	if r.deduplicationID != "" {
		header("Upstash-Deduplication-Id: " + r.deduplicationID)
	}
	if r.forwardToken {
		header("Upstash-Forward-X-Internal-Job-Token: ***")
	}
	appendPart("-d")
	appendPart(shellQuote(truncateForLog(string(r.body), 4096)))
	return buf.String()
}

func formatDelay(delay time.Duration) string {
	seconds := int(delay.Round(time.Second).Seconds())
	if seconds <= 0 {
		return "0s"
	}
	return strconv.Itoa(seconds) + "s"
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return strings.TrimRight(candidate, "/"), nil
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
