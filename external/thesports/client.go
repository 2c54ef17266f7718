package thesports

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
	"github.com/riskibarqy/sports-mirror/internal/platform/resilience"
	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.thesports.com/v1/football"
	maxResponseSize = 8 << 20
)

var secretParamRegex = regexp.MustCompile(`secret=[^&\s"']+`)

var errTransient = crerr.New("thesports transient failure")

// IsTransient reports whether err is worth retrying: network failures, 429 and 5xx.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return crerr.Is(err, errTransient)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	User           string
	Secret         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

// Client talks to the TheSports REST API. Retries are left to the caller's
// retry strategy; one call here is exactly one HTTP attempt.
type Client struct {
	httpClient *http.Client
	baseURL    string
	user       string
	secret     string
	logger     *logging.Logger
	breaker    *resilience.Breaker
	flight     resilience.Flight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breaker := resilience.NewBreaker(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.State) {
		logger.Warn("thesports circuit breaker state changed", "from", string(from), "to", string(to))
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		user:       strings.TrimSpace(cfg.User),
		secret:     strings.TrimSpace(cfg.Secret),
		logger:     logger,
		breaker:    breaker,
	}
}

// get performs GET {baseURL}/{endpoint} and returns the raw body.
// Concurrent identical requests share one round trip.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "thesports circuit breaker rejected request", "endpoint", endpoint, "state", string(c.breaker.State()))
		return nil, fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	values := url.Values{}
	for key, items := range query {
		for _, item := range items {
			values.Add(key, item)
		}
	}
	key := strings.TrimLeft(endpoint, "/") + "?" + values.Encode()

	values.Set("user", c.user)
	values.Set("secret", c.secret)
	fullURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/") + "?" + values.Encode()

	// The shared round trip outlives any single caller: it runs detached from
	// the caller's cancellation, bounded by the http client timeout, and each
	// caller stops waiting on its own ctx.
	type flightResult struct {
		body []byte
		err  error
	}
	done := make(chan flightResult, 1)
	go func() {
		raw, err, _ := c.flight.Do(key, func() ([]byte, error) {
			reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.httpClient.Timeout)
			defer cancel()

			body, reqErr := c.executeRequest(reqCtx, fullURL)
			if reqErr != nil && IsTransient(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
			return body, reqErr
		})
		done <- flightResult{body: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.body, res.err
	}
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		reqErr := crerr.Mark(crerr.Newf("send request: %s", c.sanitize(err.Error())), errTransient)
		c.logger.WarnContext(ctx, "thesports request failed", "url", c.redactURL(fullURL), "error", reqErr)
		return nil, reqErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, crerr.Mark(crerr.Wrap(err, "read response body"), errTransient)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	statusErr := crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	if isRetryableStatus(resp.StatusCode) {
		statusErr = crerr.Mark(statusErr, errTransient)
	}
	c.logger.WarnContext(ctx, "thesports request failed", "url", c.redactURL(fullURL), "status", resp.StatusCode, "error", statusErr)
	return nil, statusErr
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if c.secret != "" {
		value = strings.ReplaceAll(value, c.secret, "REDACTED")
	}
	return secretParamRegex.ReplaceAllString(value, "secret=REDACTED")
}

func (c *Client) redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return c.sanitize(rawURL)
	}
	query := parsed.Query()
	if query.Has("secret") {
		query.Set("secret", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
