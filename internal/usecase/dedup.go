package usecase

import (
	"regexp"
	"strings"
	"time"
)

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// dedupKey buckets at by window so retries enqueued within the same window collapse into one job.
func dedupKey(prefix, subject string, at time.Time, window time.Duration) string {
	if window <= 0 {
		window = time.Minute
	}
	slot := at.UTC().Truncate(window).Format("20060102T150405Z")
	return sanitizeDedupSegment(prefix) + "-" + sanitizeDedupSegment(subject) + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}
