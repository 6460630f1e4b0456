package upstream

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrRateLimited marks an upstream throttling response so routes can answer
// 503 instead of a generic failure.
var ErrRateLimited = errors.New("upstream rate limited")

// ErrMissingToken is returned when a client is asked to call an upstream
// whose API token env var is unset.
var ErrMissingToken = errors.New("upstream token missing")

// StatusError reports a non-2xx upstream response with a best-effort message
// extracted from the body.
type StatusError struct {
	Upstream   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "upstream request failed"
	}
	return fmt.Sprintf("%s: %s (status=%d)", e.Upstream, msg, e.StatusCode)
}

// rateLimitPhrases are body fragments some upstreams use instead of (or in
// addition to) a 429 status. Matching on wording is brittle but mirrors what
// the upstream actually sends today.
var rateLimitPhrases = []string{"too many attempts", "rate limit"}

// ClassifyStatus wraps a non-2xx response into the right error. A 429, or a
// throttle phrase in the message, becomes ErrRateLimited.
func ClassifyStatus(upstream string, statusCode int, message string) error {
	statusErr := &StatusError{Upstream: upstream, StatusCode: statusCode, Message: message}
	if statusCode == http.StatusTooManyRequests || containsRateLimitPhrase(message) {
		return errors.Mark(statusErr, ErrRateLimited)
	}
	return statusErr
}

// NewParseError wraps a JSON decode failure of an upstream body.
func NewParseError(upstream string, err error) error {
	return errors.Wrapf(err, "%s: decode upstream payload", upstream)
}

// IsRateLimited reports whether err carries the rate-limit marker.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsNotFound reports whether the upstream explicitly answered 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusNotFound
	}
	return false
}

func containsRateLimitPhrase(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range rateLimitPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
