package sportmonks

import (
	"net/http"
	"regexp"
	"strings"
	"time"
)

const defaultHTTPTimeout = 15 * time.Second

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func normalizeBaseURL(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	return strings.TrimSuffix(raw, "/")
}

var apiTokenParam = regexp.MustCompile(`api_token=[^&\s"']+`)

// redactToken strips the api_token value out of anything headed for a log.
func redactToken(s string) string {
	return apiTokenParam.ReplaceAllString(s, "api_token=REDACTED")
}
