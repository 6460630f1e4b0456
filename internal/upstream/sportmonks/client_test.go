package sportmonks

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"cricket-data-service/internal/metrics"
	"cricket-data-service/internal/upstream"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(t *testing.T, rt roundTripperFunc) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:    "https://upstream.test/api/v2.0",
		Token:      "secret-token",
		TokenEnv:   "SPORTMONKS_API_TOKEN",
		HTTPClient: &http.Client{Transport: rt},
	}, nil, metrics.NewRecorder())
}

func TestGetJSONAppendsTokenAndAcceptHeader(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{"data":[]}`), nil
	})

	var envelope dataEnvelope[[]countryResponse]
	if _, err := client.GetJSON(context.Background(), "/countries", nil, &envelope); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}

	if captured == nil {
		t.Fatal("no request issued")
	}
	if got := captured.URL.Query().Get("api_token"); got != "secret-token" {
		t.Errorf("api_token = %q, want secret-token", got)
	}
	if got := captured.Header.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q, want application/json", got)
	}
	if captured.URL.Path != "/api/v2.0/countries" {
		t.Errorf("path = %q", captured.URL.Path)
	}
}

func TestGetJSONMissingTokenFailsFast(t *testing.T) {
	called := false
	client := NewClient(Config{
		BaseURL:    "https://upstream.test",
		TokenEnv:   "SPORTMONKS_API_TOKEN",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			called = true
			return jsonResponse(http.StatusOK, `{}`), nil
		})},
	}, nil, nil)

	_, err := client.GetJSON(context.Background(), "/countries", nil, nil)
	if err == nil {
		t.Fatal("expected error for missing token")
	}
	if !strings.Contains(err.Error(), "SPORTMONKS_API_TOKEN") {
		t.Errorf("error should name the missing variable, got %q", err.Error())
	}
	if called {
		t.Error("no upstream call should be made without a token")
	}
}

func TestGetJSONClassifies429AsRateLimited(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{"message":"Too Many Attempts."}`), nil
	})

	_, err := client.GetJSON(context.Background(), "/team-rankings", nil, nil)
	if !upstream.IsRateLimited(err) {
		t.Fatalf("expected rate-limited error, got %v", err)
	}
}

func TestGetJSONClassifiesThrottlePhraseAsRateLimited(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusForbidden, `{"message":{"message":"Too Many Attempts."}}`), nil
	})

	_, err := client.GetJSON(context.Background(), "/team-rankings", nil, nil)
	if !upstream.IsRateLimited(err) {
		t.Fatalf("expected rate-limited error, got %v", err)
	}
}

func TestGetJSONNon2xxCarriesStatusAndMessage(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `{"message":"upstream exploded"}`), nil
	})

	_, err := client.GetJSON(context.Background(), "/fixtures/1", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "upstream exploded") || !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %q, want status and message", err.Error())
	}
}

func TestGetJSONInvalidJSONIsParseError(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `<html>not json</html>`), nil
	})

	var envelope dataEnvelope[[]countryResponse]
	_, err := client.GetJSON(context.Background(), "/countries", nil, &envelope)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "decode upstream payload") {
		t.Errorf("error = %q, want decode failure", err.Error())
	}
}

func TestGetJSONRecordsMetrics(t *testing.T) {
	rec := metrics.NewRecorder()
	client := NewClient(Config{
		BaseURL: "https://upstream.test",
		Token:   "tok",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusTooManyRequests, `{"message":"Too Many Attempts."}`), nil
		})},
	}, nil, rec)

	_, _ = client.GetJSON(context.Background(), "/livescores", nil, nil)

	snap := rec.Snapshot(Name)
	if snap.Calls != 1 {
		t.Errorf("Calls = %d, want 1", snap.Calls)
	}
	if snap.RateLimitHits != 1 {
		t.Errorf("RateLimitHits = %d, want 1", snap.RateLimitHits)
	}
}

func TestCurrentSeasonPrefersExplicitFlag(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{
			"id": 5, "name": "Big League",
			"seasons": {"data": [
				{"id": 10, "name": "2023"},
				{"id": 11, "name": "2024", "is_current_season": true},
				{"id": 12, "name": "2025"}
			]}
		}}`), nil
	})

	seasonID, err := client.CurrentSeason(context.Background(), 5)
	if err != nil {
		t.Fatalf("CurrentSeason: %v", err)
	}
	if seasonID != 11 {
		t.Errorf("seasonID = %d, want 11 (explicit flag)", seasonID)
	}
}

func TestCurrentSeasonFallsBackToLatestYear(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{
			"id": 5, "name": "Big League",
			"seasons": {"data": [
				{"id": 10, "name": "2022/2023"},
				{"id": 11, "name": "2023/2024"}
			]}
		}}`), nil
	})

	seasonID, err := client.CurrentSeason(context.Background(), 5)
	if err != nil {
		t.Fatalf("CurrentSeason: %v", err)
	}
	if seasonID != 11 {
		t.Errorf("seasonID = %d, want 11 (latest year)", seasonID)
	}
}

func TestCurrentSeasonNoSeasons(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"id": 42, "name": "Empty League"}}`), nil
	})

	seasonID, err := client.CurrentSeason(context.Background(), 42)
	if err != nil {
		t.Fatalf("CurrentSeason: %v", err)
	}
	if seasonID != 0 {
		t.Errorf("seasonID = %d, want 0 for league without seasons", seasonID)
	}
}

func TestRedactToken(t *testing.T) {
	in := "GET https://upstream.test/fixtures?api_token=abc123&include=runs failed"
	out := redactToken(in)
	if strings.Contains(out, "abc123") {
		t.Errorf("token leaked: %q", out)
	}
	if !strings.Contains(out, "api_token=REDACTED") {
		t.Errorf("expected redaction marker, got %q", out)
	}
}
