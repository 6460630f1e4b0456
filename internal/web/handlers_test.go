package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cricket-data-service/internal/metrics"
	"cricket-data-service/internal/upstream/cms"
	"cricket-data-service/internal/upstream/sportmonks"
)

// fakeUpstream routes requests by path prefix and counts calls per path.
type fakeUpstream struct {
	mu     sync.Mutex
	calls  map[string]int
	routes map[string]fakeResponse
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{calls: make(map[string]int), routes: make(map[string]fakeResponse)}
}

func (f *fakeUpstream) on(path string, status int, body string) {
	f.routes[path] = fakeResponse{status: status, body: body}
}

func (f *fakeUpstream) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeUpstream) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeUpstream) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.calls[req.URL.Path]++
	f.mu.Unlock()

	resp, ok := f.routes[req.URL.Path]
	if !ok {
		resp = fakeResponse{status: http.StatusNotFound, body: `{"message":"not found"}`}
	}
	return &http.Response{
		StatusCode: resp.status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(resp.body)),
		Request:    req,
	}, nil
}

func newTestRouter(t *testing.T, sm, cmsUpstream *fakeUpstream, clk clock.Clock) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.NewRecorder()
	smClient := sportmonks.NewClient(sportmonks.Config{
		BaseURL:    "https://scores.test/api/v2.0",
		Token:      "test-token",
		HTTPClient: &http.Client{Transport: sm},
	}, logger, rec)
	cmsClient := cms.NewClient(cms.Config{
		BaseURL:    "https://cms.test",
		Token:      "test-token",
		HTTPClient: &http.Client{Transport: cmsUpstream},
	}, logger, rec)

	return NewRouter(NewHandler(Config{
		Logger:       logger,
		Recorder:     rec,
		SportMonks:   smClient,
		CMS:          cmsClient,
		Clock:        clk,
		LiveTTL:      time.Minute,
		CountriesTTL: 24 * time.Hour,
	}))
}

func doGet(router http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestRateLimitMapsToFixedBody(t *testing.T) {
	sm := newFakeUpstream()
	sm.on("/api/v2.0/team-rankings", http.StatusTooManyRequests, `{"message":"Too Many Attempts."}`)
	router := newTestRouter(t, sm, newFakeUpstream(), clock.NewMock())

	rr := doGet(router, "/api/team-rankings")

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"error":"SportMonks rate limit reached. Please try again soon."}`, rr.Body.String())
}

func TestRateLimitPhraseWithoutStatus(t *testing.T) {
	sm := newFakeUpstream()
	sm.on("/api/v2.0/teams", http.StatusInternalServerError, `{"message":"Rate Limit Exceeded"}`)
	router := newTestRouter(t, sm, newFakeUpstream(), clock.NewMock())

	rr := doGet(router, "/api/teams")

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"error":"SportMonks rate limit reached. Please try again soon."}`, rr.Body.String())
}

func TestLeagueFixturesNoSeasonsSoftFails(t *testing.T) {
	sm := newFakeUpstream()
	sm.on("/api/v2.0/leagues/10", http.StatusOK, `{"data":{"id":10,"name":"Test League","seasons":{"data":[]}}}`)
	router := newTestRouter(t, sm, newFakeUpstream(), clock.NewMock())

	rr := doGet(router, "/api/leagues/10/fixtures")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[],"success":true,"message":"No seasons found for this league"}`, rr.Body.String())
}

func TestLeagueTeamsNoSeasonsSoftFails(t *testing.T) {
	sm := newFakeUpstream()
	sm.on("/api/v2.0/leagues/42", http.StatusOK, `{"data":{"id":42,"name":"Dormant League"}}`)
	router := newTestRouter(t, sm, newFakeUpstream(), clock.NewMock())

	rr := doGet(router, "/api/leagues/42/teams")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[],"success":true,"message":"No seasons found for this league"}`, rr.Body.String())
}

func TestLeagueFixturesUpstreamFailureSoftFails(t *testing.T) {
	sm := newFakeUpstream()
	sm.on("/api/v2.0/leagues/10", http.StatusOK,
		`{"data":{"id":10,"name":"Test League","seasons":{"data":[{"id":77,"name":"2025","is_current_season":true}]}}}`)
	sm.on("/api/v2.0/fixtures", http.StatusInternalServerError, `{"message":"boom"}`)
	router := newTestRouter(t, sm, newFakeUpstream(), clock.NewMock())

	rr := doGet(router, "/api/leagues/10/fixtures")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[],"success":true,"message":"No fixtures found for this season"}`, rr.Body.String())
}

func TestLiveCacheCoalescesWindow(t *testing.T) {
	sm := newFakeUpstream()
	sm.on("/api/v2.0/livescores", http.StatusOK,
		`{"data":[{"id":1,"starting_at":"2026-08-29T10:00:00Z","status":"1st Innings","live":true}]}`)
	sm.on("/api/v2.0/fixtures", http.StatusOK, `{"data":[]}`)
	clk := clock.NewMock()
	router := newTestRouter(t, sm, newFakeUpstream(), clk)

	first := doGet(router, "/api/live")
	require.Equal(t, http.StatusOK, first.Code)
	callsAfterFirst := sm.total()
	assert.Equal(t, 1, sm.count("/api/v2.0/livescores"))

	second := doGet(router, "/api/live")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, callsAfterFirst, sm.total(), "second request inside the window must not hit upstream")
	assert.Equal(t, first.Body.String(), second.Body.String(), "cached responses must be byte-identical")

	clk.Add(61 * time.Second)
	third := doGet(router, "/api/live")
	require.Equal(t, http.StatusOK, third.Code)
	assert.Equal(t, 2, sm.count("/api/v2.0/livescores"))
}

func TestLiveSectionDegradesToEmpty(t *testing.T) {
	sm := newFakeUpstream()
	sm.on("/api/v2.0/livescores", http.StatusOK,
		`{"data":[{"id":1,"starting_at":"2026-08-29T10:00:00Z","status":"1st Innings","live":true}]}`)
	sm.on("/api/v2.0/fixtures", http.StatusInternalServerError, `{"message":"boom"}`)
	router := newTestRouter(t, sm, newFakeUpstream(), clock.NewMock())

	rr := doGet(router, "/api/live")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"upcoming":[]`)
	assert.Contains(t, rr.Body.String(), `"recent":[]`)
	assert.Contains(t, rr.Body.String(), `"live":[{`)
}

func TestFixtureByIDInvalid(t *testing.T) {
	router := newTestRouter(t, newFakeUpstream(), newFakeUpstream(), clock.NewMock())

	for _, path := range []string{"/api/fixture/abc", "/api/fixture/-3", "/api/match/abc", "/api/teams/0"} {
		rr := doGet(router, path)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
	}
}

func TestMatchNotFoundMapsTo404(t *testing.T) {
	sm := newFakeUpstream()
	router := newTestRouter(t, sm, newFakeUpstream(), clock.NewMock())

	rr := doGet(router, "/api/match/999")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestScorecardHydratesMissingNames(t *testing.T) {
	sm := newFakeUpstream()
	sm.on("/api/v2.0/fixtures/42", http.StatusOK, `{"data":{
		"id":42,"starting_at":"2026-08-29T10:00:00Z","status":"Finished",
		"localteam_id":7,"visitorteam_id":8,
		"localteam":{"id":7,"name":"Kings"},"visitorteam":{"id":8,"name":"Queens"},
		"batting":[
			{"player_id":100,"team_id":7,"score":50},
			{"player_id":100,"team_id":7,"score":10},
			{"player_id":101,"team_id":7,"score":3,"batsman":{"id":101,"fullname":"Inline Name"}}
		]}}`)
	sm.on("/api/v2.0/players/100", http.StatusOK, `{"data":{"id":100,"fullname":"Fetched Player"}}`)
	router := newTestRouter(t, sm, newFakeUpstream(), clock.NewMock())

	rr := doGet(router, "/api/match/42/scorecard")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `"Fetched Player"`)
	assert.Contains(t, body, `"Inline Name"`)
	assert.Equal(t, 1, sm.count("/api/v2.0/players/100"), "duplicate rows must share one lookup")
	assert.Equal(t, 0, sm.count("/api/v2.0/players/101"), "inline names must not be re-fetched")
}

func TestCuratedUpcomingDropsMalformedAndSetsCategory(t *testing.T) {
	cmsUpstream := newFakeUpstream()
	cmsUpstream.on("/fixtures/upcoming", http.StatusOK, `{"data":[
		{"sportmonks_id":2,"payload":{"id":2,"starting_at":"2026-09-02T10:00:00Z","status":"NS","league":{"id":3,"name":"T20 Blast"}}},
		{"sportmonks_id":9,"payload":{"id":9,"status":"NS"}},
		{"sportmonks_id":1,"payload":{"id":1,"starting_at":"2026-09-01T10:00:00Z","status":"NS","league":{"id":4,"name":"Test Championship"}}}
	]}`)
	router := newTestRouter(t, newFakeUpstream(), cmsUpstream, clock.NewMock())

	rr := doGet(router, "/api/fixture/upcoming")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.NotContains(t, body, `"id":9`, "payload without starting_at must be dropped")
	assert.Contains(t, body, `"category":"T20"`)
	assert.Contains(t, body, `"category":"Test"`)
	assert.Less(t, strings.Index(body, `"id":1`), strings.Index(body, `"id":2`), "fixtures must be sorted by start")
}

func TestCountriesCached(t *testing.T) {
	sm := newFakeUpstream()
	sm.on("/api/v2.0/countries", http.StatusOK, `{"data":[{"id":1,"name":"India"}]}`)
	router := newTestRouter(t, sm, newFakeUpstream(), clock.NewMock())

	first := doGet(router, "/api/countries")
	second := doGet(router, "/api/countries")

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, sm.count("/api/v2.0/countries"))
}

func TestTeamRankingsFormatGrouping(t *testing.T) {
	sm := newFakeUpstream()
	sm.on("/api/v2.0/team-rankings", http.StatusOK, `{"data":[
		{"resource":"rankings","type":"T20","gender":"men","team":[{"id":1,"name":"Alpha"}]},
		{"resource":"womens-rankings","type":"T20I","gender":"women","team":[{"id":2,"name":"Beta"}]},
		{"resource":"rankings","type":"ODI","gender":"men","team":[{"id":3,"name":"Gamma"}]}
	]}`)
	router := newTestRouter(t, sm, newFakeUpstream(), clock.NewMock())

	raw := doGet(router, "/api/team-rankings")
	require.Equal(t, http.StatusOK, raw.Code)
	assert.Contains(t, raw.Body.String(), `"Gamma"`)

	grouped := doGet(router, "/api/team-rankings?format=t20i")
	require.Equal(t, http.StatusOK, grouped.Code)
	assert.Contains(t, grouped.Body.String(), `"Alpha"`)
	assert.Contains(t, grouped.Body.String(), `"Beta"`)
	assert.NotContains(t, grouped.Body.String(), `"Gamma"`)

	bad := doGet(router, "/api/team-rankings?format=beach")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestNewsPassThrough(t *testing.T) {
	cmsUpstream := newFakeUpstream()
	cmsUpstream.on("/news", http.StatusOK, `{"data":[{"id":5,"title":"Headline"}],"meta":{"page":1}}`)
	router := newTestRouter(t, newFakeUpstream(), cmsUpstream, clock.NewMock())

	rr := doGet(router, "/api/news?page=1&per_page=10")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[{"id":5,"title":"Headline"}],"meta":{"page":1}}`, rr.Body.String())
}

func TestNewsSitemapPassThroughWithoutOrigin(t *testing.T) {
	cmsUpstream := newFakeUpstream()
	cmsUpstream.on("/news/sitemap", http.StatusOK, `{"data":[{"slug":"big-win","updated_at":"2026-08-28"}]}`)
	router := newTestRouter(t, newFakeUpstream(), cmsUpstream, clock.NewMock())

	rr := doGet(router, "/api/news/sitemap")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[{"slug":"big-win","updated_at":"2026-08-28"}]}`, rr.Body.String())
}

func TestNewsSitemapBuildsAbsoluteURLs(t *testing.T) {
	cmsUpstream := newFakeUpstream()
	cmsUpstream.on("/news/sitemap", http.StatusOK,
		`{"data":[{"slug":"big-win","updated_at":"2026-08-28"},{"slug":"","updated_at":"2026-08-27"}]}`)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.NewRecorder()
	cmsClient := cms.NewClient(cms.Config{
		BaseURL:    "https://cms.test",
		Token:      "test-token",
		HTTPClient: &http.Client{Transport: cmsUpstream},
	}, logger, rec)
	router := NewRouter(NewHandler(Config{
		Logger:     logger,
		Recorder:   rec,
		CMS:        cmsClient,
		SiteOrigin: "https://crickslab.test/",
		Clock:      clock.NewMock(),
	}))

	rr := doGet(router, "/api/news/sitemap")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[{"loc":"https://crickslab.test/news/big-win","lastmod":"2026-08-28"}]}`, rr.Body.String())
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, newFakeUpstream(), newFakeUpstream(), clock.NewMock())

	rr := doGet(router, "/healthz")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
