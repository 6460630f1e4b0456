package sportmonks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"cricket-data-service/internal/domain"
	"cricket-data-service/internal/logging"
	"cricket-data-service/internal/metrics"
	"cricket-data-service/internal/upstream"
)

const defaultBaseURL = "https://cricket.sportmonks.com/api/v2.0"

// maxBodyBytes caps how much of an upstream body is read; livescore
// payloads with full includes run large but nowhere near this.
const maxBodyBytes = 8 << 20

// Config controls how the client reaches the SportMonks cricket API.
type Config struct {
	BaseURL    string
	Token      string
	TokenEnv   string
	HTTPClient *http.Client
}

// Client fetches cricket data from SportMonks and maps it to domain models.
// It performs exactly one upstream attempt per call; there are no retries.
type Client struct {
	baseURL    string
	token      string
	tokenEnv   string
	httpClient httpDoer
	logger     *slog.Logger
	rec        *metrics.Recorder
}

// NewClient constructs a SportMonks client with the provided configuration.
func NewClient(cfg Config, logger *slog.Logger, rec *metrics.Recorder) *Client {
	tokenEnv := cfg.TokenEnv
	if tokenEnv == "" {
		tokenEnv = "SPORTMONKS_API_TOKEN"
	}
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL, defaultBaseURL),
		token:      strings.TrimSpace(cfg.Token),
		tokenEnv:   tokenEnv,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		logger:     logger,
		rec:        rec,
	}
}

// GetJSON issues one GET against path, appending the api_token, and decodes
// the body into target. The raw body is returned for pass-through routes.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, target any) ([]byte, error) {
	if c.token == "" {
		return nil, errors.Wrapf(upstream.ErrMissingToken, "%s is not set", c.tokenEnv)
	}

	values := url.Values{}
	for key, vals := range query {
		for _, val := range vals {
			values.Add(key, val)
		}
	}
	values.Set("api_token", c.token)

	fullURL := c.baseURL + path + "?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.rec.RecordUpstreamCall(Name, time.Since(start), err)
	if err != nil {
		logging.Warn(logging.FromContext(ctx, c.logger), "sportmonks request failed",
			logging.FieldUpstream, Name, logging.FieldPath, path, "error", redactToken(err.Error()))
		return nil, errors.Newf("%s: send request: %s", Name, redactToken(err.Error()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read response body", Name)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		classified := upstream.ClassifyStatus(Name, resp.StatusCode, extractErrorMessage(raw))
		if upstream.IsRateLimited(classified) {
			c.rec.RecordRateLimit(Name)
		}
		logging.Warn(logging.FromContext(ctx, c.logger), "sportmonks non-2xx response",
			logging.FieldUpstream, Name, logging.FieldPath, path, logging.FieldStatusCode, resp.StatusCode)
		return nil, classified
	}

	if target != nil {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return nil, upstream.NewParseError(Name, err)
		}
	}
	return raw, nil
}

// Countries returns the {id, name} country list.
func (c *Client) Countries(ctx context.Context) ([]domain.Country, error) {
	var envelope dataEnvelope[[]countryResponse]
	if _, err := c.GetJSON(ctx, "/countries", nil, &envelope); err != nil {
		return nil, err
	}
	countries := make([]domain.Country, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		countries = append(countries, domain.Country{ID: int(row.ID), Name: row.Name})
	}
	return countries, nil
}

// Leagues returns league metadata with seasons included.
func (c *Client) Leagues(ctx context.Context) ([]League, error) {
	query := url.Values{"include": {"seasons"}}
	var envelope dataEnvelope[[]leagueResponse]
	if _, err := c.GetJSON(ctx, "/leagues", query, &envelope); err != nil {
		return nil, err
	}
	leagues := make([]League, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		leagues = append(leagues, mapLeague(row))
	}
	return leagues, nil
}

// LeagueByID returns one league with its seasons.
func (c *Client) LeagueByID(ctx context.Context, id int) (League, error) {
	query := url.Values{"include": {"seasons"}}
	var envelope dataEnvelope[leagueResponse]
	if _, err := c.GetJSON(ctx, fmt.Sprintf("/leagues/%d", id), query, &envelope); err != nil {
		return League{}, err
	}
	return mapLeague(envelope.Data), nil
}

// CurrentSeason resolves a league's current season: explicit flag first,
// else the season whose name parses to the latest year. Zero means the
// league has no seasons at all.
func (c *Client) CurrentSeason(ctx context.Context, leagueID int) (int, error) {
	league, err := c.LeagueByID(ctx, leagueID)
	if err != nil {
		return 0, err
	}
	return ResolveCurrentSeason(league.Seasons), nil
}

// FixtureByID returns one fixture with the given include set. Scorecard
// rows are present only when the include set asks for them.
func (c *Client) FixtureByID(ctx context.Context, id int, include string) (FixtureDetail, error) {
	query := url.Values{}
	if include != "" {
		query.Set("include", include)
	}
	var envelope dataEnvelope[fixtureResponse]
	if _, err := c.GetJSON(ctx, fmt.Sprintf("/fixtures/%d", id), query, &envelope); err != nil {
		return FixtureDetail{}, err
	}
	detail, ok := MapFixtureDetail(envelope.Data)
	if !ok {
		return FixtureDetail{}, errors.Newf("%s: fixture %d has no start timestamp", Name, id)
	}
	return detail, nil
}

// Livescores returns currently running fixtures.
func (c *Client) Livescores(ctx context.Context) ([]domain.Fixture, error) {
	query := url.Values{"include": {"league,localteam,visitorteam,runs"}}
	var envelope dataEnvelope[[]fixtureResponse]
	if _, err := c.GetJSON(ctx, "/livescores", query, &envelope); err != nil {
		return nil, err
	}
	return mapFixtures(envelope.Data), nil
}

// FixturesBetween returns fixtures starting inside [from, to].
func (c *Client) FixturesBetween(ctx context.Context, from, to time.Time, sort string) ([]domain.Fixture, error) {
	query := url.Values{
		"include": {"league,localteam,visitorteam,runs"},
		"filter[starts_between]": {fmt.Sprintf("%s,%s",
			from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))},
	}
	if sort != "" {
		query.Set("sort", sort)
	}
	var envelope dataEnvelope[[]fixtureResponse]
	if _, err := c.GetJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return nil, err
	}
	return mapFixtures(envelope.Data), nil
}

// SeasonFixtures returns the fixtures of one season.
func (c *Client) SeasonFixtures(ctx context.Context, seasonID int) ([]domain.Fixture, error) {
	query := url.Values{
		"include":           {"league,localteam,visitorteam,runs"},
		"filter[season_id]": {fmt.Sprintf("%d", seasonID)},
	}
	var envelope dataEnvelope[[]fixtureResponse]
	if _, err := c.GetJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return nil, err
	}
	return mapFixtures(envelope.Data), nil
}

// SeasonTeams returns the teams of one season.
func (c *Client) SeasonTeams(ctx context.Context, seasonID int) ([]domain.Team, error) {
	var envelope dataEnvelope[[]teamResponse]
	if _, err := c.GetJSON(ctx, fmt.Sprintf("/teams/season/%d", seasonID), nil, &envelope); err != nil {
		return nil, err
	}
	teams := make([]domain.Team, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		if team := MapTeam(&row); team != nil {
			teams = append(teams, *team)
		}
	}
	return teams, nil
}

// SeasonStandings returns the standings table of one season.
func (c *Client) SeasonStandings(ctx context.Context, seasonID int) ([]Standing, error) {
	query := url.Values{"include": {"team"}}
	var envelope dataEnvelope[[]standingResponse]
	if _, err := c.GetJSON(ctx, fmt.Sprintf("/standings/season/%d", seasonID), query, &envelope); err != nil {
		return nil, err
	}
	standings := make([]Standing, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		standings = append(standings, mapStanding(row))
	}
	return standings, nil
}

// SeasonVenues returns the venues of one season as raw pass-through.
func (c *Client) SeasonVenues(ctx context.Context, seasonID int) ([]byte, error) {
	return c.GetJSON(ctx, fmt.Sprintf("/venues/season/%d", seasonID), nil, nil)
}

// SeasonStats returns season aggregates as raw pass-through.
func (c *Client) SeasonStats(ctx context.Context, seasonID int) ([]byte, error) {
	return c.GetJSON(ctx, fmt.Sprintf("/seasons/%d", seasonID), url.Values{"include": {"fixtures"}}, nil)
}

// Teams returns the full team list.
func (c *Client) Teams(ctx context.Context) ([]domain.Team, error) {
	var envelope dataEnvelope[[]teamResponse]
	if _, err := c.GetJSON(ctx, "/teams", nil, &envelope); err != nil {
		return nil, err
	}
	teams := make([]domain.Team, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		if team := MapTeam(&row); team != nil {
			teams = append(teams, *team)
		}
	}
	return teams, nil
}

// TeamByID returns one team.
func (c *Client) TeamByID(ctx context.Context, id int) (domain.Team, error) {
	var envelope dataEnvelope[teamResponse]
	if _, err := c.GetJSON(ctx, fmt.Sprintf("/teams/%d", id), nil, &envelope); err != nil {
		return domain.Team{}, err
	}
	team := MapTeam(&envelope.Data)
	if team == nil {
		return domain.Team{}, &upstream.StatusError{Upstream: Name, StatusCode: http.StatusNotFound, Message: "team not found"}
	}
	return *team, nil
}

// Players returns the player list; pagination params are forwarded.
func (c *Client) Players(ctx context.Context, query url.Values) ([]domain.Player, error) {
	var envelope dataEnvelope[[]playerResponse]
	if _, err := c.GetJSON(ctx, "/players", query, &envelope); err != nil {
		return nil, err
	}
	players := make([]domain.Player, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		players = append(players, MapPlayer(row))
	}
	return players, nil
}

// PlayerByID returns one player with career include.
func (c *Client) PlayerByID(ctx context.Context, id int) (domain.Player, error) {
	query := url.Values{"include": {"country,career"}}
	var envelope dataEnvelope[playerResponse]
	if _, err := c.GetJSON(ctx, fmt.Sprintf("/players/%d", id), query, &envelope); err != nil {
		return domain.Player{}, err
	}
	return MapPlayer(envelope.Data), nil
}

// TeamRankings returns raw ranking entries; gender/format grouping is a
// caller concern.
func (c *Client) TeamRankings(ctx context.Context) ([]domain.RankingEntry, error) {
	var envelope dataEnvelope[[]rankingEntryResponse]
	if _, err := c.GetJSON(ctx, "/team-rankings", nil, &envelope); err != nil {
		return nil, err
	}
	entries := make([]domain.RankingEntry, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		entries = append(entries, mapRankingEntry(row))
	}
	return entries, nil
}

// extractErrorMessage pulls a human-readable message out of an upstream
// failure body; bodies vary between {"message": "..."} and
// {"message": {"message": "..."}}.
func extractErrorMessage(raw []byte) string {
	var body errorBody
	if err := sonic.Unmarshal(raw, &body); err != nil {
		return truncate(strings.TrimSpace(string(raw)), 256)
	}
	if msg := decodeMessageField(body.Message); msg != "" {
		return msg
	}
	if msg := decodeMessageField(body.Error); msg != "" {
		return msg
	}
	return truncate(strings.TrimSpace(string(raw)), 256)
}

func decodeMessageField(raw sonicRaw) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := sonic.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(raw, &nested); err == nil {
		return nested.Message
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
