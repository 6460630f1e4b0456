package cms

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"cricket-data-service/internal/logging"
	"cricket-data-service/internal/metrics"
	"cricket-data-service/internal/upstream"
)

// Name identifies this upstream in logs and metrics.
const Name = "cms"

const (
	defaultHTTPTimeout = 15 * time.Second
	maxBodyBytes       = 8 << 20
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how the client reaches the CMS backend.
type Config struct {
	BaseURL    string
	Token      string
	TokenEnv   string
	HTTPClient *http.Client
}

// Client fetches CMS content: news, archives, the catalog, and the curated
// upcoming-fixtures feed. Responses are mostly passed through untouched so
// the CMS keeps control of pagination envelopes.
type Client struct {
	baseURL    string
	token      string
	tokenEnv   string
	httpClient httpDoer
	logger     *slog.Logger
	rec        *metrics.Recorder
}

func NewClient(cfg Config, logger *slog.Logger, rec *metrics.Recorder) *Client {
	tokenEnv := cfg.TokenEnv
	if tokenEnv == "" {
		tokenEnv = "CMS_API_TOKEN"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/"),
		token:      strings.TrimSpace(cfg.Token),
		tokenEnv:   tokenEnv,
		httpClient: httpClient,
		logger:     logger,
		rec:        rec,
	}
}

// GetRaw issues one GET and returns the raw body for pass-through routes.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.baseURL == "" {
		return nil, errors.Newf("CMS_BASE_URL is not set")
	}
	if c.token == "" {
		return nil, errors.Wrapf(upstream.ErrMissingToken, "%s is not set", c.tokenEnv)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.rec.RecordUpstreamCall(Name, time.Since(start), err)
	if err != nil {
		logging.Warn(logging.FromContext(ctx, c.logger), "cms request failed",
			logging.FieldUpstream, Name, logging.FieldPath, path, "error", err)
		return nil, errors.Wrapf(err, "%s: send request", Name)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read response body", Name)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		classified := upstream.ClassifyStatus(Name, resp.StatusCode, extractMessage(raw))
		if upstream.IsRateLimited(classified) {
			c.rec.RecordRateLimit(Name)
		}
		return nil, classified
	}
	return raw, nil
}

// News returns the news listing with query forwarding.
func (c *Client) News(ctx context.Context, query url.Values) ([]byte, error) {
	return c.GetRaw(ctx, "/news", query)
}

// NewsCategories returns the news category list.
func (c *Client) NewsCategories(ctx context.Context) ([]byte, error) {
	return c.GetRaw(ctx, "/news/categories", nil)
}

// NewsSitemap returns the entries the news sitemap is built from.
func (c *Client) NewsSitemap(ctx context.Context) ([]byte, error) {
	return c.GetRaw(ctx, "/news/sitemap", nil)
}

// Archives returns the paginated finished-match archive, envelope untouched.
func (c *Client) Archives(ctx context.Context, query url.Values) ([]byte, error) {
	return c.GetRaw(ctx, "/archives", query)
}

// Catalog returns the generic catalog listing or one entry when id != "".
func (c *Client) Catalog(ctx context.Context, id string, query url.Values) ([]byte, error) {
	path := "/catalog"
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	return c.GetRaw(ctx, path, query)
}

// UpcomingEnvelope is one curated upcoming fixture: the SportMonks id plus
// the raw fixture payload captured at curation time.
type UpcomingEnvelope struct {
	SportmonksID int64           `json:"sportmonks_id"`
	Payload      json.RawMessage `json:"payload"`
}

// UpcomingFixtures returns the curated upcoming feed.
func (c *Client) UpcomingFixtures(ctx context.Context) ([]UpcomingEnvelope, error) {
	raw, err := c.GetRaw(ctx, "/fixtures/upcoming", nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data []UpcomingEnvelope `json:"data"`
	}
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, upstream.NewParseError(Name, err)
	}
	return envelope.Data, nil
}

func extractMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := sonic.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	trimmed := strings.TrimSpace(string(raw))
	if len(trimmed) > 256 {
		trimmed = trimmed[:256]
	}
	return trimmed
}
