// Package web is the HTTP surface: a chi router in front of handlers that
// aggregate the scores provider and the CMS backend into the shapes the
// site consumes.
package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/itbasis/go-clock"
	"github.com/unrolled/render"

	"cricket-data-service/internal/cache"
	"cricket-data-service/internal/logging"
	"cricket-data-service/internal/metrics"
	"cricket-data-service/internal/upstream/cms"
	"cricket-data-service/internal/upstream/sportmonks"
	"cricket-data-service/internal/web/apierror"
)

// Include sets requested from the scores provider per route family. The
// summary set is what every fixture list carries; detail routes widen it.
const (
	includeSummary    = "league,localteam,visitorteam,runs"
	includeCommentary = includeSummary + ",balls"
	includeScorecard  = includeSummary + ",batting.batsman,bowling.bowler"
)

// fixtureDetailTimeout bounds the slowest route. Other routes rely on the
// upstream clients' own HTTP timeouts.
const fixtureDetailTimeout = 10 * time.Second

// Config wires a Handler.
type Config struct {
	Logger       *slog.Logger
	Recorder     *metrics.Recorder
	SportMonks   *sportmonks.Client
	CMS          *cms.Client
	Clock        clock.Clock
	SiteOrigin   string
	LiveTTL      time.Duration
	CountriesTTL time.Duration
}

// Handler carries the dependencies shared by every route.
type Handler struct {
	logger         *slog.Logger
	rec            *metrics.Recorder
	render         *render.Render
	sportmonks     *sportmonks.Client
	cms            *cms.Client
	clock          clock.Clock
	siteOrigin     string
	liveCache      *cache.Store
	countriesCache *cache.Store
}

func NewHandler(cfg Config) *Handler {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Handler{
		logger:         cfg.Logger,
		rec:            cfg.Recorder,
		render:         render.New(),
		sportmonks:     cfg.SportMonks,
		cms:            cfg.CMS,
		clock:          clk,
		siteOrigin:     strings.TrimSuffix(cfg.SiteOrigin, "/"),
		liveCache:      cache.NewStore(cfg.LiveTTL, clk),
		countriesCache: cache.NewStore(cfg.CountriesTTL, clk),
	}
}

// dataResponse is the {"data": ...} envelope mapped routes answer with.
type dataResponse struct {
	Data any `json:"data"`
}

// softEmptyResponse is the 200 body for routes that degrade to an empty
// list instead of surfacing an upstream failure.
type softEmptyResponse struct {
	Data    []any  `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) writeData(w http.ResponseWriter, r *http.Request, v any) {
	if err := h.render.JSON(w, http.StatusOK, dataResponse{Data: v}); err != nil {
		logging.Warn(logging.FromContext(r.Context(), h.logger), "write response failed", "error", err)
	}
}

// writeRawJSON forwards an upstream body untouched.
func (h *Handler) writeRawJSON(w http.ResponseWriter, raw []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *Handler) writeSoftEmpty(w http.ResponseWriter, r *http.Request, message string) {
	body := softEmptyResponse{Data: []any{}, Success: true, Message: message}
	if err := h.render.JSON(w, http.StatusOK, body); err != nil {
		logging.Warn(logging.FromContext(r.Context(), h.logger), "write response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apierror.AsError(err)
	logger := logging.FromContext(r.Context(), h.logger)
	if apiErr.Status() >= http.StatusInternalServerError {
		logging.Error(logger, "request failed", err, logging.FieldStatusCode, apiErr.Status())
	} else {
		logging.Warn(logger, "request rejected", logging.FieldStatusCode, apiErr.Status(), "error", err)
	}
	_ = h.render.JSON(w, apiErr.Status(), apiErr.Body())
}

// intParam parses a positive integer path parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, apierror.Validation(name + " must be a positive integer")
	}
	return value, nil
}
