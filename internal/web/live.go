package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/sourcegraph/conc/pool"

	"cricket-data-service/internal/domain"
	"cricket-data-service/internal/logging"
	"cricket-data-service/internal/upstream"
	"cricket-data-service/internal/web/apierror"
)

// All live requests share one cache slot; the payload does not vary by
// caller.
const liveCacheKey = "live"

// liveSnapshot is the aggregated scoreboard payload. The three sections are
// fetched concurrently and serialized once, so every response inside a
// cache window is byte-identical.
type liveSnapshot struct {
	Live     []domain.Fixture `json:"live"`
	Upcoming []domain.Fixture `json:"upcoming"`
	Recent   []domain.Fixture `json:"recent"`
}

// Live serves the aggregated live scoreboard from the 60 second cache.
// Concurrent cold-cache requests coalesce into a single upstream fan-out.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	value, hit, err := h.liveCache.GetOrLoad(r.Context(), liveCacheKey, h.loadLiveSnapshot)
	h.rec.RecordCacheLookup("live", hit)
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load live scores"))
		return
	}
	h.writeRawJSON(w, value.([]byte))
}

// loadLiveSnapshot fans out the three provider calls, assembles the
// snapshot, and serializes it for caching. A section that fails (other than
// by throttling) degrades to an empty list so the scoreboard stays up.
func (h *Handler) loadLiveSnapshot(ctx context.Context) (any, error) {
	now := h.clock.Now()
	logger := logging.FromContext(ctx, h.logger)

	var snapshot liveSnapshot
	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		fixtures, err := h.sportmonks.Livescores(ctx)
		if err != nil {
			return sectionError(logger, "live", err)
		}
		snapshot.Live = fixtures
		return nil
	})
	p.Go(func(ctx context.Context) error {
		fixtures, err := h.sportmonks.FixturesBetween(ctx, now, now.Add(upcomingWindow), "starting_at")
		if err != nil {
			return sectionError(logger, "upcoming", err)
		}
		domain.SortFixturesByStart(fixtures)
		snapshot.Upcoming = fixtures
		return nil
	})
	p.Go(func(ctx context.Context) error {
		fixtures, err := h.sportmonks.FixturesBetween(ctx, now.Add(-recentWindow), now, "-starting_at")
		if err != nil {
			return sectionError(logger, "recent", err)
		}
		domain.SortFixturesByStart(fixtures)
		reverseFixtures(fixtures)
		snapshot.Recent = fixtures
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	snapshot.Live = nonNilFixtures(snapshot.Live)
	snapshot.Upcoming = nonNilFixtures(snapshot.Upcoming)
	snapshot.Recent = nonNilFixtures(snapshot.Recent)

	raw, err := sonic.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// sectionError decides whether one failed section sinks the whole snapshot.
// Throttling does: serving a part-empty snapshot for a full cache window
// would hide the 503 the client needs to see.
func sectionError(logger *slog.Logger, section string, err error) error {
	if upstream.IsRateLimited(err) {
		return err
	}
	logging.Warn(logger, "live section degraded", "section", section, "error", err)
	return nil
}
