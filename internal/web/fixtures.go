package web

import (
	"context"
	"net/http"
	"time"

	"cricket-data-service/internal/domain"
	"cricket-data-service/internal/hydrate"
	"cricket-data-service/internal/logging"
	"cricket-data-service/internal/upstream/sportmonks"
	"cricket-data-service/internal/web/apierror"
)

// Fixture list windows. The site shows three months ahead and six weeks
// back on its schedule pages.
const (
	upcomingWindow = 90 * 24 * time.Hour
	recentWindow   = 45 * 24 * time.Hour
)

// FixtureByID returns one fixture with full scorecard, names hydrated.
// This is the heaviest route, so it runs under its own deadline.
func (h *Handler) FixtureByID(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fixtureDetailTimeout)
	defer cancel()

	detail, err := h.sportmonks.FixtureByID(ctx, id, includeScorecard)
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load fixture"))
		return
	}
	h.hydrateFixtureTeams(ctx, &detail)
	h.hydrateScorecardPlayers(ctx, &detail)
	h.writeData(w, r, detail)
}

// Match returns the fixture summary without scorecard rows.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	h.matchDetail(w, r, includeSummary, false)
}

// MatchCommentary adds the ball-by-ball feed to the summary.
func (h *Handler) MatchCommentary(w http.ResponseWriter, r *http.Request) {
	h.matchDetail(w, r, includeCommentary, false)
}

// MatchScorecard adds batting and bowling rows, with player names hydrated.
func (h *Handler) MatchScorecard(w http.ResponseWriter, r *http.Request) {
	h.matchDetail(w, r, includeScorecard, true)
}

func (h *Handler) matchDetail(w http.ResponseWriter, r *http.Request, include string, hydratePlayers bool) {
	id, err := intParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	detail, err := h.sportmonks.FixtureByID(r.Context(), id, include)
	if err != nil {
		h.writeError(w, r, apierror.FromGateway(err, "unable to load match"))
		return
	}
	h.hydrateFixtureTeams(r.Context(), &detail)
	if hydratePlayers {
		h.hydrateScorecardPlayers(r.Context(), &detail)
	}
	h.writeData(w, r, detail)
}

// Upcoming lists fixtures starting inside the forward window, soonest first.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	fixtures, err := h.sportmonks.FixturesBetween(r.Context(), now, now.Add(upcomingWindow), "starting_at")
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load upcoming fixtures"))
		return
	}
	domain.SortFixturesByStart(fixtures)
	h.writeData(w, r, nonNilFixtures(fixtures))
}

// Recent lists fixtures from the trailing window, most recent first.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	fixtures, err := h.sportmonks.FixturesBetween(r.Context(), now.Add(-recentWindow), now, "-starting_at")
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load recent fixtures"))
		return
	}
	domain.SortFixturesByStart(fixtures)
	reverseFixtures(fixtures)
	h.writeData(w, r, nonNilFixtures(fixtures))
}

// CuratedUpcoming serves the editorially curated schedule: fixture payloads
// captured by the CMS at curation time, re-normalized here so stale
// snapshots still match the live shapes. Each fixture carries the display
// category derived from its league name.
func (h *Handler) CuratedUpcoming(w http.ResponseWriter, r *http.Request) {
	envelopes, err := h.cms.UpcomingFixtures(r.Context())
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load curated fixtures"))
		return
	}

	logger := logging.FromContext(r.Context(), h.logger)
	fixtures := make([]domain.Fixture, 0, len(envelopes))
	for _, envelope := range envelopes {
		fixture, ok, err := sportmonks.ParseFixturePayload(envelope.Payload)
		if err != nil || !ok {
			logging.Warn(logger, "curated fixture dropped", "sportmonks_id", envelope.SportmonksID, "error", err)
			continue
		}
		leagueName := ""
		if fixture.League != nil {
			leagueName = fixture.League.Name
		}
		fixture.Category = domain.CategoryForLeague(leagueName)
		fixtures = append(fixtures, fixture)
	}
	domain.SortFixturesByStart(fixtures)
	h.writeData(w, r, fixtures)
}

// hydrateFixtureTeams fills team references the include set did not return
// inline. Both slots resolve through one deduped pass.
func (h *Handler) hydrateFixtureTeams(ctx context.Context, detail *sportmonks.FixtureDetail) {
	slots := []teamSlot{
		{id: detail.LocalteamID, team: &detail.Localteam},
		{id: detail.VisitorteamID, team: &detail.Visitorteam},
	}
	hydrate.Pass(ctx, h.logger, slots,
		func(s teamSlot) int { return s.id },
		func(s teamSlot) bool { return *s.team == nil },
		func(ctx context.Context, id int) (domain.Team, error) {
			return h.sportmonks.TeamByID(ctx, id)
		},
		func(s *teamSlot, team domain.Team) {
			filled := team
			*s.team = &filled
		})
}

type teamSlot struct {
	id   int
	team **domain.Team
}

// hydrateScorecardPlayers fills batting and bowling rows whose player names
// did not arrive inline. Lookups are deduped per pass.
func (h *Handler) hydrateScorecardPlayers(ctx context.Context, detail *sportmonks.FixtureDetail) {
	lookup := func(ctx context.Context, id int) (domain.Player, error) {
		return h.sportmonks.PlayerByID(ctx, id)
	}
	hydrate.Pass(ctx, h.logger, detail.Batting,
		func(row sportmonks.BattingRow) int { return row.PlayerID },
		func(row sportmonks.BattingRow) bool { return row.PlayerName == "" },
		lookup,
		func(row *sportmonks.BattingRow, player domain.Player) {
			row.PlayerName = player.FullName
			row.PlayerImage = player.Image
		})
	hydrate.Pass(ctx, h.logger, detail.Bowling,
		func(row sportmonks.BowlingRow) int { return row.PlayerID },
		func(row sportmonks.BowlingRow) bool { return row.PlayerName == "" },
		lookup,
		func(row *sportmonks.BowlingRow, player domain.Player) {
			row.PlayerName = player.FullName
			row.PlayerImage = player.Image
		})
}

func nonNilFixtures(fixtures []domain.Fixture) []domain.Fixture {
	if fixtures == nil {
		return []domain.Fixture{}
	}
	return fixtures
}

func reverseFixtures(fixtures []domain.Fixture) {
	for i, j := 0, len(fixtures)-1; i < j; i, j = i+1, j-1 {
		fixtures[i], fixtures[j] = fixtures[j], fixtures[i]
	}
}
