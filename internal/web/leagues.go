package web

import (
	"net/http"

	"cricket-data-service/internal/logging"
	"cricket-data-service/internal/upstream"
	"cricket-data-service/internal/web/apierror"
)

// Soft-fail messages. Season-scoped listing routes answer 200 with an empty
// list when the provider cannot serve them, so schedule pages render empty
// instead of erroring.
const (
	msgNoSeasons   = "No seasons found for this league"
	msgNoFixtures  = "No fixtures found for this season"
	msgNoTeams     = "No teams found for this season"
	msgNoStandings = "No standings found for this season"
)

func (h *Handler) Leagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.sportmonks.Leagues(r.Context())
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load leagues"))
		return
	}
	h.writeData(w, r, leagues)
}

func (h *Handler) LeagueByID(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	league, err := h.sportmonks.LeagueByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load league"))
		return
	}
	h.writeData(w, r, league)
}

// LeagueFixtures resolves the league's current season and lists its
// fixtures. Leagues without seasons, and provider failures, both degrade to
// the soft empty shape; only throttling surfaces as an error.
func (h *Handler) LeagueFixtures(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	seasonID, err := h.sportmonks.CurrentSeason(r.Context(), id)
	if err != nil {
		h.softOrError(w, r, err, msgNoFixtures)
		return
	}
	if seasonID == 0 {
		h.writeSoftEmpty(w, r, msgNoSeasons)
		return
	}

	fixtures, err := h.sportmonks.SeasonFixtures(r.Context(), seasonID)
	if err != nil {
		h.softOrError(w, r, err, msgNoFixtures)
		return
	}
	h.writeData(w, r, nonNilFixtures(fixtures))
}

// LeagueTeams lists the teams of the league's current season, with the same
// soft-fail behavior as LeagueFixtures.
func (h *Handler) LeagueTeams(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	seasonID, err := h.sportmonks.CurrentSeason(r.Context(), id)
	if err != nil {
		h.softOrError(w, r, err, msgNoTeams)
		return
	}
	if seasonID == 0 {
		h.writeSoftEmpty(w, r, msgNoSeasons)
		return
	}

	teams, err := h.sportmonks.SeasonTeams(r.Context(), seasonID)
	if err != nil {
		h.softOrError(w, r, err, msgNoTeams)
		return
	}
	h.writeData(w, r, teams)
}

func (h *Handler) SeasonStandings(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	standings, err := h.sportmonks.SeasonStandings(r.Context(), id)
	if err != nil {
		h.softOrError(w, r, err, msgNoStandings)
		return
	}
	h.writeData(w, r, standings)
}

func (h *Handler) SeasonTeams(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	teams, err := h.sportmonks.SeasonTeams(r.Context(), id)
	if err != nil {
		h.softOrError(w, r, err, msgNoTeams)
		return
	}
	h.writeData(w, r, teams)
}

func (h *Handler) SeasonStats(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	raw, err := h.sportmonks.SeasonStats(r.Context(), id)
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load season stats"))
		return
	}
	h.writeRawJSON(w, raw)
}

func (h *Handler) SeasonVenues(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	raw, err := h.sportmonks.SeasonVenues(r.Context(), id)
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load season venues"))
		return
	}
	h.writeRawJSON(w, raw)
}

// softOrError degrades a provider failure to the soft empty shape, except
// for throttling, which keeps its 503.
func (h *Handler) softOrError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if upstream.IsRateLimited(err) {
		h.writeError(w, r, err)
		return
	}
	logging.Warn(logging.FromContext(r.Context(), h.logger), "season route degraded to empty", "error", err)
	h.writeSoftEmpty(w, r, message)
}
