package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"cricket-data-service/internal/domain"
	"cricket-data-service/internal/web/apierror"
)

const countriesCacheKey = "countries"

func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.sportmonks.Teams(r.Context())
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load teams"))
		return
	}
	h.writeData(w, r, teams)
}

func (h *Handler) TeamByID(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	team, err := h.sportmonks.TeamByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load team"))
		return
	}
	h.writeData(w, r, team)
}

// Countries serves the country list from a long-lived cache; the upstream
// list changes rarely, if ever.
func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	value, hit, err := h.countriesCache.GetOrLoad(r.Context(), countriesCacheKey, func(ctx context.Context) (any, error) {
		countries, err := h.sportmonks.Countries(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := sonic.Marshal(dataResponse{Data: countries})
		if err != nil {
			return nil, err
		}
		return raw, nil
	})
	h.rec.RecordCacheLookup("countries", hit)
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load countries"))
		return
	}
	h.writeRawJSON(w, value.([]byte))
}

// TeamRankings returns the raw ranking entries, or the men/women grouping
// for one format when ?format= is given.
func (h *Handler) TeamRankings(w http.ResponseWriter, r *http.Request) {
	entries, err := h.sportmonks.TeamRankings(r.Context())
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load team rankings"))
		return
	}

	format := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		h.writeData(w, r, entries)
		return
	}
	aliases, ok := domain.FormatAliases[format]
	if !ok {
		h.writeError(w, r, apierror.Validation("format must be one of TEST, ODI, T20I"))
		return
	}
	h.writeData(w, r, domain.GroupRankings(entries, aliases))
}
