package web

import (
	"net/http"

	"cricket-data-service/internal/web/apierror"
)

// Players lists players mapped to the domain shape, role labels included.
func (h *Handler) Players(w http.ResponseWriter, r *http.Request) {
	players, err := h.sportmonks.Players(r.Context(), allowedQuery(r, "page", "per_page", "filter[fullname]"))
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load players"))
		return
	}
	h.writeData(w, r, players)
}

// PlayerByID serves both the /player/{id} and /players/{id} spellings; the
// site uses them interchangeably.
func (h *Handler) PlayerByID(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	player, err := h.sportmonks.PlayerByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load player"))
		return
	}
	h.writeData(w, r, player)
}

// ProviderPlayers forwards the provider's own player listing untouched, for
// site features that want the full upstream record.
func (h *Handler) ProviderPlayers(w http.ResponseWriter, r *http.Request) {
	raw, err := h.sportmonks.GetJSON(r.Context(), "/players", allowedQuery(r, "page", "per_page", "filter[fullname]", "include"), nil)
	if err != nil {
		h.writeError(w, r, apierror.FromUpstream(err, "unable to load players"))
		return
	}
	h.writeRawJSON(w, raw)
}
