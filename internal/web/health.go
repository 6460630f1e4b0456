package web

import "net/http"

// Health reports process liveness. Upstreams are not probed: the service
// degrades per route rather than going unhealthy as a whole.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
