package web

import (
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"

	"cricket-data-service/internal/upstream"
	"cricket-data-service/internal/upstream/cms"
)

// CMS-backed routes are pass-throughs: the CMS owns the pagination
// envelopes and the site already knows those shapes.

// allowedQuery copies only the named parameters from a request, so client
// query strings cannot smuggle arbitrary parameters upstream.
func allowedQuery(r *http.Request, names ...string) url.Values {
	query := url.Values{}
	for _, name := range names {
		if value := r.URL.Query().Get(name); value != "" {
			query.Set(name, value)
		}
	}
	return query
}

func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	raw, err := h.cms.News(r.Context(), allowedQuery(r, "page", "per_page", "category", "q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeRawJSON(w, raw)
}

func (h *Handler) NewsCategories(w http.ResponseWriter, r *http.Request) {
	raw, err := h.cms.NewsCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeRawJSON(w, raw)
}

// NewsSitemap rewrites the CMS sitemap entries into absolute URLs under the
// configured site origin. Without an origin the entries pass through as-is.
func (h *Handler) NewsSitemap(w http.ResponseWriter, r *http.Request) {
	raw, err := h.cms.NewsSitemap(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if h.siteOrigin == "" {
		h.writeRawJSON(w, raw)
		return
	}

	var envelope struct {
		Data []sitemapEntry `json:"data"`
	}
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		h.writeError(w, r, upstream.NewParseError(cms.Name, err))
		return
	}
	entries := make([]sitemapURL, 0, len(envelope.Data))
	for _, entry := range envelope.Data {
		if entry.Slug == "" {
			continue
		}
		entries = append(entries, sitemapURL{
			Loc:     h.siteOrigin + "/news/" + entry.Slug,
			LastMod: entry.UpdatedAt,
		})
	}
	h.writeData(w, r, entries)
}

type sitemapEntry struct {
	Slug      string `json:"slug"`
	UpdatedAt string `json:"updated_at"`
}

type sitemapURL struct {
	Loc     string `json:"loc"`
	LastMod string `json:"lastmod,omitempty"`
}

func (h *Handler) Archives(w http.ResponseWriter, r *http.Request) {
	raw, err := h.cms.Archives(r.Context(), allowedQuery(r, "page", "per_page", "date", "format", "category"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeRawJSON(w, raw)
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	raw, err := h.cms.Catalog(r.Context(), "", allowedQuery(r, "page", "per_page", "q", "ids", "country_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeRawJSON(w, raw)
}

func (h *Handler) CatalogByID(w http.ResponseWriter, r *http.Request) {
	raw, err := h.cms.Catalog(r.Context(), chi.URLParam(r, "id"), nil)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeRawJSON(w, raw)
}
