package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts every route the site consumes under /api.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(h.logger, h.rec))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/archives", h.Archives)
		r.Get("/catalog", h.Catalog)
		r.Get("/catalog/{id}", h.CatalogByID)
		r.Get("/countries", h.Countries)

		r.Get("/fixture/upcoming", h.CuratedUpcoming)
		r.Get("/fixture/{id}", h.FixtureByID)

		r.Get("/leagues", h.Leagues)
		r.Get("/leagues/{id}", h.LeagueByID)
		r.Get("/leagues/{id}/fixtures", h.LeagueFixtures)
		r.Get("/leagues/{id}/teams", h.LeagueTeams)

		r.Get("/live", h.Live)
		r.Get("/upcoming", h.Upcoming)
		r.Get("/recent", h.Recent)

		r.Get("/match/{id}", h.Match)
		r.Get("/match/{id}/commentary", h.MatchCommentary)
		r.Get("/match/{id}/scorecard", h.MatchScorecard)

		r.Get("/news", h.News)
		r.Get("/news/categories", h.NewsCategories)
		r.Get("/news/sitemap", h.NewsSitemap)

		r.Get("/players", h.Players)
		r.Get("/player/{id}", h.PlayerByID)
		r.Get("/players/{id}", h.PlayerByID)
		r.Get("/sm/players", h.ProviderPlayers)

		r.Get("/seasons/{id}/standings", h.SeasonStandings)
		r.Get("/seasons/{id}/stats", h.SeasonStats)
		r.Get("/seasons/{id}/teams", h.SeasonTeams)
		r.Get("/seasons/{id}/venues", h.SeasonVenues)

		r.Get("/team-rankings", h.TeamRankings)
		r.Get("/teams", h.Teams)
		r.Get("/teams/{id}", h.TeamByID)
	})

	return r
}
