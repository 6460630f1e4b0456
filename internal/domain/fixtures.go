package domain

import (
	"sort"
	"strings"
)

// League is the id+name reference a fixture carries.
type League struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Run is one per-team score snapshot on a fixture.
type Run struct {
	TeamID  int     `json:"team_id"`
	Inning  int     `json:"inning"`
	Score   int     `json:"score"`
	Wickets int     `json:"wickets"`
	Overs   float64 `json:"overs"`
}

// Fixture is a cricket match in canonical shape. LocalteamID/VisitorteamID
// are always populated even when the nested team objects are absent; the UI
// falls back to "Team {id}" labels from them.
type Fixture struct {
	ID            int     `json:"id"`
	Round         string  `json:"round,omitempty"`
	StartingAt    string  `json:"starting_at"`
	Live          bool    `json:"live"`
	Status        string  `json:"status"`
	Note          string  `json:"note,omitempty"`
	League        *League `json:"league,omitempty"`
	LocalteamID   int     `json:"localteam_id"`
	VisitorteamID int     `json:"visitorteam_id"`
	Localteam     *Team   `json:"localteam,omitempty"`
	Visitorteam   *Team   `json:"visitorteam,omitempty"`
	Runs          []Run   `json:"runs"`
	Category      string  `json:"category,omitempty"`
}

// LiveStatus reports whether a status string indicates an in-progress match.
func LiveStatus(status string) bool {
	return strings.Contains(status, "LIVE") || strings.Contains(strings.ToLower(status), "in progress")
}

// SortFixturesByStart orders fixtures ascending by start timestamp. ISO 8601
// strings compare correctly lexicographically.
func SortFixturesByStart(fixtures []Fixture) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		return fixtures[i].StartingAt < fixtures[j].StartingAt
	})
}

// fixtureCategories maps league-name fragments to display buckets, checked
// in order. Heuristic: league naming upstream is free text.
var fixtureCategories = []struct {
	fragment string
	category string
}{
	{"test", "Test"},
	{"odi", "ODI"},
	{"t20", "T20"},
	{"twenty20", "T20"},
	{"international", "International"},
}

// CategoryForLeague derives the coarse fixture category from a league name.
// Unmatched names fall into the Leagues bucket.
func CategoryForLeague(leagueName string) string {
	lowered := strings.ToLower(leagueName)
	for _, entry := range fixtureCategories {
		if strings.Contains(lowered, entry.fragment) {
			return entry.category
		}
	}
	return "Leagues"
}
