package domain

import "strings"

// TeamRanking is the nested position/matches/points/rating tuple each ranked
// team carries.
type TeamRanking struct {
	Position int     `json:"position"`
	Matches  int     `json:"matches"`
	Points   int     `json:"points"`
	Rating   float64 `json:"rating"`
}

// RankedTeam is a team with its ranking tuple attached.
type RankedTeam struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	Code    string      `json:"code,omitempty"`
	Image   string      `json:"image_path,omitempty"`
	Ranking TeamRanking `json:"ranking"`
}

// RankingEntry is one (format x gender) grouping as delivered upstream.
type RankingEntry struct {
	Resource string       `json:"resource"`
	Type     string       `json:"type"`
	Gender   string       `json:"gender"`
	Teams    []RankedTeam `json:"team"`
}

// GroupedRanking buckets ranked teams for one format into men and women.
type GroupedRanking struct {
	Men   []RankedTeam `json:"men"`
	Women []RankedTeam `json:"women"`
}

// womensIndicators are the substrings that route an entry to the women
// bucket. Ambiguous entries default to men.
var womensIndicators = []string{"women", "female"}

// IsWomensEntry checks the entry's resource string and gender field for a
// womens-indicating substring.
func IsWomensEntry(entry RankingEntry) bool {
	for _, indicator := range womensIndicators {
		if strings.Contains(strings.ToLower(entry.Resource), indicator) {
			return true
		}
		if strings.Contains(strings.ToLower(entry.Gender), indicator) {
			return true
		}
	}
	return false
}

// GroupRankings retains only entries whose type matches one of the accepted
// aliases (case-insensitive) and buckets them by gender. A later entry for
// the same bucket fully replaces an earlier one.
func GroupRankings(entries []RankingEntry, acceptedTypes []string) GroupedRanking {
	var grouped GroupedRanking
	for _, entry := range entries {
		if !typeMatches(entry.Type, acceptedTypes) {
			continue
		}
		if IsWomensEntry(entry) {
			grouped.Women = entry.Teams
		} else {
			grouped.Men = entry.Teams
		}
	}
	return grouped
}

func typeMatches(entryType string, accepted []string) bool {
	for _, alias := range accepted {
		if strings.EqualFold(entryType, alias) {
			return true
		}
	}
	return false
}

// FormatAliases maps each canonical ranking format to the type strings that
// count as that format upstream.
var FormatAliases = map[string][]string{
	"TEST": {"TEST"},
	"ODI":  {"ODI"},
	"T20I": {"T20I", "T20"},
}
