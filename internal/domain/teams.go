package domain

import "fmt"

// teamImageTemplate is the CDN fallback for teams without an explicit logo.
// SportMonks shards team art into buckets of 32 by id.
const teamImageTemplate = "https://cdn.sportmonks.com/images/cricket/teams/%d/%d.png"

// Team is a canonical team reference as embedded in fixtures and rankings.
type Team struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
	Image string `json:"image_path,omitempty"`
}

// TeamDisplayName resolves the UI label for a team: explicit name, then
// short code, then "Team {id}".
func TeamDisplayName(id int, name, code string) string {
	if name != "" {
		return name
	}
	if code != "" {
		return code
	}
	return fmt.Sprintf("Team %d", id)
}

// TeamImageURL prefers the explicit image and otherwise synthesizes the CDN
// URL from the team id.
func TeamImageURL(id int, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if id <= 0 {
		return ""
	}
	return fmt.Sprintf(teamImageTemplate, id%32, id)
}

// Country is a minimal {id, name} pair from the countries listing.
type Country struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
