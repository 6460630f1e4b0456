package sportmonks

import (
	"regexp"
	"strconv"

	"github.com/bytedance/sonic"

	"cricket-data-service/internal/domain"
)

// MapTeam converts a wire team into the canonical shape. A team without an
// id yields nil: the reference is omitted rather than a placeholder.
func MapTeam(t *teamResponse) *domain.Team {
	if t == nil || t.ID == 0 {
		return nil
	}
	id := int(t.ID)
	return &domain.Team{
		ID:    id,
		Name:  domain.TeamDisplayName(id, t.Name, t.Code),
		Code:  t.Code,
		Image: domain.TeamImageURL(id, t.ImagePath),
	}
}

// MapFixture converts a wire fixture. The second return is false for rows
// lacking a start timestamp; those are malformed and get dropped.
func MapFixture(f fixtureResponse) (domain.Fixture, bool) {
	if f.StartingAt == "" {
		return domain.Fixture{}, false
	}

	fixture := domain.Fixture{
		ID:            int(f.ID),
		Round:         f.Round,
		StartingAt:    f.StartingAt,
		Live:          f.Live || domain.LiveStatus(f.Status),
		Status:        f.Status,
		Note:          f.Note,
		LocalteamID:   int(f.LocalteamID),
		VisitorteamID: int(f.VisitorteamID),
		Localteam:     MapTeam(f.Localteam),
		Visitorteam:   MapTeam(f.Visitorteam),
		Runs:          mapRuns(f.Runs),
	}
	if f.League != nil && f.League.ID != 0 {
		fixture.League = &domain.League{ID: int(f.League.ID), Name: f.League.Name}
	}
	return fixture, true
}

// ParseFixturePayload decodes a raw SportMonks fixture payload (as stored by
// the CMS curation feed) and maps it. ok is false when the row is malformed.
func ParseFixturePayload(raw []byte) (domain.Fixture, bool, error) {
	var wire fixtureResponse
	if err := sonic.Unmarshal(raw, &wire); err != nil {
		return domain.Fixture{}, false, err
	}
	fixture, ok := MapFixture(wire)
	return fixture, ok, nil
}

func mapFixtures(rows []fixtureResponse) []domain.Fixture {
	fixtures := make([]domain.Fixture, 0, len(rows))
	for _, row := range rows {
		if fixture, ok := MapFixture(row); ok {
			fixtures = append(fixtures, fixture)
		}
	}
	return fixtures
}

func mapRuns(rows []runResponse) []domain.Run {
	runs := make([]domain.Run, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, domain.Run{
			TeamID:  int(row.TeamID),
			Inning:  int(row.Inning),
			Score:   int(row.Score),
			Wickets: int(row.Wickets),
			Overs:   row.Overs,
		})
	}
	return runs
}

// MapPlayer converts a wire player, deriving the coarse role label from the
// numeric position id.
func MapPlayer(p playerResponse) domain.Player {
	player := domain.Player{
		ID:        int(p.ID),
		FullName:  p.FullName,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Image:     p.ImagePath,
		Role:      domain.RoleForPosition(int(p.PositionID)),
	}
	if player.Role == "" && p.Position != nil {
		player.Role = domain.RoleForPosition(int(p.Position.ID))
	}
	if p.Country != nil {
		player.Country = p.Country.Name
	}
	return player
}

// BattingRow is one scorecard batting line, ready for player hydration.
type BattingRow struct {
	PlayerID    int     `json:"player_id"`
	PlayerName  string  `json:"player_name,omitempty"`
	PlayerImage string  `json:"player_image,omitempty"`
	TeamID      int     `json:"team_id"`
	Score       int     `json:"score"`
	Balls       float64 `json:"ball"`
	Fours       int     `json:"four_x"`
	Sixes       int     `json:"six_x"`
	Rate        float64 `json:"rate"`
}

// BowlingRow is one scorecard bowling line.
type BowlingRow struct {
	PlayerID    int     `json:"player_id"`
	PlayerName  string  `json:"player_name,omitempty"`
	PlayerImage string  `json:"player_image,omitempty"`
	TeamID      int     `json:"team_id"`
	Overs       float64 `json:"overs"`
	Runs        int     `json:"runs"`
	Wickets     int     `json:"wickets"`
	Rate        float64 `json:"rate"`
}

// CommentaryBall is one delivery from the ball-by-ball feed.
type CommentaryBall struct {
	ID          int     `json:"id"`
	Ball        float64 `json:"ball"`
	TeamID      int     `json:"team_id"`
	BatsmanID   int     `json:"batsman_id"`
	BatsmanName string  `json:"batsman_name,omitempty"`
	BowlerID    int     `json:"bowler_id"`
	BowlerName  string  `json:"bowler_name,omitempty"`
	Runs        int     `json:"runs"`
	Outcome     string  `json:"outcome,omitempty"`
	Four        bool    `json:"four"`
	Six         bool    `json:"six"`
	Wicket      bool    `json:"wicket"`
}

// FixtureDetail is a fixture enriched with scorecard rows. Balls is filled
// only for the commentary include set.
type FixtureDetail struct {
	domain.Fixture
	Batting []BattingRow     `json:"batting"`
	Bowling []BowlingRow     `json:"bowling"`
	Balls   []CommentaryBall `json:"balls,omitempty"`
}

// MapFixtureDetail converts a fixture with scorecard includes. Player names
// already present inline are kept; missing ones stay empty for hydration.
func MapFixtureDetail(f fixtureResponse) (FixtureDetail, bool) {
	fixture, ok := MapFixture(f)
	if !ok {
		return FixtureDetail{}, false
	}

	detail := FixtureDetail{
		Fixture: fixture,
		Batting: make([]BattingRow, 0, len(f.Batting)),
		Bowling: make([]BowlingRow, 0, len(f.Bowling)),
	}
	for _, row := range f.Batting {
		batting := BattingRow{
			PlayerID: int(row.PlayerID),
			TeamID:   int(row.TeamID),
			Score:    int(row.Score),
			Balls:    row.Ball,
			Fours:    int(row.FourX),
			Sixes:    int(row.SixX),
			Rate:     row.Rate,
		}
		if row.Batsman != nil {
			batting.PlayerName = row.Batsman.FullName
			batting.PlayerImage = row.Batsman.ImagePath
		}
		detail.Batting = append(detail.Batting, batting)
	}
	for _, row := range f.Bowling {
		bowling := BowlingRow{
			PlayerID: int(row.PlayerID),
			TeamID:   int(row.TeamID),
			Overs:    row.Overs,
			Runs:     int(row.Runs),
			Wickets:  int(row.Wickets),
			Rate:     row.Rate,
		}
		if row.Bowler != nil {
			bowling.PlayerName = row.Bowler.FullName
			bowling.PlayerImage = row.Bowler.ImagePath
		}
		detail.Bowling = append(detail.Bowling, bowling)
	}
	for _, row := range f.Balls {
		ball := CommentaryBall{
			ID:        int(row.ID),
			Ball:      row.Ball,
			TeamID:    int(row.TeamID),
			BatsmanID: int(row.BatsmanID),
			BowlerID:  int(row.BowlerID),
		}
		if row.Score != nil {
			ball.Runs = int(row.Score.Runs)
			ball.Outcome = row.Score.Name
			ball.Four = row.Score.Four
			ball.Six = row.Score.Six
			ball.Wicket = row.Score.IsWicket
		}
		if row.Batsman != nil {
			ball.BatsmanName = row.Batsman.FullName
		}
		if row.Bowler != nil {
			ball.BowlerName = row.Bowler.FullName
		}
		detail.Balls = append(detail.Balls, ball)
	}
	return detail, true
}

func mapRankingEntry(row rankingEntryResponse) domain.RankingEntry {
	entry := domain.RankingEntry{
		Resource: row.Resource,
		Type:     row.Type,
		Gender:   row.Gender,
		Teams:    make([]domain.RankedTeam, 0, len(row.Teams)),
	}
	for _, team := range row.Teams {
		id := int(team.ID)
		ranked := domain.RankedTeam{
			ID:    id,
			Name:  domain.TeamDisplayName(id, team.Name, team.Code),
			Code:  team.Code,
			Image: domain.TeamImageURL(id, team.ImagePath),
		}
		if team.Ranking != nil {
			ranked.Ranking = domain.TeamRanking{
				Position: int(team.Ranking.Position),
				Matches:  int(team.Ranking.Matches),
				Points:   int(team.Ranking.Points),
				Rating:   team.Ranking.Rating,
			}
		}
		entry.Teams = append(entry.Teams, ranked)
	}
	return entry
}

// Standing is one season standings row.
type Standing struct {
	Position int          `json:"position"`
	TeamID   int          `json:"team_id"`
	Team     *domain.Team `json:"team,omitempty"`
	Played   int          `json:"played"`
	Won      int          `json:"won"`
	Lost     int          `json:"lost"`
	Draw     int          `json:"draw"`
	Points   int          `json:"points"`
}

func mapStanding(row standingResponse) Standing {
	return Standing{
		Position: int(row.Position),
		TeamID:   int(row.TeamID),
		Team:     MapTeam(row.Team),
		Played:   int(row.Played),
		Won:      int(row.Won),
		Lost:     int(row.Lost),
		Draw:     int(row.Draw),
		Points:   int(row.Points),
	}
}

// League is a competition with its known seasons.
type League struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Code    string   `json:"code,omitempty"`
	Image   string   `json:"image_path,omitempty"`
	Seasons []Season `json:"seasons,omitempty"`
}

// Season is one edition of a league.
type Season struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsCurrent bool   `json:"is_current_season"`
}

func mapLeague(row leagueResponse) League {
	league := League{
		ID:    int(row.ID),
		Name:  row.Name,
		Code:  row.Code,
		Image: row.ImagePath,
	}
	if row.Seasons != nil {
		league.Seasons = make([]Season, 0, len(row.Seasons.Data))
		for _, season := range row.Seasons.Data {
			league.Seasons = append(league.Seasons, Season{
				ID:        int(season.ID),
				Name:      season.Name,
				IsCurrent: season.IsCurrent,
			})
		}
	}
	return league
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// ResolveCurrentSeason picks the season flagged is_current_season, else the
// one whose name carries the latest four-digit year. Zero when the slice is
// empty.
func ResolveCurrentSeason(seasons []Season) int {
	for _, season := range seasons {
		if season.IsCurrent {
			return season.ID
		}
	}

	bestID, bestYear := 0, -1
	for _, season := range seasons {
		year := latestYearIn(season.Name)
		if year > bestYear {
			bestYear = year
			bestID = season.ID
		}
	}
	return bestID
}

func latestYearIn(name string) int {
	latest := 0
	for _, match := range yearPattern.FindAllString(name, -1) {
		if year, err := strconv.Atoi(match); err == nil && year > latest {
			latest = year
		}
	}
	return latest
}
