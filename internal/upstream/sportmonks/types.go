package sportmonks

import "github.com/bytedance/sonic"

// Name identifies this upstream in logs and metrics.
const Name = "sportmonks"

// dataEnvelope is the {"data": ...} wrapper nearly every endpoint uses.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// jsonNumber tolerates upstream ids arriving as numbers or strings.
type jsonNumber int

func (n *jsonNumber) UnmarshalJSON(raw []byte) error {
	if len(raw) == 0 || string(raw) == "null" {
		*n = 0
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := sonic.Unmarshal(raw, &s); err != nil {
			return err
		}
		var v float64
		if err := sonic.Unmarshal([]byte(s), &v); err != nil {
			*n = 0
			return nil
		}
		*n = jsonNumber(v)
		return nil
	}
	var v float64
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return err
	}
	*n = jsonNumber(v)
	return nil
}

type teamResponse struct {
	ID        jsonNumber `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	ImagePath string     `json:"image_path"`
}

type leagueResponse struct {
	ID        jsonNumber                     `json:"id"`
	Name      string                         `json:"name"`
	Code      string                         `json:"code"`
	ImagePath string                         `json:"image_path"`
	Seasons   *dataEnvelope[[]seasonResponse] `json:"seasons"`
}

type seasonResponse struct {
	ID        jsonNumber `json:"id"`
	Name      string     `json:"name"`
	LeagueID  jsonNumber `json:"league_id"`
	IsCurrent bool       `json:"is_current_season"`
}

type runResponse struct {
	TeamID  jsonNumber `json:"team_id"`
	Inning  jsonNumber `json:"inning"`
	Score   jsonNumber `json:"score"`
	Wickets jsonNumber `json:"wickets"`
	Overs   float64    `json:"overs"`
}

type fixtureResponse struct {
	ID            jsonNumber                     `json:"id"`
	Round         string                         `json:"round"`
	LocalteamID   jsonNumber                     `json:"localteam_id"`
	VisitorteamID jsonNumber                     `json:"visitorteam_id"`
	StartingAt    string                         `json:"starting_at"`
	Status        string                         `json:"status"`
	Live          bool                           `json:"live"`
	Note          string                         `json:"note"`
	League        *leagueResponse                `json:"league"`
	Localteam     *teamResponse                  `json:"localteam"`
	Visitorteam   *teamResponse                  `json:"visitorteam"`
	Runs          []runResponse                  `json:"runs"`
	Batting       []battingResponse              `json:"batting"`
	Bowling       []bowlingResponse              `json:"bowling"`
	Balls         []ballResponse                 `json:"balls"`
	Lineup        *dataEnvelope[[]playerResponse] `json:"lineup"`
}

type ballResponse struct {
	ID        jsonNumber         `json:"id"`
	Ball      float64            `json:"ball"`
	TeamID    jsonNumber         `json:"team_id"`
	BatsmanID jsonNumber         `json:"batsman_id"`
	BowlerID  jsonNumber         `json:"bowler_id"`
	Score     *ballScoreResponse `json:"score"`
	Batsman   *playerResponse    `json:"batsman"`
	Bowler    *playerResponse    `json:"bowler"`
}

type ballScoreResponse struct {
	Runs     jsonNumber `json:"runs"`
	Name     string     `json:"name"`
	Four     bool       `json:"four"`
	Six      bool       `json:"six"`
	Bye      jsonNumber `json:"bye"`
	IsWicket bool       `json:"is_wicket"`
}

type battingResponse struct {
	PlayerID   jsonNumber      `json:"player_id"`
	TeamID     jsonNumber      `json:"team_id"`
	Score      jsonNumber      `json:"score"`
	Ball       float64         `json:"ball"`
	FourX      jsonNumber      `json:"four_x"`
	SixX       jsonNumber      `json:"six_x"`
	Rate       float64         `json:"rate"`
	Batsman    *playerResponse `json:"batsman"`
}

type bowlingResponse struct {
	PlayerID jsonNumber      `json:"player_id"`
	TeamID   jsonNumber      `json:"team_id"`
	Overs    float64         `json:"overs"`
	Runs     jsonNumber      `json:"runs"`
	Wickets  jsonNumber      `json:"wickets"`
	Rate     float64         `json:"rate"`
	Bowler   *playerResponse `json:"bowler"`
}

type playerResponse struct {
	ID           jsonNumber    `json:"id"`
	FullName     string        `json:"fullname"`
	FirstName    string        `json:"firstname"`
	LastName     string        `json:"lastname"`
	ImagePath    string        `json:"image_path"`
	PositionID   jsonNumber    `json:"position_id"`
	Position     *positionInfo `json:"position"`
	Country      *countryInfo  `json:"country"`
}

type positionInfo struct {
	ID   jsonNumber `json:"id"`
	Name string     `json:"name"`
}

type countryInfo struct {
	ID   jsonNumber `json:"id"`
	Name string     `json:"name"`
}

type countryResponse struct {
	ID   jsonNumber `json:"id"`
	Name string     `json:"name"`
}

type rankingTupleResponse struct {
	Position jsonNumber `json:"position"`
	Matches  jsonNumber `json:"matches"`
	Points   jsonNumber `json:"points"`
	Rating   float64    `json:"rating"`
}

type rankedTeamResponse struct {
	ID        jsonNumber            `json:"id"`
	Name      string                `json:"name"`
	Code      string                `json:"code"`
	ImagePath string                `json:"image_path"`
	Ranking   *rankingTupleResponse `json:"ranking"`
}

type rankingEntryResponse struct {
	Resource string               `json:"resource"`
	Type     string               `json:"type"`
	Gender   string               `json:"gender"`
	Teams    []rankedTeamResponse `json:"team"`
}

type standingResponse struct {
	Position jsonNumber    `json:"position"`
	TeamID   jsonNumber    `json:"team_id"`
	Played   jsonNumber    `json:"played"`
	Won      jsonNumber    `json:"won"`
	Lost     jsonNumber    `json:"lost"`
	Draw     jsonNumber    `json:"draw"`
	Points   jsonNumber    `json:"points"`
	Team     *teamResponse `json:"team"`
}

// errorBody covers the shapes upstream failure payloads arrive in.
type errorBody struct {
	Message sonicRaw `json:"message"`
	Error   sonicRaw `json:"error"`
}

type sonicRaw []byte

func (r *sonicRaw) UnmarshalJSON(raw []byte) error {
	*r = append((*r)[:0], raw...)
	return nil
}
