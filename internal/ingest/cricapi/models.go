package cricapi

import (
	"encoding/json"

	"github.com/fortuna/cricbase/internal/ingest/rawjson"
)

const statusSuccess = "success"

// envelope wraps every response. Anything but "success" means no data.
type envelope struct {
	Status string          `json:"status"`
	Reason string          `json:"reason,omitempty"`
	Data   json.RawMessage `json:"data"`
}

// MatchInfo is a match as returned by currentMatches, matches and match_info.
type MatchInfo struct {
	ID           rawjson.String   `json:"id"`
	Name         rawjson.String   `json:"name"`
	MatchType    rawjson.String   `json:"matchType"`
	Status       rawjson.String   `json:"status"`
	Venue        rawjson.String   `json:"venue"`
	Date         rawjson.String   `json:"date"`
	DateTimeGMT  rawjson.String   `json:"dateTimeGMT"`
	Teams        []rawjson.String `json:"teams"`
	TeamInfo     []TeamInfo       `json:"teamInfo"`
	Score        []Innings        `json:"score"`
	SeriesID     rawjson.String   `json:"series_id"`
	MatchStarted rawjson.Bool     `json:"matchStarted"`
	MatchEnded   rawjson.Bool     `json:"matchEnded"`
}

// TeamInfo carries a team's display assets.
type TeamInfo struct {
	Name      rawjson.String `json:"name"`
	ShortName rawjson.String `json:"shortname"`
	Img       rawjson.String `json:"img"`
}

// Innings is one innings line of a match score.
type Innings struct {
	Runs    rawjson.Int    `json:"r"`
	Wickets rawjson.Int    `json:"w"`
	Overs   rawjson.Float  `json:"o"`
	Inning  rawjson.String `json:"inning"`
}

// Series is a series listing entry.
type Series struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	ODI       int    `json:"odi"`
	T20       int    `json:"t20"`
	Test      int    `json:"test"`
	Squads    int    `json:"squads"`
	Matches   int    `json:"matches"`
}

// Player is a player listing entry.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// PlayerInfo is a player's profile with career statistics.
type PlayerInfo struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	DateOfBirth  string       `json:"dateOfBirth,omitempty"`
	Role         string       `json:"role,omitempty"`
	BattingStyle string       `json:"battingStyle,omitempty"`
	BowlingStyle string       `json:"bowlingStyle,omitempty"`
	PlaceOfBirth string       `json:"placeOfBirth,omitempty"`
	Country      string       `json:"country,omitempty"`
	PlayerImg    string       `json:"playerImg,omitempty"`
	Stats        []PlayerStat `json:"stats,omitempty"`
}

// PlayerStat is one cell of a player's statistics grid.
type PlayerStat struct {
	Fn        string `json:"fn"`
	MatchType string `json:"matchtype"`
	Stat      string `json:"stat"`
	Value     string `json:"value"`
}
