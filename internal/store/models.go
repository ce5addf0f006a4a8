package store

import (
	"encoding/json"
	"time"
)

// Match statuses
const (
	StatusUpcoming  = "upcoming"
	StatusLive      = "live"
	StatusCompleted = "completed"
)

// Match formats
const (
	FormatT20  = "T20"
	FormatODI  = "ODI"
	FormatTest = "Test"
)

// Wicket types recognised in commentary
const (
	WicketBowled  = "bowled"
	WicketCaught  = "caught"
	WicketLBW     = "lbw"
	WicketRunOut  = "run out"
	WicketStumped = "stumped"
)

// TeamScore is one side's innings figures.
type TeamScore struct {
	Runs    int     `json:"runs"`
	Wickets int     `json:"wickets"`
	Overs   float64 `json:"overs"`
}

// MatchScore holds whichever sides have begun batting.
type MatchScore struct {
	Team1 *TeamScore `json:"team1,omitempty"`
	Team2 *TeamScore `json:"team2,omitempty"`
}

// NewMatchScore returns nil unless at least one side has a score.
func NewMatchScore(team1, team2 *TeamScore) *MatchScore {
	if team1 == nil && team2 == nil {
		return nil
	}
	return &MatchScore{Team1: team1, Team2: team2}
}

// MatchDetails carries provider context that has no canonical field.
type MatchDetails struct {
	Result     string `json:"result,omitempty"`
	FormatCode string `json:"formatCode,omitempty"`
	DateID     string `json:"dateId,omitempty"`
	Series     string `json:"series,omitempty"`
	SeriesID   string `json:"seriesId,omitempty"`
}

// Match is the canonical match record served to clients.
type Match struct {
	ID          string          `json:"id" db:"id"`
	Team1       string          `json:"team1" db:"team1"`
	Team2       string          `json:"team2" db:"team2"`
	Team1Logo   *string         `json:"team1Logo" db:"team1_logo"`
	Team2Logo   *string         `json:"team2Logo" db:"team2_logo"`
	Venue       string          `json:"venue" db:"venue"`
	Status      string          `json:"status" db:"status"`
	Date        string          `json:"date" db:"date"`
	Format      string          `json:"format" db:"format"`
	Score       *MatchScore     `json:"score" db:"score"`
	CurrentOver *int            `json:"currentOver" db:"current_over"`
	CurrentBall *int            `json:"currentBall" db:"current_ball"`
	Details     *MatchDetails   `json:"details,omitempty" db:"-"`
	Raw         json.RawMessage `json:"raw,omitempty" db:"-"`
}

// Delivery is one ball bowled, as served to clients.
type Delivery struct {
	ID           string  `json:"id" db:"id"`
	MatchID      string  `json:"matchId" db:"match_id"`
	Over         int     `json:"over" db:"over"`
	Ball         int     `json:"ball" db:"ball"`
	Bowler       string  `json:"bowler" db:"bowler"`
	Batsman      string  `json:"batsman" db:"batsman"`
	Runs         int     `json:"runs" db:"runs"`
	IsWicket     bool    `json:"isWicket" db:"is_wicket"`
	WicketType   *string `json:"wicketType" db:"wicket_type"`
	IsFour       bool    `json:"isFour" db:"is_four"`
	IsSix        bool    `json:"isSix" db:"is_six"`
	Description  string  `json:"description" db:"description"`
	Timestamp    string  `json:"timestamp" db:"timestamp"`
	CommentCount int     `json:"commentCount" db:"comment_count"`
}

// User is a commenter.
type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Avatar    *string   `json:"avatar,omitempty" db:"avatar"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Comment is a threaded comment on a delivery.
type Comment struct {
	ID         string     `json:"id" db:"id"`
	DeliveryID string     `json:"deliveryId" db:"delivery_id"`
	UserID     string     `json:"userId" db:"user_id"`
	User       User       `json:"user" db:"-"`
	Content    string     `json:"content" db:"content"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	Upvotes    int        `json:"upvotes" db:"upvotes"`
	Downvotes  int        `json:"downvotes" db:"downvotes"`
	ParentID   *string    `json:"parentId" db:"parent_id"`
	Replies    []*Comment `json:"replies" db:"-"`
	UserVote   *string    `json:"userVote,omitempty" db:"-"`
}

// Vote directions
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Vote is one user's vote on a comment.
type Vote struct {
	CommentID string `json:"commentId" db:"comment_id"`
	UserID    string `json:"userId" db:"user_id"`
	Vote      string `json:"vote" db:"vote"`
}

// PlayerStats is a career batting/bowling line.
type PlayerStats struct {
	PlayerID   string   `json:"playerId" db:"player_id"`
	PlayerName string   `json:"playerName" db:"player_name"`
	Matches    int      `json:"matches" db:"matches"`
	Runs       int      `json:"runs" db:"runs"`
	Wickets    int      `json:"wickets" db:"wickets"`
	Average    float64  `json:"average" db:"average"`
	StrikeRate float64  `json:"strikeRate" db:"strike_rate"`
	Economy    *float64 `json:"economy" db:"economy"`
}

// TeamStats is a team's win/loss record.
type TeamStats struct {
	TeamID        string  `json:"teamId" db:"team_id"`
	TeamName      string  `json:"teamName" db:"team_name"`
	Matches       int     `json:"matches" db:"matches"`
	Wins          int     `json:"wins" db:"wins"`
	Losses        int     `json:"losses" db:"losses"`
	WinPercentage float64 `json:"winPercentage" db:"win_percentage"`
}
