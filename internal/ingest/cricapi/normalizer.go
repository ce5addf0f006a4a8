package cricapi

import (
	"strings"
	"time"

	"github.com/fortuna/cricbase/internal/ingest/rawjson"
	"github.com/fortuna/cricbase/internal/store"
)

// Normalizer converts provider matches into canonical matches.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize converts m. It never fails; missing fields take defaults.
func (n *Normalizer) Normalize(m MatchInfo) store.Match {
	team1, team2 := "Team 1", "Team 2"
	if len(m.Teams) > 0 {
		team1 = m.Teams[0].Value
	}
	if len(m.Teams) > 1 {
		team2 = m.Teams[1].Value
	}

	logo1, logo2 := logos(m.TeamInfo, team1, team2)

	date := m.Date.Value
	if date == "" {
		date = m.DateTimeGMT.Value
	}
	if date == "" {
		date = n.now().UTC().Format(time.RFC3339)
	}

	var details *store.MatchDetails
	if m.SeriesID.Value != "" {
		details = &store.MatchDetails{SeriesID: m.SeriesID.Value}
	}

	return store.Match{
		ID:        m.ID.Value,
		Team1:     team1,
		Team2:     team2,
		Team1Logo: logo1,
		Team2Logo: logo2,
		Venue:     m.Venue.Value,
		Status:    Status(bool(m.MatchStarted), bool(m.MatchEnded), m.Status.Value),
		Date:      date,
		Format:    Format(m.MatchType.Or(store.FormatT20)),
		Score:     scores(m.Score, team1, team2),
		Details:   details,
	}
}

// logos looks each team's image up by exact name, or by short name when the
// teams array carries abbreviations.
func logos(info []TeamInfo, team1, team2 string) (*string, *string) {
	var logo1, logo2 *string
	for _, ti := range info {
		switch {
		case ti.Name.Value == team1, ti.ShortName.Valid && ti.ShortName.Value == team1:
			logo1 = optional(ti.Img)
		case ti.Name.Value == team2, ti.ShortName.Valid && ti.ShortName.Value == team2:
			logo2 = optional(ti.Img)
		}
	}
	return logo1, logo2
}

// scores assigns innings to teams by name in the innings label, later innings
// replacing earlier ones. A side left unassigned takes the innings at its
// position.
func scores(innings []Innings, team1, team2 string) *store.MatchScore {
	if len(innings) == 0 {
		return nil
	}

	name1, name2 := strings.ToLower(team1), strings.ToLower(team2)
	var s1, s2 *store.TeamScore
	for _, in := range innings {
		label := strings.ToLower(in.Inning.Value)
		switch {
		case strings.Contains(label, name1):
			s1 = teamScore(in)
		case strings.Contains(label, name2):
			s2 = teamScore(in)
		}
	}

	if s1 == nil {
		s1 = teamScore(innings[0])
	}
	if s2 == nil && len(innings) > 1 {
		s2 = teamScore(innings[1])
	}
	return store.NewMatchScore(s1, s2)
}

func teamScore(in Innings) *store.TeamScore {
	return &store.TeamScore{
		Runs:    int(in.Runs.Value),
		Wickets: int(in.Wickets.Value),
		Overs:   in.Overs.Value,
	}
}

// Status decides the canonical status from the started and ended flags,
// falling back to the free-text status.
func Status(started, ended bool, text string) string {
	text = strings.ToLower(text)
	switch {
	case ended:
		return store.StatusCompleted
	case started:
		return store.StatusLive
	case strings.Contains(text, "won"):
		return store.StatusCompleted
	case strings.Contains(text, "not started"),
		strings.Contains(text, "scheduled"),
		strings.Contains(text, "upcoming"):
		return store.StatusUpcoming
	}
	return store.StatusUpcoming
}

// Format maps matchType case-insensitively: ODI, TEST, anything else is T20.
func Format(matchType string) string {
	switch strings.ToUpper(matchType) {
	case "ODI":
		return store.FormatODI
	case "TEST":
		return store.FormatTest
	}
	return store.FormatT20
}

func optional(s rawjson.String) *string {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}
