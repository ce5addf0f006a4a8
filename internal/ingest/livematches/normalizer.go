package livematches

import (
	"strings"
	"time"

	"github.com/fortuna/cricbase/internal/ingest/score"
	"github.com/fortuna/cricbase/internal/store"
	"github.com/fortuna/cricbase/internal/teams"
)

// formats maps provider format codes to canonical formats. Unknown codes are T20.
var formats = map[string]string{
	"T20":       store.FormatT20,
	"T20I":      store.FormatT20,
	"ODI":       store.FormatODI,
	"List A":    store.FormatODI,
	"Youth ODI": store.FormatODI,
	"Test":      store.FormatTest,
}

// finishedMarkers in the result text mean a started match is over.
var finishedMarkers = []string{"won", "abandoned", "delayed"}

// Normalizer converts live-list and statistics records into canonical matches.
type Normalizer struct {
	teams *teams.Resolver
	now   func() time.Time
}

// NewNormalizer creates a normalizer that names teams through resolver.
func NewNormalizer(resolver *teams.Resolver) *Normalizer {
	return &Normalizer{teams: resolver, now: time.Now}
}

// NormalizeLive converts a live-list record keyed by id.
func (n *Normalizer) NormalizeLive(id string, m LiveMatch) store.Match {
	match := n.base(id, m, m.Team1Code.Or("Team 1"), m.Team2Code.Or("Team 2"))
	match.CurrentOver = nonZero(m.CurrentOver.Value)
	match.CurrentBall = nonZero(m.CurrentBall.Value)
	return match
}

// NormalizeStatistics converts a statistics record for id. Team codes from
// the dotted field t take priority over the separate code fields.
func (n *Normalizer) NormalizeStatistics(id string, s MatchStatistics) store.Match {
	code1, code2 := s.Team1Code.Or("Team 1"), s.Team2Code.Or("Team 2")
	if c1, c2, ok := splitTeams(s.Teams.Value); ok {
		code1, code2 = c1, c2
	}

	match := n.base(id, s.LiveMatch, code1, code2)
	if over, ok := score.ParseOverBallToken(s.CurrentOver); ok {
		match.CurrentOver = &over
	}
	if ball, ok := score.ParseOverBallToken(s.CurrentBall); ok {
		match.CurrentBall = &ball
	}
	if len(s.Raw) > 0 {
		match.Raw = s.Raw
	}
	return match
}

func (n *Normalizer) base(id string, m LiveMatch, code1, code2 string) store.Match {
	team1, team2 := n.teams.Resolve(code1), n.teams.Resolve(code2)
	formatCode := m.FormatCode.Or(store.FormatT20)

	// fi is the provider's own image for the first team; only used when the
	// code has no flag of ours.
	if team1.Flag == teams.PlaceholderFlag && m.Logo.Value != "" {
		team1.Flag = m.Logo.Value
	}

	return store.Match{
		ID:        id,
		Team1:     team1.Name,
		Team2:     team2.Name,
		Team1Logo: &team1.Flag,
		Team2Logo: &team2.Flag,
		Venue:     m.Venue.Value,
		Status:    Status(m.StatusCode.Or(codeUpcoming), m.Result.Value),
		Date:      n.date(m.StartMillis.Value),
		Format:    Format(formatCode),
		Score:     store.NewMatchScore(score.ParseScore(m.Team1Score.Value), score.ParseScore(m.Team2Score.Value)),
		Details: &store.MatchDetails{
			Result:     m.Result.Value,
			FormatCode: formatCode,
			DateID:     m.DateID.Value,
			Series:     m.Series.Value,
		},
	}
}

// Status derives the canonical status from the provider status code and
// result text.
func Status(code int64, result string) string {
	if code != codeStarted {
		return store.StatusUpcoming
	}
	res := strings.ToLower(result)
	for _, marker := range finishedMarkers {
		if strings.Contains(res, marker) {
			return store.StatusCompleted
		}
	}
	return store.StatusLive
}

// Format maps a provider format code, defaulting to T20.
func Format(code string) string {
	if f, ok := formats[code]; ok {
		return f
	}
	return store.FormatT20
}

func (n *Normalizer) date(ms int64) string {
	if ms == 0 {
		return n.now().UTC().Format(time.RFC3339)
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// splitTeams splits "R.O" into its two codes.
func splitTeams(t string) (string, string, bool) {
	c1, c2, ok := strings.Cut(strings.TrimSpace(t), ".")
	if !ok || c1 == "" || c2 == "" {
		return "", "", false
	}
	return c1, c2, true
}

// nonZero returns nil for zero, which the provider sends before play starts.
func nonZero(v int64) *int {
	if v == 0 {
		return nil
	}
	i := int(v)
	return &i
}
