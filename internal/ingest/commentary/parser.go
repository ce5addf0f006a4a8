package commentary

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/cricbase/internal/store"
)

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// wicketKinds is checked in order; the first phrase found in the commentary
// decides the dismissal.
var wicketKinds = []struct {
	kind    string
	phrases []string
}{
	{store.WicketBowled, []string{"bowled"}},
	{store.WicketCaught, []string{"caught"}},
	{store.WicketLBW, []string{"lbw", "leg before"}},
	{store.WicketRunOut, []string{"run out"}},
	{store.WicketStumped, []string{"stumped"}},
}

// ParseDelivery converts a feed event into a Delivery. Malformed fields fall
// back to zero values; the event is never rejected. now is used as the
// timestamp when the event has no id.
func ParseDelivery(ev BallFeed, matchID string, now time.Time) store.Delivery {
	over, ball := parseOver(ev.Over.Value)
	runs := parseRuns(ev.Runs.Or("0"))
	bowler, batsman := parseHeader(ev.Header.Value)
	text := ev.Text.Value

	d := store.Delivery{
		ID:          matchID + "_" + feedID(ev),
		MatchID:     matchID,
		Over:        over,
		Ball:        ball,
		Bowler:      bowler,
		Batsman:     batsman,
		Runs:        runs,
		IsFour:      runs == 4,
		IsSix:       runs == 6,
		Description: cleanDescription(text),
		Timestamp:   timestamp(ev, now),
	}

	lower := strings.ToLower(text)
	if bool(ev.IsCatchDrop) || strings.Contains(lower, "wicket") {
		d.IsWicket = true
		d.WicketType = wicketType(lower)
	}
	return d
}

// parseOver splits "48.4" into over 48 and ball 4. A bare "48" is ball 0;
// anything after a second dot is ignored.
func parseOver(s string) (int, int) {
	overPart, rest, _ := strings.Cut(strings.TrimSpace(s), ".")
	ballPart, _, _ := strings.Cut(rest, ".")
	return atoiOrZero(overPart), atoiOrZero(ballPart)
}

// parseRuns counts only the runs before any "+" extras.
func parseRuns(s string) int {
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	n := atoiOrZero(s)
	if n < 0 {
		return 0
	}
	return n
}

func parseHeader(s string) (bowler, batsman string) {
	parts := strings.Split(s, " to ")
	if len(parts) < 2 {
		return "", ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

func wicketType(lower string) *string {
	for _, w := range wicketKinds {
		for _, p := range w.phrases {
			if strings.Contains(lower, p) {
				kind := w.kind
				return &kind
			}
		}
	}
	return nil
}

func cleanDescription(s string) string {
	return strings.ReplaceAll(htmlTag.ReplaceAllString(s, ""), "&nbsp;", " ")
}

func feedID(ev BallFeed) string {
	if !ev.ID.Valid || ev.ID.Value == "" {
		return "0"
	}
	return ev.ID.Value
}

func timestamp(ev BallFeed, now time.Time) string {
	ms := ev.DocID()
	if ms == 0 {
		return now.UTC().Format(time.RFC3339)
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// DocID returns the event id as a feed cursor, or 0 when it is not numeric.
func (ev BallFeed) DocID() int64 {
	id := feedID(ev)
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(id, 64); err == nil {
		return int64(f)
	}
	return 0
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
