package commentary

import (
	"bytes"
	"strconv"

	"github.com/fortuna/cricbase/internal/ingest/rawjson"
)

// EventTypeBall tags a feed event that describes a delivery.
const EventTypeBall = "b"

// BallFeed is one raw event from the ball feed. Every field is optional.
type BallFeed struct {
	ID          rawjson.String `json:"id"`   // epoch milliseconds
	Type        rawjson.String `json:"type"` // "b" for a delivery
	Over        rawjson.String `json:"o"`    // "48.4"
	Runs        rawjson.String `json:"b"`    // "4", "0+1"
	Header      rawjson.String `json:"c1"`   // "K Clarke to K Rahul"
	Text        rawjson.String `json:"c2"`   // HTML commentary
	IsCatchDrop jsonTrue       `json:"is_catch_drop"`
}

// jsonTrue is set only by the JSON literal true or the number 1. Strings and
// other numbers leave it false.
type jsonTrue bool

func (b *jsonTrue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*b = false
	if bytes.Equal(data, []byte("true")) {
		*b = true
		return nil
	}
	if f, err := strconv.ParseFloat(string(data), 64); err == nil && f == 1 {
		*b = true
	}
	return nil
}

// Filters narrows the feed. The zero value returns everything.
type Filters struct {
	Highlights   bool `json:"highlights"`
	Overs        bool `json:"overs"`
	Wickets      bool `json:"wickets"`
	Sixes        bool `json:"sixes"`
	Fours        bool `json:"fours"`
	FirstInning  bool `json:"firstInning"`
	SecondInning bool `json:"secondInning"`
	Milestones   bool `json:"milestones"`
	ThirdInning  bool `json:"thirdInning"`
	FourthInning bool `json:"fourthInning"`
}

type feedRequest struct {
	MatchKey  string  `json:"matchKey"`
	LastDocID int64   `json:"lastDocId"`
	Filters   Filters `json:"filters"`
}
