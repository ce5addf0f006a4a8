package livematches

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fortuna/cricbase/internal/ingest/rawjson"
)

// Provider status codes.
const (
	codeUpcoming = 1
	codeStarted  = 2 // live or finished, decided by the result text
)

// LiveMatch is one record of the live match list. The provider uses single
// letter keys; every field is optional.
type LiveMatch struct {
	Team1Code   rawjson.String `json:"b"`
	Team2Code   rawjson.String `json:"c"`
	Logo        rawjson.String `json:"fi"`
	Team1Score  rawjson.String `json:"j"`
	Team2Score  rawjson.String `json:"k"`
	StatusCode  rawjson.Int    `json:"d"`
	Result      rawjson.String `json:"res"`
	FormatCode  rawjson.String `json:"fo"`
	StartMillis rawjson.Int    `json:"ti"`
	Venue       rawjson.String `json:"v"`
	CurrentOver rawjson.Int    `json:"g"`
	CurrentBall rawjson.Int    `json:"h"`
	DateID      rawjson.String `json:"dt_id"`
	Series      rawjson.String `json:"e"`
}

// MatchStatistics is the per-match statistics record. It shares the list
// fields, may carry both team codes in the dotted field t ("R.O"), and encodes
// the current over and ball as tokens such as "O5.4W5".
type MatchStatistics struct {
	LiveMatch
	Teams       rawjson.String `json:"t"`
	CurrentOver interface{}    `json:"g"`
	CurrentBall interface{}    `json:"h"`

	// Raw is the undecoded payload.
	Raw json.RawMessage `json:"-"`
}

// Entry pairs a list record with the id it was keyed by.
type Entry struct {
	ID    string
	Match LiveMatch
}

// liveList decodes the id-keyed list object in document order.
type liveList []Entry

func (l *liveList) UnmarshalJSON(data []byte) error {
	*l = nil
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("[]")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("live match list: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("live match %s: %w", id, err)
		}

		// Records that are not objects carry nothing to normalize.
		var m LiveMatch
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		*l = append(*l, Entry{ID: id, Match: m})
	}
	return nil
}
