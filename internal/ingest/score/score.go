// Package score parses the compact score and over/ball encodings used by the
// live-list provider.
package score

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/fortuna/cricbase/internal/store"
)

// NotStarted is the provider's encoding for a side that has not batted yet.
const NotStarted = "0/0(0.0"

// The opening paren is never closed by the provider, so it is matched as a
// prefix rather than a delimiter.
var (
	scorePattern = regexp.MustCompile(`^(\d+)/(\d+)(?:\((\d+(?:\.\d+)?))?`)
	digitRun     = regexp.MustCompile(`\d+(\.\d+)?`)
)

// ParseScore parses "runs/wickets(overs" into a TeamScore. It returns nil for
// an empty string, for NotStarted, and for anything it cannot parse.
func ParseScore(text string) *store.TeamScore {
	text = strings.TrimSpace(text)
	if text == "" || text == NotStarted {
		return nil
	}

	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	runs, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	wickets, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}

	var overs float64
	if m[3] != "" {
		overs, err = strconv.ParseFloat(m[3], 64)
		if err != nil {
			return nil
		}
	}

	return &store.TeamScore{Runs: runs, Wickets: wickets, Overs: overs}
}

// ParseOverBallToken extracts an integer from a value that may be a number, a
// numeric string, or an encoded token such as "O5.4W5". For tokens the integer
// part of the first digit run is used and everything else is discarded, so
// "O5.4W5" yields 5. The bool is false when v holds no digits at all.
func ParseOverBallToken(v interface{}) (int, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case string:
		return parseToken(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), true
	case reflect.Float32:
		return int(rv.Float()), true
	}
	return parseToken(fmt.Sprint(v))
}

func parseToken(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	run := digitRun.FindString(s)
	if run == "" {
		return 0, false
	}
	if i := strings.IndexByte(run, '.'); i >= 0 {
		run = run[:i]
	}
	n, err := strconv.Atoi(run)
	if err != nil {
		return 0, false
	}
	return n, true
}
