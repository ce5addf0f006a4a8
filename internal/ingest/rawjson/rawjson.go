// Package rawjson provides scalar types for decoding loosely typed provider
// payloads. Each type accepts the encodings providers actually send (numbers as
// strings, strings as numbers, null) and never fails decoding; a value that
// cannot be interpreted is simply left invalid so callers apply their default.
package rawjson

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// String holds a JSON string, number, or boolean as text.
type String struct {
	Value string
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *String) UnmarshalJSON(data []byte) error {
	*s = String{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		*s = String{Value: str, Valid: true}
	case '{', '[':
		// Composite values are not scalars; leave invalid.
	default:
		*s = String{Value: string(data), Valid: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s String) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// Or returns the value, or def when the field was absent or null.
func (s String) Or(def string) string {
	if !s.Valid {
		return def
	}
	return s.Value
}

// Int holds an integer sent as a JSON number or numeric string.
type Int struct {
	Value int64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Int) UnmarshalJSON(data []byte) error {
	*i = Int{}
	var s String
	_ = s.UnmarshalJSON(data)
	if !s.Valid {
		return nil
	}

	text := strings.TrimSpace(s.Value)
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		*i = Int{Value: n, Valid: true}
		return nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		*i = Int{Value: int64(f), Valid: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(i.Value, 10)), nil
}

// Or returns the value, or def when the field was absent or not numeric.
func (i Int) Or(def int64) int64 {
	if !i.Valid {
		return def
	}
	return i.Value
}

// Float holds a floating point number sent as a JSON number or numeric string.
type Float struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(data []byte) error {
	*f = Float{}
	var s String
	_ = s.UnmarshalJSON(data)
	if !s.Valid {
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s.Value), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		*f = Float{Value: v, Valid: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Or returns the value, or def when the field was absent or not numeric.
func (f Float) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// Bool is true for JSON true, a non-zero number, or the string "true".
type Bool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bool) UnmarshalJSON(data []byte) error {
	*b = false
	var s String
	_ = s.UnmarshalJSON(data)
	if !s.Valid {
		return nil
	}

	text := strings.ToLower(strings.TrimSpace(s.Value))
	if text == "true" {
		*b = true
		return nil
	}
	if n, err := strconv.ParseFloat(text, 64); err == nil && n != 0 {
		*b = true
	}
	return nil
}
