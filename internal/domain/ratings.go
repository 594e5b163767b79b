package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Score is one rater's entry in a book's ratings. The raw JSON value is kept
// as written: tooling may have stored null, a number, or even a string, and
// the ratings validator needs to tell those apart.
type Score struct {
	raw json.RawMessage
}

// ScoreOf returns an integer score.
func ScoreOf(n int) Score {
	return Score{raw: json.RawMessage(strconv.Itoa(n))}
}

// RawScore wraps an arbitrary JSON literal. Intended for tests and imports.
func RawScore(literal string) Score {
	return Score{raw: json.RawMessage(literal)}
}

// IsSet reports whether the score counts as "rated": null, 0, "", and false
// all mean the rater has not scored the book yet.
func (s Score) IsSet() bool {
	raw := bytes.TrimSpace(s.raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n':
		return false
	case 'f':
		return false
	case 't', '[', '{':
		return true
	case '"':
		return len(raw) > 2
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f != 0
	}
}

// Int returns the score when it is a JSON number with an integral value.
// Strings holding digits are not integers. Integers beyond the int range are
// saturated.
func (s Score) Int() (int, bool) {
	raw := bytes.TrimSpace(s.raw)
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.Trunc(f) != f {
		return 0, false
	}
	switch {
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	}
	return int(f), true
}

// String renders the score as the data file holds it, without quotes.
func (s Score) String() string {
	raw := bytes.TrimSpace(s.raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			return str
		}
	}
	return string(raw)
}

// UnmarshalJSON keeps the raw literal.
func (s *Score) UnmarshalJSON(data []byte) error {
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the raw literal back, or null when unset.
func (s Score) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(s.raw)) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// Entry is one key/value pair of an OrderedMap.
type Entry[V any] struct {
	Key   string
	Value V
}

// OrderedMap is a JSON object that keeps its keys in file order. Raters are
// listed on the page in the order the data file lists them.
type OrderedMap[V any] []Entry[V]

// Ratings maps rater name to score.
type Ratings = OrderedMap[Score]

// Reviews maps rater name to free-text review; nil means not written yet.
type Reviews = OrderedMap[*string]

// Get returns the value stored for key.
func (m OrderedMap[V]) Get(key string) (V, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (m OrderedMap[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set replaces the value for key in place, or appends a new entry.
func (m *OrderedMap[V]) Set(key string, value V) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Entry[V]{Key: key, Value: value})
}

// Keys returns the keys in order.
func (m OrderedMap[V]) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// UnmarshalJSON decodes a JSON object preserving key order. A repeated key
// keeps its first position and its last value.
func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	var out OrderedMap[V]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("expected object key")
		}
		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}

// MarshalJSON encodes the entries as a JSON object in order.
func (m OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("value for %q: %w", e.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
