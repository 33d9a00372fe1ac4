package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// SemesterGPA is one entry of a student's GPA table. A nil GPA means the
// semester has no GPA because the student was referred.
type SemesterGPA struct {
	Key string
	GPA *float64
}

// IsReferred reports whether the semester has no GPA
func (s SemesterGPA) IsReferred() bool {
	return s.GPA == nil
}

// SemesterGPAs is an ordered semester key -> GPA mapping. It is encoded as a
// JSON object and keeps the key order found on the wire, which is the order
// semesters are displayed in.
type SemesterGPAs []SemesterGPA

// Lookup returns the GPA stored under key
func (g SemesterGPAs) Lookup(key string) (*float64, bool) {
	for _, s := range g {
		if s.Key == key {
			return s.GPA, true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes a JSON object while preserving key order. Duplicate
// keys keep their first position and take the last value.
func (g *SemesterGPAs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*g = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("gpas: expected JSON object, got %v", tok)
	}

	entries := SemesterGPAs{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("gpas: unexpected key %v", keyTok)
		}

		var value *float64
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("gpas: value for %q: %w", key, err)
		}

		if i, seen := index[key]; seen {
			entries[i].GPA = value
			continue
		}
		index[key] = len(entries)
		entries = append(entries, SemesterGPA{Key: key, GPA: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*g = entries
	return nil
}

// MarshalJSON encodes the mapping as a JSON object in slice order
func (g SemesterGPAs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(s.GPA)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StudentResult is one student's published outcome as served by the results API
type StudentResult struct {
	RollNumber       string       `json:"roll_number"`
	GPAs             SemesterGPAs `json:"gpas"`
	ReferredSubjects []string     `json:"referred_subjects"`
	CreatedAt        time.Time    `json:"created_at"`
}

// timestampLayouts are the created_at formats accepted from the API,
// tried in order
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.RFC1123,
	"2006-01-02",
	"02/01/2006",
}

// UnmarshalJSON accepts created_at as RFC 3339, as a zoneless ISO date-time
// (read as UTC), as an HTTP date or as Unix seconds. A timestamp in any
// other form is logged and left zero; the rest of the record still decodes.
func (r *StudentResult) UnmarshalJSON(data []byte) error {
	type wire StudentResult
	aux := struct {
		*wire
		CreatedAt json.RawMessage `json:"created_at"`
	}{wire: (*wire)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.CreatedAt = time.Time{}
	if t, ok := parseTimestamp(aux.CreatedAt); ok {
		r.CreatedAt = t
	} else {
		log.Printf("Ignoring unrecognised created_at %s of result %s", aux.CreatedAt, r.RollNumber)
	}
	return nil
}

// parseTimestamp reads a created_at value. Absent, null and empty values
// are valid and yield the zero time.
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, true
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		var seconds float64
		if err := json.Unmarshal(raw, &seconds); err != nil {
			return time.Time{}, false
		}
		return time.Unix(int64(seconds), 0).UTC(), true
	}
	if text == "" {
		return time.Time{}, true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PublishedOn formats the publication date as dd/mm/yyyy
func (r *StudentResult) PublishedOn() string {
	if r.CreatedAt.IsZero() {
		return ""
	}
	return r.CreatedAt.Format("02/01/2006")
}

// GPA returns a pointer to v, for building SemesterGPAs literals
func GPA(v float64) *float64 {
	return &v
}
