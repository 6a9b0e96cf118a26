package notes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// record is the persisted and fetched shape of a note.
type record struct {
	ID       recordID `json:"id"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Category string   `json:"category"`
	Archived bool     `json:"archived"`
}

// recordID accepts either a JSON string or a JSON number.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("note id: %w", err)
	}
	*id = recordID(n.String())
	return nil
}

var errNotArray = errors.New("notes payload is not a JSON array")

// DecodeNotes parses a serialized note sequence. Only a payload that is not a
// JSON array is an error; individual records that fail the schema are dropped.
func DecodeNotes(data []byte) ([]Note, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, errNotArray
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	out := make([]Note, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		n, ok := decodeRecord(r)
		if !ok || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out, nil
}

func decodeRecord(raw json.RawMessage) (Note, bool) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Note{}, false
	}

	n := Note{
		ID:       strings.TrimSpace(string(rec.ID)),
		Title:    strings.TrimSpace(rec.Title),
		Body:     strings.TrimSpace(rec.Body),
		Archived: rec.Archived,
	}
	if n.ID == "" || n.Title == "" || n.Body == "" {
		return Note{}, false
	}

	cat, ok := ParseCategory(rec.Category)
	if !ok {
		cat = DefaultCategory
	}
	n.Category = cat
	return n, true
}

// EncodeNotes serializes notes in the persisted record shape.
func EncodeNotes(notes []Note) ([]byte, error) {
	recs := make([]record, len(notes))
	for i, n := range notes {
		recs[i] = record{
			ID:       recordID(n.ID),
			Title:    n.Title,
			Body:     n.Body,
			Category: string(n.Category),
			Archived: n.Archived,
		}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encode notes: %w", err)
	}
	return data, nil
}
