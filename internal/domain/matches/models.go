package matches

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Team describes one side of a match.
type Team struct {
	Name      string `json:"name"`
	ShortName string `json:"shortname"`
	Img       string `json:"img,omitempty"`
}

// Score is one innings line: runs, wickets, overs.
type Score struct {
	Runs    int     `json:"r"`
	Wickets int     `json:"w"`
	Overs   float64 `json:"o"`
	Inning  string  `json:"inning,omitempty"`
}

// Match is the upstream match shape. It is never mutated by the service.
type Match struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MatchType    string   `json:"matchType"`
	Status       string   `json:"status"`
	Venue        string   `json:"venue"`
	Date         string   `json:"date,omitempty"`
	DateTimeGMT  string   `json:"dateTimeGMT"`
	Teams        []string `json:"teams"`
	TeamInfo     []Team   `json:"teamInfo,omitempty"`
	Score        []Score  `json:"score,omitempty"`
	Series       string   `json:"series,omitempty"`
	SeriesID     string   `json:"series_id,omitempty"`
	MatchStarted bool     `json:"matchStarted"`
	MatchEnded   bool     `json:"matchEnded"`
}

// CommentaryEntry is a single ball-by-ball line. Over is kept as text; upstream sends it
// either as a string ("18.2") or as a number (18.2).
type CommentaryEntry struct {
	Over       string `json:"over"`
	Event      string `json:"event"`
	Commentary string `json:"commentary"`
}

// UnmarshalJSON accepts a string, number or null for over.
func (e *CommentaryEntry) UnmarshalJSON(data []byte) error {
	type entry CommentaryEntry
	aux := struct {
		*entry
		Over json.RawMessage `json:"over"`
	}{entry: (*entry)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	over, err := decodeOver(aux.Over)
	if err != nil {
		return err
	}
	e.Over = over
	return nil
}

func decodeOver(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("commentary over: %w", err)
	}
	return n.String(), nil
}

// MaxCommentaryEntries caps how many commentary lines are cached per match.
const MaxCommentaryEntries = 20

// TruncateCommentary keeps at most MaxCommentaryEntries of the most recent entries.
// Upstream lists newest first, so the head of the slice is kept.
func TruncateCommentary(entries []CommentaryEntry) []CommentaryEntry {
	if len(entries) > MaxCommentaryEntries {
		entries = entries[:MaxCommentaryEntries]
	}
	out := make([]CommentaryEntry, len(entries))
	copy(out, entries)
	return out
}
