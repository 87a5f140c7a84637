package matches

import (
	"regexp"
	"strings"
	"time"
)

var (
	livePattern      = regexp.MustCompile(`(?i)live|in progress|playing`)
	upcomingPattern  = regexp.MustCompile(`(?i)upcoming|scheduled|preview`)
	completedPattern = regexp.MustCompile(`(?i)completed|finished|ended`)
)

// Board is the classified view of a match list.
type Board struct {
	Live     []Match `json:"live"`
	Upcoming []Match `json:"upcoming"`
}

// IsLive reports whether the match is in play.
func IsLive(m Match) bool {
	if m.MatchStarted && !m.MatchEnded {
		return true
	}
	return m.Status != "" && livePattern.MatchString(m.Status)
}

// IsScheduled reports whether the match has not started or is flagged as upcoming.
func IsScheduled(m Match) bool {
	if !m.MatchStarted {
		return true
	}
	return m.Status != "" && upcomingPattern.MatchString(m.Status)
}

// IsUpcoming reports whether the match looks scheduled, ignoring live precedence.
func IsUpcoming(m Match, now time.Time) bool {
	if IsScheduled(m) {
		return true
	}
	if start, ok := m.StartTime(); ok && start.After(now) {
		return true
	}
	return false
}

// IsCompleted reports whether the match has finished.
func IsCompleted(m Match) bool {
	if m.MatchEnded {
		return true
	}
	return m.Status != "" && completedPattern.MatchString(m.Status)
}

// Classify splits matches into live and upcoming. Live takes precedence, so a match
// never lands in both sets; a match matching neither predicate is dropped. Each match is
// judged on its own fields, so duplicate or empty IDs cannot hide one another.
func Classify(all []Match, now time.Time) Board {
	board := Board{
		Live:     make([]Match, 0),
		Upcoming: make([]Match, 0),
	}
	for _, m := range all {
		switch {
		case IsLive(m):
			board.Live = append(board.Live, m)
		case IsUpcoming(m, now):
			board.Upcoming = append(board.Upcoming, m)
		}
	}
	return board
}

// LiveIDs returns the set of live match identifiers on the board.
func (b Board) LiveIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(b.Live))
	for _, m := range b.Live {
		ids[m.ID] = struct{}{}
	}
	return ids
}

// StartTime parses DateTimeGMT. Upstream omits the zone suffix, so UTC is assumed.
func (m Match) StartTime() (time.Time, bool) {
	raw := strings.TrimSpace(m.DateTimeGMT)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
