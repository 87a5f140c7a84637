package matches

import "strings"

// Tab selects which slice of the match list a caller wants.
type Tab string

const (
	TabAll       Tab = "all"
	TabUpcoming  Tab = "upcoming"
	TabCompleted Tab = "completed"
)

// Filter narrows a match list for the schedule view.
type Filter struct {
	Tab    Tab
	Format string
	Query  string
}

// ParseTab maps a query value to a Tab, defaulting to TabUpcoming.
func ParseTab(raw string) (Tab, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(TabUpcoming):
		return TabUpcoming, true
	case string(TabCompleted):
		return TabCompleted, true
	case string(TabAll):
		return TabAll, true
	default:
		return "", false
	}
}

// Apply returns the matches that pass the filter, in input order.
// The schedule tab uses the looser upcoming rule (no start-time check, no live precedence).
func (f Filter) Apply(all []Match) []Match {
	out := make([]Match, 0, len(all))
	query := strings.ToLower(strings.TrimSpace(f.Query))
	for _, m := range all {
		switch f.Tab {
		case TabUpcoming:
			if !IsScheduled(m) {
				continue
			}
		case TabCompleted:
			if !IsCompleted(m) {
				continue
			}
		}
		if f.Format != "" && !strings.EqualFold(f.Format, "all") && !strings.EqualFold(m.MatchType, f.Format) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(m.Name), query) {
			continue
		}
		out = append(out, m)
	}
	return out
}
