package matches

import (
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/timeutil"
)

// Snapshot is the persisted and published form of a board.
type Snapshot struct {
	Date        string    `json:"date"`
	LastUpdated time.Time `json:"lastUpdated"`
	Live        []Match   `json:"live"`
	Upcoming    []Match   `json:"upcoming"`
}

// NewSnapshot builds a snapshot for the UTC date of updated.
func NewSnapshot(board Board, updated time.Time) Snapshot {
	updated = updated.UTC()
	return Snapshot{
		Date:        timeutil.FormatDate(updated),
		LastUpdated: updated,
		Live:        nonNil(board.Live),
		Upcoming:    nonNil(board.Upcoming),
	}
}

// Board returns the classified sets held by the snapshot.
func (s Snapshot) Board() Board {
	return Board{Live: nonNil(s.Live), Upcoming: nonNil(s.Upcoming)}
}

func nonNil(list []Match) []Match {
	if list == nil {
		return make([]Match, 0)
	}
	return list
}
