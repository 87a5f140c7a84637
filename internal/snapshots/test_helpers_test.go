package snapshots

import (
	"os"
	"testing"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
)

func simpleSnapshot(date string) matches.Snapshot {
	return matches.Snapshot{
		Date:     date,
		Live:     []matches.Match{{ID: date}},
		Upcoming: []matches.Match{},
	}
}

func writeSimpleSnapshot(t *testing.T, w *Writer, date string) {
	t.Helper()
	if err := w.WriteBoardSnapshot(date, simpleSnapshot(date)); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", date, err)
	}
}

func requireSnapshotExists(t *testing.T, w *Writer, date string) {
	t.Helper()
	if _, err := os.Stat(BoardSnapshotPath(w.BasePath(), date)); err != nil {
		t.Fatalf("expected snapshot for %s to be written: %v", date, err)
	}
}

func assertDatesEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("dates length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("dates mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}
