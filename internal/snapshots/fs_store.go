package snapshots

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
)

// Store defines how snapshots are loaded and listed.
type Store interface {
	LoadBoard(date string) (matches.Snapshot, error)
	Dates() ([]string, error)
}

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadBoard reads the board snapshot for date (YYYY-MM-DD) from {basePath}/board/{date}.json.
func (s *FSStore) LoadBoard(date string) (matches.Snapshot, error) {
	if s == nil {
		return matches.Snapshot{}, errors.New("snapshot store not configured")
	}
	if date == "" {
		return matches.Snapshot{}, errors.New("snapshot date required")
	}
	var payload matches.Snapshot
	if err := decodeFile(BoardSnapshotPath(s.basePath, date), &payload); err != nil {
		return matches.Snapshot{}, err
	}
	if payload.Date == "" {
		payload.Date = date
	}
	return payload, nil
}

// Dates lists stored snapshot dates according to the manifest.
func (s *FSStore) Dates() ([]string, error) {
	if s == nil {
		return nil, errors.New("snapshot store not configured")
	}
	var m Manifest
	if err := decodeFile(manifestPath(s.basePath), &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	if m.Board.Dates == nil {
		return []string{}, nil
	}
	return m.Board.Dates, nil
}

func decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
