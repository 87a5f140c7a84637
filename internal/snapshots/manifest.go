package snapshots

import (
	"encoding/json"
	"os"
	"time"
)

// Manifest tracks which board snapshots exist on disk.
type Manifest struct {
	Version       int       `json:"version"`
	GeneratedAt   time.Time `json:"generatedAt"`
	RetentionDays int       `json:"retentionDays"`
	Board         BoardMeta `json:"board"`
}

// BoardMeta lists stored board dates and when the newest was written.
type BoardMeta struct {
	Dates         []string  `json:"dates"`
	LastRefreshed time.Time `json:"lastRefreshed"`
}

func defaultManifest(retentionDays int) Manifest {
	return Manifest{
		Version:       1,
		GeneratedAt:   time.Now().UTC(),
		RetentionDays: retentionDays,
		Board: BoardMeta{
			Dates: []string{},
		},
	}
}

func readManifest(path string, retentionDays int) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(retentionDays), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(retentionDays), err
	}
	if m.Board.Dates == nil {
		m.Board.Dates = []string{}
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest, now time.Time) error {
	m.GeneratedAt = now.UTC()
	path := manifestPath(basePath)
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
