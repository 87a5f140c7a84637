package snapshots

import (
	"fmt"
	"path/filepath"
)

const boardDir = "board"

// BoardSnapshotPath builds the path to a board snapshot for a given date.
func BoardSnapshotPath(basePath, date string) string {
	return filepath.Join(basePath, boardDir, fmt.Sprintf("%s.json", date))
}

func manifestPath(basePath string) string {
	return filepath.Join(basePath, "manifest.json")
}
