package config

// SnapshotsConfig controls on-disk board snapshots.
type SnapshotsConfig struct {
	Enabled       bool
	Dir           string
	RetentionDays int
}

func loadSnapshots() SnapshotsConfig {
	return SnapshotsConfig{
		Enabled:       boolEnvOrDefault(envSnapshotsOn, defaultSnapshotsOn),
		Dir:           envOrDefault(envSnapshotsDir, defaultSnapshotsDir),
		RetentionDays: intEnvOrDefault(envSnapshotsRetention, defaultSnapshotsRetention),
	}
}
