package models

// ConfigSnapshot is the persisted form of the runtime configuration:
// a flat path -> raw value map plus bookkeeping. It is created on demand
// for save/load and does not live in memory between calls.
type ConfigSnapshot struct {
	Values       map[string]interface{} `json:"values"`
	Version      int                    `json:"version"`
	LastModified int64                  `json:"lastModified"` // unix seconds
}

// EmptyConfigSnapshot returns a snapshot with no values at the current
// schema version. Load failures degrade to this rather than erroring.
func EmptyConfigSnapshot() *ConfigSnapshot {
	return &ConfigSnapshot{
		Values:  make(map[string]interface{}),
		Version: ConfigSnapshotVersion,
	}
}

// ConfigSnapshotVersion is bumped when the persisted layout changes.
const ConfigSnapshotVersion = 1
