// Package storage persists the flat path -> value configuration
// snapshot to a single JSON file on disk.
//
// The contract is deliberately forgiving: Load never propagates an
// error (missing, unreadable or corrupt files degrade to an empty
// snapshot) and Save reports failure with a bool. Persistence problems
// must never crash the tracker.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/headsetnav/console/internal/models"
)

// Store reads and writes the persisted configuration snapshot.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store for the given snapshot file path, creating
// the parent directory if needed.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the snapshot file location (reported by /api/info and
// served by the download endpoint).
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted snapshot. On a missing file, unreadable file
// or parse failure it returns an empty snapshot; the error is logged,
// never returned. Unknown paths inside the snapshot are the registry's
// problem (it skips them on apply).
func (s *Store) Load() *models.ConfigSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("[ConfigStore] read %s failed: %v, starting from defaults\n", s.path, err)
		}
		return models.EmptyConfigSnapshot()
	}

	snap := models.EmptyConfigSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		fmt.Printf("[ConfigStore] parse %s failed: %v, starting from defaults\n", s.path, err)
		return models.EmptyConfigSnapshot()
	}
	if snap.Values == nil {
		snap.Values = make(map[string]interface{})
	}
	return snap
}

// Save stamps lastModified, serializes and overwrites the snapshot
// file. Returns false on any I/O failure. The write goes through a
// staging file plus rename so a crash mid-write never leaves a torn
// snapshot behind.
func (s *Store) Save(snap *models.ConfigSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap.LastModified = time.Now().Unix()
	if snap.Version == 0 {
		snap.Version = models.ConfigSnapshotVersion
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		fmt.Printf("[ConfigStore] marshal failed: %v\n", err)
		return false
	}

	if err := s.writeAtomic(data); err != nil {
		fmt.Printf("[ConfigStore] write %s failed: %v\n", s.path, err)
		return false
	}
	return true
}

// ReadRaw returns the snapshot file bytes for the download endpoint.
func (s *Store) ReadRaw() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.ReadFile(s.path)
}

// WriteRaw replaces the snapshot file with uploaded bytes. The payload
// must parse as a snapshot; arbitrary bytes are rejected before
// anything touches disk.
func (s *Store) WriteRaw(data []byte) error {
	snap := &models.ConfigSnapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return fmt.Errorf("uploaded data is not a valid snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAtomic(data)
}

func (s *Store) writeAtomic(data []byte) error {
	staging := s.path + "." + uuid.New().String()[:8] + ".tmp"
	if err := os.WriteFile(staging, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(staging, s.path); err != nil {
		os.Remove(staging)
		return err
	}
	return nil
}
