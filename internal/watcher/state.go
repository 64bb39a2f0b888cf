package watcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State holds the last computed fee per pool so restarts can report deltas.
type State struct {
	Fees      map[string]uint32 `json:"fees"`
	UpdatedAt string            `json:"updated_at"`
}

// StateStore persists watch state to disk.
type StateStore struct {
	path    string
	enabled bool
}

func NewStateStore(path string, enabled bool) *StateStore {
	return &StateStore{path: path, enabled: enabled}
}

func (s *StateStore) Load() (map[string]uint32, bool, error) {
	if !s.enabled {
		return nil, false, nil
	}

	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat state: %w", err)
	}
	if stat.IsDir() {
		return nil, false, fmt.Errorf("state path is a directory")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false, fmt.Errorf("read state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false, fmt.Errorf("parse state: %w", err)
	}

	return state.Fees, true, nil
}

func (s *StateStore) Save(fees map[string]uint32) error {
	if !s.enabled {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	state := State{
		Fees:      fees,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}

	return nil
}
