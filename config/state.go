package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// State is the local data kept between invocations.
type State struct {
	Cash float64 `json:"cash"`
}

// StateStore persists the State as a JSON file.
type StateStore struct{ path string }

func NewStateStore(path string) *StateStore { return &StateStore{path: path} }

// Load returns the saved state, or one holding defaultCash if none was saved.
func (s *StateStore) Load(defaultCash float64) (*State, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &State{Cash: defaultCash}, nil
	}
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Save writes st.
func (s *StateStore) Save(st *State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}
