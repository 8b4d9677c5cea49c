package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/hashstructure/v2"
)

// Store persists session state to a TOML file. Saves are debounced by
// hashing the state: an unchanged state is not rewritten, so the
// periodic save from the session loop is cheap when nothing moved.
type Store struct {
	path     string
	lastHash uint64
}

// NewStore creates a store writing to path. An empty path uses the
// default state file location.
func NewStore(path string) *Store {
	if path == "" {
		path = StatePath()
	}
	return &Store{path: path}
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// LoadState reads the persisted session state. A missing or unreadable
// file falls back to the given defaults: first run is not an error.
// The result is always normalized, so a hand-edited or stale file
// cannot produce an out-of-range cursor or volume.
func (s *Store) LoadState(defaults State) State {
	st := defaults
	if _, err := toml.DecodeFile(s.path, &st); err != nil {
		st = defaults
	}
	st.Normalize()

	if h, err := hashstructure.Hash(st, hashstructure.FormatV2, nil); err == nil {
		s.lastHash = h
	}
	return st
}

// SaveState writes the state if it differs from the last saved one.
// Returns true if a write happened. Write errors are reported but the
// in-memory state is never lost; the next save retries.
func (s *Store) SaveState(st State) (bool, error) {
	h, err := hashstructure.Hash(st, hashstructure.FormatV2, nil)
	if err == nil && h == s.lastHash {
		return false, nil
	}

	if err := s.write(st); err != nil {
		return false, err
	}
	s.lastHash = h
	return true, nil
}

// write encodes the state to a temp file and renames it into place, so
// a crash mid-write cannot truncate the previous state.
func (s *Store) write(st State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.toml")
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := toml.NewEncoder(tmp)
	enc.Indent = "  "
	if err := enc.Encode(st); err != nil {
		tmp.Close()
		return fmt.Errorf("encode state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write state: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
